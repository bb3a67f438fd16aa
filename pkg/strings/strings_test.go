package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no delimiters", input: "build", expected: "build"},
		{name: "single delimiters kept", input: "a-b-c", expected: "a-b-c"},
		{name: "doubled delimiter collapsed", input: "a--b", expected: "a-b"},
		{name: "long run collapsed", input: "a----b", expected: "a-b"},
		{name: "leading and trailing trimmed", input: "--a-b--", expected: "a-b"},
		{name: "only delimiters", input: "---", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CollapseDelimiter(tc.input, '-'))
		})
	}
}

func TestJoinFields(t *testing.T) {
	assert.Equal(t, "unit-core-proj-el7.x64-debug", JoinFields('-', "unit", "core", "proj", "", "", "el7.x64", "debug"))
	assert.Equal(t, "pull-core-proj", JoinFields('-', "pull", "core", "proj"))
	assert.Equal(t, "", JoinFields('-'))
}

func TestIsFilesystemSafe(t *testing.T) {
	assert.True(t, IsFilesystemSafe("compile-core-proj-el7.x86_64.farm-debug"))
	assert.True(t, IsFilesystemSafe("gcc+4"))
	assert.False(t, IsFilesystemSafe(""))
	assert.False(t, IsFilesystemSafe(".."))
	assert.False(t, IsFilesystemSafe("a/b"))
	assert.False(t, IsFilesystemSafe("a b"))
	assert.False(t, IsFilesystemSafe("a:b"))
}

func TestTruncateMiddle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "short string unchanged", input: "hello", maxLen: 10, expected: "hello"},
		{name: "exact length unchanged", input: "hello", maxLen: 5, expected: "hello"},
		{name: "middle cut", input: "compile-core-demo-el7", maxLen: 11, expected: "comp...-el7"},
		{name: "odd budget favours head", input: "abcdefghij", maxLen: 8, expected: "abc...ij"},
		{name: "clamped to minimum", input: "abcdefghij", maxLen: 1, expected: "a...j"},
		{name: "unicode safe", input: "ääääääääää", maxLen: 7, expected: "ää...ää"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateMiddle(tc.input, tc.maxLen)
			assert.Equal(t, tc.expected, got)
		})
	}
}
