// Package strings holds small string helpers shared by the job naming code
// and the CLI output.
package strings

import (
	"strings"
)

// CollapseDelimiter replaces every run of sep in s with a single sep and
// trims sep from both ends. Empty name fields therefore never produce
// doubled or dangling delimiters.
func CollapseDelimiter(s string, sep byte) string {
	var b strings.Builder
	b.Grow(len(s))

	prevSep := true // drops leading separators
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == sep {
			if prevSep {
				continue
			}
			prevSep = true
			b.WriteByte(c)
			continue
		}
		prevSep = false
		b.WriteByte(c)
	}

	return strings.TrimSuffix(b.String(), string(sep))
}

// JoinFields joins fields with sep and collapses the result.
func JoinFields(sep byte, fields ...string) string {
	return CollapseDelimiter(strings.Join(fields, string(sep)), sep)
}

// IsFilesystemSafe reports whether s only contains characters that are safe
// in a single path component on every platform we publish to.
func IsFilesystemSafe(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == '+':
		default:
			return false
		}
	}
	return true
}
