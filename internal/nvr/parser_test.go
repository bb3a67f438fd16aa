package nvr_test

import (
	"errors"
	"testing"

	"distbuild/internal/fixture"
	"distbuild/internal/model"
	"distbuild/internal/nvr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dictionaries() nvr.Dictionaries {
	return nvr.NewDictionaries(fixture.Reference(), "")
}

func requireKind(t *testing.T, err error, kind nvr.ErrorKind) *nvr.ParseError {
	t.Helper()
	var pe *nvr.ParseError
	require.True(t, errors.As(err, &pe), "expected *nvr.ParseError, got %v", err)
	assert.Equal(t, kind, pe.Kind)
	return pe
}

func TestParseBuild(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    nvr.Build
		wantErr nvr.ErrorKind
		token   string
	}{
		{
			name: "plain",
			id:   "libcore-1.2-abc123.engine",
			want: nvr.Build{Package: "libcore", Version: "1.2", ChangeSet: "abc123", Project: "engine"},
		},
		{
			name: "garbage preserved verbatim",
			id:   "libcore-1.2-abc123.rc1.nightly.engine",
			want: nvr.Build{Package: "libcore", Version: "1.2", ChangeSet: "abc123", Garbage: []string{"rc1", "nightly"}, Project: "engine"},
		},
		{
			name: "longest package name wins",
			id:   "java-beta-1-1.rel.proj",
			want: nvr.Build{Package: "java-beta", Version: "1", ChangeSet: "1", Garbage: []string{"rel"}, Project: "proj"},
		},
		{
			name:    "unknown package",
			id:      "python-3-1.engine",
			wantErr: nvr.UnknownPackageName,
		},
		{
			name:    "package must be followed by separator",
			id:      "libcorex-1-1.engine",
			wantErr: nvr.UnknownPackageName,
		},
		{
			name:    "no release",
			id:      "libcore-1.2.engine",
			wantErr: nvr.MalformedNVR,
			token:   "1.2.engine",
		},
		{
			name:    "too many separators",
			id:      "libcore-1-2-3.engine",
			wantErr: nvr.MalformedNVR,
		},
		{
			name:    "no project",
			id:      "libcore-1-abc",
			wantErr: nvr.MissingChangeSetOrProject,
		},
		{
			name:    "unknown project",
			id:      "libcore-1-abc.nope",
			wantErr: nvr.UnknownProjectName,
			token:   "nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nvr.ParseBuild(tt.id, dictionaries())
			if tt.wantErr != 0 {
				pe := requireKind(t, err, tt.wantErr)
				assert.Equal(t, tt.id, pe.Identifier)
				if tt.token != "" {
					assert.Equal(t, tt.token, pe.Token)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.id, got.String())
		})
	}
}

func TestParseBuild_ShorterPackageOnly(t *testing.T) {
	dict := dictionaries()
	dict.Packages = []string{"java"}

	_, err := nvr.ParseBuild("java-beta-1-1.rel.proj", dict)
	requireKind(t, err, nvr.MalformedNVR)
}

func TestCutPackage_LongestMatch(t *testing.T) {
	for _, packages := range [][]string{
		{"java", "java-beta"},
		{"java-beta", "java"},
	} {
		name, rest, err := nvr.CutPackage("java-beta-1-1.rel.proj.suffix", packages)
		require.NoError(t, err)
		assert.Equal(t, "java-beta", name)
		assert.Equal(t, "1-1.rel.proj.suffix", rest)
	}

	name, _, err := nvr.CutPackage("java-1-1.rel.proj.suffix", []string{"java", "java-beta"})
	require.NoError(t, err)
	assert.Equal(t, "java", name)
}

func TestParseArchive(t *testing.T) {
	base := nvr.Build{Package: "libcore", Version: "1.2", ChangeSet: "abc123", Project: "engine"}

	tests := []struct {
		name     string
		id       string
		want     model.Combination
		explicit []bool
		platform string
		garbage  []string
		sources  bool
	}{
		{
			name:     "all defaults",
			id:       "libcore-1.2-abc123.engine.el7.x86_64.tar",
			want:     model.Combination{"debug": "off", "sanitizer": "none"},
			explicit: []bool{false, false},
			platform: "el7.x86_64",
		},
		{
			name:     "all explicit",
			id:       "libcore-1.2-abc123.engine.on.asan.el7.x86_64.tar",
			want:     model.Combination{"debug": "on", "sanitizer": "asan"},
			explicit: []bool{true, true},
			platform: "el7.x86_64",
		},
		{
			name:     "only last category",
			id:       "libcore-1.2-abc123.engine.tsan.win10.amd64.tar",
			want:     model.Combination{"debug": "off", "sanitizer": "tsan"},
			explicit: []bool{false, true},
			platform: "win10.amd64",
		},
		{
			name:     "only first category",
			id:       "libcore-1.2-abc123.engine.on.el7.x86_64.tar",
			want:     model.Combination{"debug": "on", "sanitizer": "none"},
			explicit: []bool{true, false},
			platform: "el7.x86_64",
		},
		{
			name:     "garbage and variants",
			id:       "libcore-1.2-abc123.rc1.engine.on.el7.x86_64.tar",
			want:     model.Combination{"debug": "on", "sanitizer": "none"},
			explicit: []bool{true, false},
			platform: "el7.x86_64",
			garbage:  []string{"rc1"},
		},
		{
			name:     "sources",
			id:       "libcore-1.2-abc123.rc.engine.src.tar",
			want:     model.Combination{},
			platform: "src",
			garbage:  []string{"rc"},
			sources:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nvr.ParseArchive(tt.id, dictionaries())
			require.NoError(t, err)

			wantBuild := base
			wantBuild.Garbage = tt.garbage
			assert.Equal(t, wantBuild, got.Build)
			assert.Equal(t, tt.want, got.Combination())
			assert.Equal(t, tt.platform, got.Platform)
			assert.Equal(t, "tar", got.Suffix)
			assert.Equal(t, tt.sources, got.Sources)

			var explicit []bool
			for _, v := range got.Variants {
				explicit = append(explicit, v.Explicit)
			}
			assert.Equal(t, tt.explicit, explicit)
			assert.Equal(t, tt.id, got.String())
		})
	}
}

func TestParseArchive_DefaultOmission(t *testing.T) {
	dict := dictionaries()
	pairs := [][2]string{
		{"libcore-1.2-abc123.engine.el7.x86_64.tar", "libcore-1.2-abc123.engine.off.none.el7.x86_64.tar"},
		{"libcore-1.2-abc123.engine.asan.el7.x86_64.tar", "libcore-1.2-abc123.engine.off.asan.el7.x86_64.tar"},
		{"libcore-1.2-abc123.engine.on.el7.x86_64.tar", "libcore-1.2-abc123.engine.on.none.el7.x86_64.tar"},
	}
	for _, pair := range pairs {
		omitted, err := nvr.ParseArchive(pair[0], dict)
		require.NoError(t, err)
		spelled, err := nvr.ParseArchive(pair[1], dict)
		require.NoError(t, err)

		assert.Equal(t, omitted.Build, spelled.Build, pair[1])
		assert.Equal(t, omitted.Combination(), spelled.Combination(), pair[1])
		assert.Equal(t, omitted.Platform, spelled.Platform, pair[1])
	}
}

func TestParseArchive_Errors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr nvr.ErrorKind
	}{
		{"unknown package", "libfoo-1-abc.engine.el7.x86_64.tar", nvr.UnknownPackageName},
		{"malformed", "libcore-1.engine.el7.x86_64.tar", nvr.MalformedNVR},
		{"no project before platform", "libcore-1.2-abc123.el7.x86_64.tar", nvr.MissingChangeSetOrProject},
		{"variant walk reaches change-set", "libcore-1.2-on.asan.el7.x86_64.tar", nvr.MissingChangeSetOrProject},
		{"sources without project", "libcore-1.2-abc.src.tar", nvr.MissingChangeSetOrProject},
		{"unknown project", "libcore-1.2-abc.nope.el7.x86_64.tar", nvr.UnknownProjectName},
		{"variant token where project expected", "libcore-1.2-abc.on.el7.x86_64.tar", nvr.MissingChangeSetOrProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := nvr.ParseArchive(tt.id, dictionaries())
			requireKind(t, err, tt.wantErr)
		})
	}
}

func TestParseArchive_CustomSourcesMarker(t *testing.T) {
	dict := nvr.NewDictionaries(fixture.Reference(), "sources")

	a, err := nvr.ParseArchive("libcore-1-abc.engine.sources.tgz", dict)
	require.NoError(t, err)
	assert.True(t, a.Sources)
	assert.Equal(t, "sources", a.Platform)
	assert.Equal(t, "tgz", a.Suffix)

	// "src" is an ordinary platform token now.
	_, err = nvr.ParseArchive("libcore-1-abc.engine.src.tgz", dict)
	requireKind(t, err, nvr.MissingChangeSetOrProject)
}
