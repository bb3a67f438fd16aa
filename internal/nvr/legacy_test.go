package nvr_test

import (
	"testing"

	"distbuild/internal/nvr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNVR(t *testing.T) {
	got, err := nvr.ParseNVR("java-beta-1-1.rel.proj.suffix")
	require.NoError(t, err)
	assert.Equal(t, nvr.NVR{Name: "java-beta", Version: "1", Release: "1.rel.proj.suffix"}, got)
	assert.Equal(t, "java-beta-1-1.rel.proj.suffix", got.String())

	for _, id := range []string{"libcore", "libcore-1", "-1-2", "libcore-1-"} {
		_, err := nvr.ParseNVR(id)
		requireKind(t, err, nvr.MalformedNVR)
	}
}

func TestParseNVRA(t *testing.T) {
	got, err := nvr.ParseNVRA("libcore-1.2-3.el7.x86_64")
	require.NoError(t, err)
	assert.Equal(t, nvr.NVRA{
		NVR: nvr.NVR{Name: "libcore", Version: "1.2", Release: "3"},
		OS:  "el7", Arch: "x86_64",
	}, got)
	assert.Equal(t, "libcore-1.2-3.el7.x86_64", got.String())

	_, err = nvr.ParseNVRA("libcore-1-2.x86_64")
	requireKind(t, err, nvr.MalformedNVR)
}

func TestParseNVRASuffix(t *testing.T) {
	got, err := nvr.ParseNVRASuffix("libcore-1.2-3.el7.x86_64.rpm")
	require.NoError(t, err)
	assert.Equal(t, "rpm", got.Suffix)
	assert.Equal(t, "el7", got.OS)
	assert.Equal(t, "3", got.Release)
	assert.Equal(t, "libcore-1.2-3.el7.x86_64.rpm", got.String())

	_, err = nvr.ParseNVRASuffix("libcore-1.2-3.x86_64.rpm")
	requireKind(t, err, nvr.MalformedNVR)
}

func TestParse_Dispatch(t *testing.T) {
	dict := dictionaries()
	id := "libcore-1.2-abc123.engine.el7.x86_64.tar"

	tests := []struct {
		format  string
		wantErr bool
		fields  int
	}{
		{format: "build", wantErr: true},
		{format: "archive", fields: 10},
		{format: "nvr", fields: 3},
		{format: "nvra", fields: 5},
		{format: "nvra-suffix", fields: 6},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			format, err := nvr.ParseFormat(tt.format)
			require.NoError(t, err)

			r, err := nvr.Parse(format, id, dict)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, r.String())
			assert.Len(t, r.Fields(), tt.fields)
		})
	}

	_, err := nvr.ParseFormat("rpm")
	assert.Error(t, err)
}
