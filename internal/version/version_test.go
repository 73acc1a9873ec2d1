package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()

	require.NotEmpty(t, info.GoVersion)
	require.NotEmpty(t, info.CUESDKVersion)
	assert.Equal(t, Version, info.Version)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:       "v1.0.0",
		GitCommit:     "abc123",
		BuildDate:     "2026-01-29",
		GoVersion:     "go1.25",
		CUESDKVersion: "v0.15.4",
	}

	str := info.String()

	assert.Contains(t, str, "qstart v1.0.0")
	assert.Contains(t, str, "abc123")
	assert.Contains(t, str, "2026-01-29")
	assert.Contains(t, str, "go1.25")
	assert.Contains(t, str, "v0.15.4")
}

func TestCUESDKVersion(t *testing.T) {
	tests := []struct {
		name string
		read func() (*debug.BuildInfo, bool)
		want string
	}{
		{
			name: "no build info",
			read: func() (*debug.BuildInfo, bool) { return nil, false },
			want: fallbackCUEVersion,
		},
		{
			name: "dependency listed",
			read: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Deps: []*debug.Module{
					{Path: "github.com/spf13/cobra", Version: "v1.10.2"},
					{Path: cueModule, Version: "v0.15.4"},
				}}, true
			},
			want: "v0.15.4",
		},
		{
			name: "replaced dependency",
			read: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Deps: []*debug.Module{
					{Path: cueModule, Version: "v0.15.4", Replace: &debug.Module{Version: "v0.16.0"}},
				}}, true
			},
			want: "v0.16.0",
		},
		{
			name: "dependency missing",
			read: func() (*debug.BuildInfo, bool) { return &debug.BuildInfo{}, true },
			want: fallbackCUEVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cueSDKVersion(tt.read))
		})
	}
}
