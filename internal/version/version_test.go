package version

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo_DevDefaults(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "none", info.GitCommit)
	assert.Equal(t, "unknown", info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfo_String(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		GitCommit: "abc1234",
		BuildDate: "2026-01-01",
		GoVersion: "go1.25",
		Platform:  "linux/amd64",
	}

	s := info.String()

	assert.Contains(t, s, "res2csv 1.2.3")
	assert.Contains(t, s, "commit: abc1234")
	assert.Contains(t, s, "built: 2026-01-01")
	assert.Contains(t, s, "go1.25")
	assert.Contains(t, s, "linux/amd64")
}

func TestInfo_JSONRoundTrip(t *testing.T) {
	info := GetInfo()

	jsonStr, err := info.JSON()
	require.NoError(t, err)

	var parsed Info
	require.NoError(t, json.Unmarshal([]byte(jsonStr), &parsed))
	assert.Equal(t, info, parsed)
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		name string
		sha  string
		want string
	}{
		{name: "full sha is truncated", sha: "0123456789abcdef0123", want: "0123456"},
		{name: "seven chars pass through", sha: "0123456", want: "0123456"},
		{name: "shorter passes through", sha: "012", want: "012"},
		{name: "dev placeholder passes through", sha: "none", want: "none"},
		{name: "empty stays empty", sha: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortCommit(tt.sha))
		})
	}
}
