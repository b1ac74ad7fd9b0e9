// Package version exposes the build metadata stamped into the res2csv
// binary. Release builds overwrite version, gitCommit, and buildDate
// through -ldflags; source builds report the dev placeholders.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// Overwritten at link time via -ldflags.
var (
	version   = "dev"
	gitCommit = "none"
	buildDate = "unknown"
)

// commitDisplayLen is how many SHA characters the reports show.
const commitDisplayLen = 7

// Info is the build metadata in reportable form.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo assembles the Info for the running binary.
func GetInfo() Info {
	return Info{
		Version:   version,
		GitCommit: shortCommit(gitCommit),
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the single-line human form.
func (i Info) String() string {
	return fmt.Sprintf("res2csv %s (commit: %s, built: %s) %s %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}

// JSON renders the metadata as indented JSON.
func (i Info) JSON() (string, error) {
	out, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding version info: %w", err)
	}

	return string(out), nil
}

// shortCommit trims a full SHA down to the display length.
func shortCommit(sha string) string {
	if len(sha) <= commitDisplayLen {
		return sha
	}

	return sha[:commitDisplayLen]
}
