// Package version exposes build information injected at link time:
//
//	-X 'github.com/compozy/pipebase/pkg/version.Version=v0.3.0'
//	-X 'github.com/compozy/pipebase/pkg/version.CommitHash=abc123'
//	-X 'github.com/compozy/pipebase/pkg/version.BuildDate=2026-01-01T00:00:00Z'
package version

import "fmt"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Info is the build information of the binary.
type Info struct {
	Version    string `json:"version"     yaml:"version"`
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
	BuildDate  string `json:"build_date"  yaml:"build_date"`
}

func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildDate)
}
