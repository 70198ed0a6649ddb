// Package buildinfo exposes values injected at link time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/userfeedback/internal/buildinfo.Version=v1.0.0"
package buildinfo

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// Fields returns the build info as logger key/value pairs.
func Fields() []any {
	return []any{"version", Version, "build_date", Date, "commit", Commit}
}
