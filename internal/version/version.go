package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/yamlmerge/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/yamlmerge/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/yamlmerge/internal/version.Date={{.Date}}
)

// String is the one-line version banner.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
