package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/Nitrolaunch/weld/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/Nitrolaunch/weld/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/Nitrolaunch/weld/internal/version.Date={{.Date}}
)

