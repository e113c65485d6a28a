package config

import (
	"strings"

	"github.com/Nitrolaunch/weld/pkg/errors"
)

// Compression values accepted by merge.compression
var compressions = []string{"deflate", "store"}

// Config is the effective weld configuration
type Config struct {
	Policy      string   `koanf:"policy" toml:"policy"`
	ArchiveName string   `koanf:"archive_name" toml:"archive_name"`
	StagingDir  string   `koanf:"staging_dir" toml:"staging_dir"`
	Protocol    Protocol `koanf:"protocol" toml:"protocol"`
	Merge       Merge    `koanf:"merge" toml:"merge"`
	Log         Log      `koanf:"log" toml:"log"`
}

// Protocol configures the launcher output
type Protocol struct {
	Base64   bool   `koanf:"base64" toml:"base64"`
	Sentinel string `koanf:"sentinel" toml:"sentinel"`
}

// Merge configures the merge engine
type Merge struct {
	Compression string `koanf:"compression" toml:"compression"`
	TagMerge    bool   `koanf:"tag_merge" toml:"tag_merge"`
	LangMerge   bool   `koanf:"lang_merge" toml:"lang_merge"`
	Description string `koanf:"description" toml:"description"`
}

// Log configures log output
type Log struct {
	File bool `koanf:"file" toml:"file"`
}

// Validate checks values that the decoder cannot
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Protocol.Sentinel) == "" {
		return invalid("protocol.sentinel", c.Protocol.Sentinel, "must not be empty")
	}
	if !contains(compressions, c.Merge.Compression) {
		return invalid("merge.compression", c.Merge.Compression, "must be one of "+strings.Join(compressions, ", "))
	}
	if c.StagingDir == "" || isPath(c.StagingDir) {
		return invalid("staging_dir", c.StagingDir, "must be a plain directory name")
	}
	if isPath(c.ArchiveName) {
		return invalid("archive_name", c.ArchiveName, "must be a plain file name")
	}
	return nil
}

func invalid(key, value, reason string) error {
	return errors.Newf(errors.ErrConfigValid, "invalid %s %q: %s", key, value, reason).
		WithDetail("key", key)
}

func isPath(name string) bool {
	return strings.ContainsAny(name, `/\`) || name == "." || name == ".."
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
