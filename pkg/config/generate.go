package config

import (
	"strings"

	"github.com/Nitrolaunch/weld/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// Generate renders cfg as a TOML config file
func Generate(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return data, nil
}

// GenerateCommented renders cfg with every value commented out, so the file
// documents the settings without pinning them
func GenerateCommented(cfg *Config) ([]byte, error) {
	data, err := Generate(cfg)
	if err != nil {
		return nil, err
	}
	return []byte(commentOutConfigValues(string(data))), nil
}

// commentOutConfigValues comments out every assignment line, keeping blank
// lines, comments and section headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
