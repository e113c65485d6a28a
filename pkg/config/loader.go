package config

import (
	"os"
	"strings"

	"github.com/Nitrolaunch/weld/pkg/errors"
	"github.com/Nitrolaunch/weld/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides
const EnvPrefix = "WELD_"

// LoadOptions selects the layers applied on top of the defaults
type LoadOptions struct {
	// UserFile is the per-user config file. Skipped when it does not exist.
	UserFile string
	// File is an explicit config file. It must exist.
	File string
	// Overrides are dotted keys set from the command line
	Overrides map[string]interface{}
}

// Load builds the effective configuration
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}
	known := envKeys(k.Keys())

	// 2. User config if it exists
	if opts.UserFile != "" {
		if _, err := os.Stat(opts.UserFile); err == nil {
			if err := k.Load(file.Provider(opts.UserFile), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load user config from %s", opts.UserFile)
			}
			logger.Debug().Str("path", opts.UserFile).Msg("Loaded user config")
		}
	}

	// 3. Explicit config
	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", opts.File).
				WithDetail("path", opts.File)
		}
		logger.Debug().Str("path", opts.File).Msg("Loaded config file")
	}

	// 4. Env vars
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return known[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Command line
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 6. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKeys maps the env form of every known key (merge_tag_merge) to the key
// itself (merge.tag_merge). Unknown variables map to "" and are dropped.
func envKeys(keys []string) map[string]string {
	known := make(map[string]string, len(keys))
	for _, key := range keys {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}
	return known
}
