// Package config loads weld's settings.
//
// Layers are applied in order, later ones winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/nitrolaunch-weld/config.toml
//  3. an explicit --config file
//  4. WELD_* environment variables (WELD_MERGE_TAG_MERGE=false sets merge.tag_merge)
//  5. command line overrides
//
// The result is decoded into Config and validated.
package config
