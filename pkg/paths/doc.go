// Package paths locates weld's own files in the XDG base directories.
//
//   - Config: $XDG_CONFIG_HOME/nitrolaunch-weld/config.toml
//   - Log: $XDG_STATE_HOME/nitrolaunch-weld/weld.log
//
// WELD_CONFIG_DIR and WELD_STATE_DIR override the two directories. Instance
// paths (game directories, pack folders) come from the launcher and are not
// handled here.
package paths
