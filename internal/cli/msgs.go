package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort      = "Merge Minecraft datapacks and resourcepacks for Nitrolaunch"
	MsgVersionShort   = "Print version information"
	MsgVersionLong    = "Print detailed version information including commit hash and build date"
	MsgStatusShort    = "Show which packs would be welded"
	MsgGenconfigShort = "Print the effective configuration as TOML"

	// Version output
	MsgVersionFormat = "weld version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Status messages
	MsgConfigWritten = "Wrote configuration to %s\n"

	// Error messages
	MsgErrLoadConfig  = "failed to load configuration: %w"
	MsgErrConfigFound = "%s already exists, use --force to overwrite"
	MsgErrWriteConfig = "failed to write configuration: %w"

	// Flag descriptions
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig         = "Load configuration from this TOML file"
	MsgFlagPolicy         = "Behavior preset (nitro, legacy)"
	MsgFlagBase64         = "Encode protocol lines as base64"
	MsgFlagSide           = "Instance side (client, server)"
	MsgFlagDatapackFolder = "Datapack folder relative to the game directory"
	MsgFlagIgnore         = "Ignore packs whose name contains this text (repeatable)"
	MsgFlagFormat         = "Output format (auto, term, text, json)"
	MsgFlagCommented      = "Comment out every value"
	MsgFlagWrite          = "Write to the user config file instead of stdout"
	MsgFlagForce          = "Overwrite an existing user config file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenconfigLongRaw string
	MsgGenconfigLong    = strings.TrimSpace(msgGenconfigLongRaw)
)
