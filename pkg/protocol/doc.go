// Package protocol writes the line-based plugin protocol read by the launcher.
//
// Every protocol line starts with a sentinel (default "%_") followed by JSON:
//
//	%_"start_process"
//	%_{"message":{"contents":{"StartProcess":"Welding packs"},"level":"important"}}
//	%_{"set_result":null}
//
// A bare JSON string carries a kind without payload; a single-key object maps
// the kind to its payload. When base64 transfer is enabled the JSON text after
// the sentinel is base64-encoded. Lines starting with "$_" are plain text the
// launcher prints as-is; every other line is ignored by the host parser.
package protocol
