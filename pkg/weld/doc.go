// Package weld merges Minecraft datapacks and resourcepacks into a single archive.
//
// An Engine loads a list of input packs (zip/jar archives or directories) into a
// Context. The Context splits every input into two channels: Data, holding the
// files under data/, and Assets, holding the files under assets/. Each channel
// is a Pack that can be saved as one merged zip archive.
//
// # Merge rules
//
// Inputs are applied in the order given; a later file replaces an earlier one
// at the same path, except:
//
//   - tag files (data/<namespace>/tags/**/*.json) have their "values" unioned,
//     keeping first-seen order; a file with "replace": true discards what came before
//   - language files (assets/<namespace>/lang/*.json) are merged key by key
//   - pack.mcmeta is synthesized with the highest pack_format seen
//   - pack.png is taken from the first input that has one
//
// A Context holds open archive handles until Close is called. Callers must
// Close it on every path, including after a failed Save.
package weld
