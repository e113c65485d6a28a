// Package filesystem provides filesystem implementations for weld.
//
// This package contains implementations of the types.FS interface:
// the standard OS filesystem and an afero-backed one used by tests
// with an in-memory filesystem.
package filesystem
