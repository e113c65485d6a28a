// Package testutil provides utilities for testing weld components.
//
// Key components:
//   - NewTestFS: in-memory filesystem for fast, isolated tests
//   - TestGame: declarative builder for an instance game directory
//     (saves, world datapacks, resourcepacks)
//   - WritePackZip / ReadZip: build and inspect pack archives
//
// Usage guidelines:
//   - Prefer the in-memory filesystem; use t.TempDir with filesystem.NewOS
//     only for end-to-end tests of the CLI
//   - All test data should be defined inline, not in external files
package testutil
