// Package stager reorganizes one pack directory before a weld.
//
// Every pack file in the directory is moved into a staging subdirectory
// (unwelded by default) unless its name marks it as a merged archive or
// contains one of the instance's ignore patterns. The staged files are then
// merged and the result is written back into the directory under a fixed
// archive name. The staging directory is left in place between runs so the
// original packs survive partial instance updates.
package stager
