package stager

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nitrolaunch/weld/pkg/errors"
	"github.com/Nitrolaunch/weld/pkg/logging"
	"github.com/Nitrolaunch/weld/pkg/types"
	"github.com/Nitrolaunch/weld/pkg/weld"
	"github.com/rs/zerolog"
)

const (
	// DefaultStagingDir is the staging subdirectory created in every target
	DefaultStagingDir = "unwelded"

	// DefaultArchiveName is the merged archive written by current plugin versions
	DefaultArchiveName = "Welded Packs.zip"

	// LegacyArchiveName is the merged archive written by the first plugin generation
	LegacyArchiveName = "weld_pack.zip"
)

// archiveMarkers identify merged archives produced by any plugin version
var archiveMarkers = []string{"Welded Packs", "weld_pack"}

// Engine runs a merge over a list of input packs
type Engine interface {
	Run(inputs []string, cfg weld.Config) (*weld.Context, error)
}

// Options controls how a directory is staged
type Options struct {
	// StagingDir is the name of the staging subdirectory
	StagingDir string
	// ArchiveName is the file the merged pack is saved to
	ArchiveName string
	// RestoreIgnored moves staged files that match an ignore pattern back out
	RestoreIgnored bool
	// DistinguishChannels saves the channel matching the stage mode instead
	// of always saving the data channel
	DistinguishChannels bool
}

// StageError reports a failure while staging one directory
type StageError struct {
	Dir string
	Err error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Dir, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Stager moves packs in and out of the staging directory and runs the merge
type Stager struct {
	fs     types.FS
	engine Engine
	opts   Options
	logger zerolog.Logger
}

// New creates a Stager
func New(fsys types.FS, engine Engine, opts Options) *Stager {
	if opts.StagingDir == "" {
		opts.StagingDir = DefaultStagingDir
	}
	if opts.ArchiveName == "" {
		opts.ArchiveName = DefaultArchiveName
	}
	return &Stager{
		fs:     fsys,
		engine: engine,
		opts:   opts,
		logger: logging.GetLogger("stager"),
	}
}

// Options returns the effective options
func (s *Stager) Options() Options {
	return s.opts
}

// Stage stages targetDir and writes the merged archive for mode into it
func (s *Stager) Stage(targetDir string, ignore []string, mode weld.Channel) error {
	if err := s.stage(targetDir, ignore, mode); err != nil {
		return &StageError{Dir: targetDir, Err: err}
	}
	return nil
}

func (s *Stager) stage(targetDir string, ignore []string, mode weld.Channel) error {
	done := logging.LogOperationStart(s.logger, "stage")
	defer done()

	// The staging directory is created inside an existing pack directory only
	if info, err := s.fs.Stat(targetDir); err != nil || !info.IsDir() {
		if err == nil {
			err = fs.ErrInvalid
		}
		return errors.Wrapf(err, errors.ErrFSMkdir, "pack directory %s is missing", targetDir).
			WithDetail("path", targetDir)
	}

	stagingDir := filepath.Join(targetDir, s.opts.StagingDir)
	if err := s.fs.Mkdir(stagingDir, 0755); err != nil && !os.IsExist(err) {
		return errors.Wrapf(err, errors.ErrFSMkdir, "failed to create %s", stagingDir).
			WithDetail("path", stagingDir)
	}

	entries, err := s.fs.ReadDir(targetDir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFSRead, "failed to list %s", targetDir)
	}

	for _, entry := range entries {
		if !s.isFile(targetDir, entry) {
			continue
		}
		name := entry.Name()
		if s.exempt(name, ignore) {
			s.logger.Debug().Str("file", name).Msg("Leaving file in place")
			continue
		}
		if err := s.move(filepath.Join(targetDir, name), filepath.Join(stagingDir, name)); err != nil {
			return err
		}
		s.logger.Debug().Str("file", name).Msg("Staged pack")
	}

	if s.opts.RestoreIgnored {
		if err := s.restore(stagingDir, targetDir, ignore); err != nil {
			return err
		}
	}

	inputs, err := s.staged(stagingDir)
	if err != nil {
		return err
	}

	return s.merge(targetDir, inputs, mode)
}

// restore moves ignored files out of the staging directory
func (s *Stager) restore(stagingDir, targetDir string, ignore []string) error {
	entries, err := s.fs.ReadDir(stagingDir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFSRead, "failed to list %s", stagingDir)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !Matches(name, ignore) {
			continue
		}
		if err := s.move(filepath.Join(stagingDir, name), filepath.Join(targetDir, name)); err != nil {
			return err
		}
		s.logger.Info().Str("file", name).Msg("Restored ignored pack")
	}
	return nil
}

// merge runs the engine over the staged packs and saves the selected channel
func (s *Stager) merge(targetDir string, inputs []string, mode weld.Channel) (err error) {
	ctx, err := s.engine.Run(inputs, weld.Config{Output: targetDir, Directory: targetDir})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ctx.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrMergeSave, "failed to release merged packs")
		}
	}()

	channel := weld.ChannelData
	if s.opts.DistinguishChannels {
		channel = mode
	}

	s.logger.Info().
		Str("dir", targetDir).
		Str("channel", string(channel)).
		Int("inputs", len(inputs)).
		Msg("Welding packs")

	return ctx.Pack(channel).Save(s.opts.ArchiveName, true)
}

// staged returns the staged files relative to the target directory, sorted
func (s *Stager) staged(stagingDir string) ([]string, error) {
	entries, err := s.fs.ReadDir(stagingDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFSRead, "failed to list %s", stagingDir)
	}

	inputs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		inputs = append(inputs, filepath.Join(s.opts.StagingDir, entry.Name()))
	}
	sort.Strings(inputs)
	return inputs, nil
}

// move renames src to dst, deleting an existing dst first
func (s *Stager) move(src, dst string) error {
	if _, err := s.fs.Stat(dst); err == nil {
		if err := s.fs.Remove(dst); err != nil {
			return errors.Wrapf(err, errors.ErrFSRemove, "failed to remove %s", dst).
				WithDetail("path", dst)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFSRead, "failed to check %s", dst)
	}

	if err := s.fs.Rename(src, dst); err != nil {
		return errors.Wrapf(err, errors.ErrFSMove, "failed to move %s", filepath.Base(src)).
			WithDetail("from", src).
			WithDetail("to", dst)
	}
	return nil
}

// isFile reports whether entry is a regular file, following symlinks
func (s *Stager) isFile(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := s.fs.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

// exempt reports whether a file stays in the target directory
func (s *Stager) exempt(name string, ignore []string) bool {
	return s.IsArchive(name) || Matches(name, ignore)
}

// IsArchive reports whether name is a merged archive from any plugin version
func (s *Stager) IsArchive(name string) bool {
	if name == s.opts.ArchiveName {
		return true
	}
	for _, marker := range archiveMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// Matches reports whether name contains any of the patterns. Empty patterns
// never match.
func Matches(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(name, pattern) {
			return true
		}
	}
	return false
}
