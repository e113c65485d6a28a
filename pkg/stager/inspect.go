package stager

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/Nitrolaunch/weld/pkg/errors"
)

// FileState describes where a pack file sits relative to the staging directory
type FileState string

const (
	// StatePending files would be staged by the next run
	StatePending FileState = "pending"
	// StateIgnored files match an ignore pattern and stay in place
	StateIgnored FileState = "ignored"
	// StateStaged files are inputs to the merge
	StateStaged FileState = "staged"
	// StateRestorable files are staged but match an ignore pattern
	StateRestorable FileState = "restorable"
	// StateArchive is a merged archive
	StateArchive FileState = "archive"
)

// File is one entry of a Report
type File struct {
	Name  string
	State FileState
}

// Report is a read-only view of a target directory
type Report struct {
	Dir        string
	Exists     bool
	HasStaging bool
	Files      []File
}

// Count returns the number of files in the given state
func (r Report) Count(state FileState) int {
	n := 0
	for _, f := range r.Files {
		if f.State == state {
			n++
		}
	}
	return n
}

// Inspect reports what staging targetDir would do without touching it
func (s *Stager) Inspect(targetDir string, ignore []string) (Report, error) {
	report := Report{Dir: targetDir}

	entries, err := s.fs.ReadDir(targetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return report, nil
		}
		return report, errors.Wrapf(err, errors.ErrFSRead, "failed to list %s", targetDir)
	}
	report.Exists = true

	for _, entry := range entries {
		if !s.isFile(targetDir, entry) {
			if entry.IsDir() && entry.Name() == s.opts.StagingDir {
				report.HasStaging = true
			}
			continue
		}
		name := entry.Name()
		switch {
		case s.IsArchive(name):
			report.Files = append(report.Files, File{Name: name, State: StateArchive})
		case Matches(name, ignore):
			report.Files = append(report.Files, File{Name: name, State: StateIgnored})
		default:
			report.Files = append(report.Files, File{Name: name, State: StatePending})
		}
	}

	if report.HasStaging {
		stagingDir := filepath.Join(targetDir, s.opts.StagingDir)
		staged, err := s.fs.ReadDir(stagingDir)
		if err != nil {
			return report, errors.Wrapf(err, errors.ErrFSRead, "failed to list %s", stagingDir)
		}
		for _, entry := range staged {
			if entry.IsDir() {
				continue
			}
			state := StateStaged
			if s.opts.RestoreIgnored && Matches(entry.Name(), ignore) {
				state = StateRestorable
			}
			report.Files = append(report.Files, File{Name: entry.Name(), State: state})
		}
	}

	sort.SliceStable(report.Files, func(i, j int) bool {
		return report.Files[i].Name < report.Files[j].Name
	})
	return report, nil
}
