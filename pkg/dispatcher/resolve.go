package dispatcher

import (
	"os"
	"path/filepath"

	"github.com/Nitrolaunch/weld/pkg/errors"
	"github.com/Nitrolaunch/weld/pkg/hooks"
	"github.com/Nitrolaunch/weld/pkg/logging"
	"github.com/Nitrolaunch/weld/pkg/types"
	"github.com/Nitrolaunch/weld/pkg/weld"
)

// Kind is the kind of packs a target holds
type Kind string

const (
	KindDatapacks     Kind = "datapacks"
	KindResourcepacks Kind = "resourcepacks"
)

// Target is a directory to stage
type Target struct {
	Dir  string
	Kind Kind
}

// Mode returns the merge channel the target is saved with
func (t Target) Mode() weld.Channel {
	if t.Kind == KindResourcepacks {
		return weld.ChannelResource
	}
	return weld.ChannelData
}

// Resolve computes the pack directories of an instance. Datapack targets come
// first, followed by the resourcepack directory.
func Resolve(fsys types.FS, policy Policy, arg *hooks.Argument) ([]Target, error) {
	if !arg.HasGameDir() {
		return nil, errors.New(errors.ErrInvalidArgument, "hook argument has no game_dir").
			WithDetail("field", "game_dir")
	}
	gameDir := *arg.GameDir

	var targets []Target
	switch {
	case arg.Config != nil && arg.Config.DatapackFolder != nil:
		dir := *arg.Config.DatapackFolder
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(gameDir, dir)
		}
		targets = append(targets, Target{Dir: dir, Kind: KindDatapacks})

	case arg.Side == hooks.SideClient:
		saves, err := saveDatapacks(fsys, policy, filepath.Join(gameDir, "saves"))
		if err != nil {
			return nil, err
		}
		for _, dir := range saves {
			targets = append(targets, Target{Dir: dir, Kind: KindDatapacks})
		}

	default:
		targets = append(targets, Target{Dir: filepath.Join(gameDir, "world", "datapacks"), Kind: KindDatapacks})
	}

	targets = append(targets, Target{Dir: filepath.Join(gameDir, "resourcepacks"), Kind: KindResourcepacks})

	return targets, nil
}

func saveDatapacks(fsys types.FS, policy Policy, savesDir string) ([]string, error) {
	entries, err := fsys.ReadDir(savesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFSRead, "failed to list %s", savesDir)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(savesDir, entry.Name(), "datapacks")
		if policy.RequireExistingSaveDatapacks && !isDir(fsys, dir) {
			logger := logging.GetLogger("dispatcher.resolve")
			logger.Debug().
				Str("save", entry.Name()).
				Msg("Save has no datapacks directory")
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

func isDir(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
