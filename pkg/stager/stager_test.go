// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem, merge engine
// PURPOSE: Test staging, restoring ignored packs and writing the merged archive

package stager_test

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nitrolaunch/weld/pkg/errors"
	"github.com/Nitrolaunch/weld/pkg/filesystem"
	"github.com/Nitrolaunch/weld/pkg/stager"
	"github.com/Nitrolaunch/weld/pkg/testutil"
	"github.com/Nitrolaunch/weld/pkg/types"
	"github.com/Nitrolaunch/weld/pkg/weld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nitroOptions() stager.Options {
	return stager.Options{
		ArchiveName:         stager.DefaultArchiveName,
		RestoreIgnored:      true,
		DistinguishChannels: true,
	}
}

func setup(t *testing.T, opts stager.Options) (*stager.Stager, *testutil.TestGame) {
	t.Helper()
	fsys := testutil.NewTestFS()
	game := testutil.NewTestGame(t, fsys, "/game")
	return stager.New(fsys, weld.NewEngine(fsys, weld.DefaultOptions()), opts), game
}

func TestStage_IgnoredResourcepackStaysInPlace(t *testing.T) {
	s, game := setup(t, nitroOptions())
	game.AddResourcepack(t, "resourcepacks", "a.zip", "alpha")
	game.AddResourcepack(t, "resourcepacks", "b.zip", "beta")
	dir := game.Path("resourcepacks")

	require.NoError(t, s.Stage(dir, []string{"b"}, weld.ChannelResource))

	assert.Equal(t, []string{"Welded Packs.zip", "b.zip", "unwelded"}, testutil.Names(t, game.FS, dir))
	assert.Equal(t, []string{"a.zip"}, testutil.Names(t, game.FS, game.Path("resourcepacks", "unwelded")))

	files := testutil.ReadZip(t, game.FS, game.Path("resourcepacks", "Welded Packs.zip"))
	assert.Contains(t, files, "assets/alpha/textures/item/icon.png")
	assert.NotContains(t, files, "assets/beta/textures/item/icon.png")
}

func TestStage_EveryPatternIsChecked(t *testing.T) {
	s, game := setup(t, nitroOptions())
	dir := game.Mkdir(t, "datapacks")
	game.AddDatapack(t, "datapacks", "first.zip", "first")
	game.AddDatapack(t, "datapacks", "second.zip", "second")
	game.AddDatapack(t, "datapacks", "third.zip", "third")

	require.NoError(t, s.Stage(dir, []string{"first", "second"}, weld.ChannelData))

	assert.Equal(t, []string{"third.zip"}, testutil.Names(t, game.FS, game.Path("datapacks", "unwelded")))
	assert.True(t, testutil.Exists(game.FS, game.Path("datapacks", "first.zip")))
	assert.True(t, testutil.Exists(game.FS, game.Path("datapacks", "second.zip")))
}

func TestStage_IsIdempotent(t *testing.T) {
	s, game := setup(t, nitroOptions())
	dir := game.Mkdir(t, "datapacks")
	game.AddDatapack(t, "datapacks", "a.zip", "alpha")
	game.AddDatapack(t, "datapacks", "b.zip", "beta")

	require.NoError(t, s.Stage(dir, nil, weld.ChannelData))
	first := testutil.Names(t, game.FS, game.Path("datapacks", "unwelded"))
	firstArchive := testutil.ReadZip(t, game.FS, game.Path("datapacks", "Welded Packs.zip"))

	require.NoError(t, s.Stage(dir, nil, weld.ChannelData))

	assert.Equal(t, first, testutil.Names(t, game.FS, game.Path("datapacks", "unwelded")))
	assert.Equal(t, []string{"Welded Packs.zip", "unwelded"}, testutil.Names(t, game.FS, dir))
	assert.Equal(t, firstArchive, testutil.ReadZip(t, game.FS, game.Path("datapacks", "Welded Packs.zip")))
}

func TestStage_RestoresNewlyIgnoredPacks(t *testing.T) {
	s, game := setup(t, nitroOptions())
	dir := game.Mkdir(t, "datapacks")
	game.AddDatapack(t, "datapacks", "a.zip", "alpha")
	game.AddDatapack(t, "datapacks", "b.zip", "beta")

	require.NoError(t, s.Stage(dir, nil, weld.ChannelData))
	require.NoError(t, s.Stage(dir, []string{"b"}, weld.ChannelData))

	assert.Equal(t, []string{"a.zip"}, testutil.Names(t, game.FS, game.Path("datapacks", "unwelded")))
	assert.True(t, testutil.Exists(game.FS, game.Path("datapacks", "b.zip")))

	files := testutil.ReadZip(t, game.FS, game.Path("datapacks", "Welded Packs.zip"))
	assert.NotContains(t, files, "data/beta/function/main.mcfunction")
}

func TestStage_WithoutRestoreLeavesStagedPacks(t *testing.T) {
	s, game := setup(t, stager.Options{ArchiveName: stager.LegacyArchiveName})
	dir := game.Mkdir(t, "datapacks")
	game.AddDatapack(t, "datapacks", "a.zip", "alpha")
	game.AddDatapack(t, "datapacks", "b.zip", "beta")

	require.NoError(t, s.Stage(dir, nil, weld.ChannelData))
	require.NoError(t, s.Stage(dir, []string{"b"}, weld.ChannelData))

	assert.Equal(t, []string{"a.zip", "b.zip"}, testutil.Names(t, game.FS, game.Path("datapacks", "unwelded")))
	assert.True(t, testutil.Exists(game.FS, game.Path("datapacks", stager.LegacyArchiveName)))
}

func TestStage_ReplacesSameNamedStagedFile(t *testing.T) {
	s, game := setup(t, nitroOptions())
	dir := game.Mkdir(t, "datapacks")
	game.AddDatapack(t, "datapacks/unwelded", "a.zip", "old")
	game.AddDatapack(t, "datapacks", "a.zip", "new")

	require.NoError(t, s.Stage(dir, nil, weld.ChannelData))

	assert.Equal(t, []string{"a.zip"}, testutil.Names(t, game.FS, game.Path("datapacks", "unwelded")))
	files := testutil.ReadZip(t, game.FS, game.Path("datapacks", "Welded Packs.zip"))
	assert.Contains(t, files, "data/new/function/main.mcfunction")
	assert.NotContains(t, files, "data/old/function/main.mcfunction")
}

func TestStage_NeverStagesMergedArchives(t *testing.T) {
	s, game := setup(t, nitroOptions())
	dir := game.Mkdir(t, "datapacks")
	game.AddDatapack(t, "datapacks", "a.zip", "alpha")
	game.AddDatapack(t, "datapacks", stager.LegacyArchiveName, "legacy")

	require.NoError(t, s.Stage(dir, nil, weld.ChannelData))

	assert.Equal(t, []string{"a.zip"}, testutil.Names(t, game.FS, game.Path("datapacks", "unwelded")))
	assert.True(t, testutil.Exists(game.FS, game.Path("datapacks", stager.LegacyArchiveName)))
}

func TestStage_LeavesDirectoriesAlone(t *testing.T) {
	s, game := setup(t, nitroOptions())
	dir := game.Mkdir(t, "datapacks")
	game.AddFile(t, "datapacks/folder/pack.mcmeta", testutil.PackMeta(48, "folder"))

	require.NoError(t, s.Stage(dir, nil, weld.ChannelData))

	assert.Equal(t, []string{"Welded Packs.zip", "folder", "unwelded"}, testutil.Names(t, game.FS, dir))
	assert.Empty(t, testutil.Names(t, game.FS, game.Path("datapacks", "unwelded")))
}

func TestStage_FollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	fsys := filesystem.NewOS()
	game := testutil.NewTestGame(t, fsys, filepath.Join(root, "game"))
	dir := game.Mkdir(t, "datapacks")

	shared := filepath.Join(root, "shared")
	require.NoError(t, os.MkdirAll(filepath.Join(shared, "folder"), 0755))
	testutil.WritePackZip(t, fsys, filepath.Join(shared, "linked.zip"), map[string]string{
		"pack.mcmeta":                          testutil.PackMeta(48, "linked"),
		"data/linked/function/main.mcfunction": "say linked",
	})
	require.NoError(t, os.Symlink(filepath.Join(shared, "linked.zip"), filepath.Join(dir, "linked.zip")))
	require.NoError(t, os.Symlink(filepath.Join(shared, "folder"), filepath.Join(dir, "folder")))

	s := stager.New(fsys, weld.NewEngine(fsys, weld.DefaultOptions()), nitroOptions())
	require.NoError(t, s.Stage(dir, nil, weld.ChannelData))

	assert.Equal(t, []string{"linked.zip"}, testutil.Names(t, fsys, filepath.Join(dir, "unwelded")))
	assert.Equal(t, []string{"Welded Packs.zip", "folder", "unwelded"}, testutil.Names(t, fsys, dir))
	assert.Contains(t, testutil.ReadZip(t, fsys, filepath.Join(dir, "Welded Packs.zip")),
		"data/linked/function/main.mcfunction")
}

func TestStage_ChannelSelection(t *testing.T) {
	tests := []struct {
		name        string
		distinguish bool
		mode        weld.Channel
		want        string
		missing     string
	}{
		{"resource mode saves assets", true, weld.ChannelResource, "assets/mixed/lang/en_us.json", "data/mixed/function/main.mcfunction"},
		{"data mode saves data", true, weld.ChannelData, "data/mixed/function/main.mcfunction", "assets/mixed/lang/en_us.json"},
		{"undistinguished always saves data", false, weld.ChannelResource, "data/mixed/function/main.mcfunction", "assets/mixed/lang/en_us.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := nitroOptions()
			opts.DistinguishChannels = tt.distinguish
			s, game := setup(t, opts)
			dir := game.Mkdir(t, "packs")
			testutil.WritePackZip(t, game.FS, game.Path("packs", "mixed.zip"), map[string]string{
				"pack.mcmeta":                         testutil.PackMeta(48, "mixed"),
				"data/mixed/function/main.mcfunction": "say mixed",
				"assets/mixed/lang/en_us.json":        `{"a":"b"}`,
			})

			require.NoError(t, s.Stage(dir, nil, tt.mode))

			files := testutil.ReadZip(t, game.FS, game.Path("packs", stager.DefaultArchiveName))
			assert.Contains(t, files, tt.want)
			assert.NotContains(t, files, tt.missing)
		})
	}
}

type noRenameFS struct {
	types.FS
}

func (noRenameFS) Rename(string, string) error {
	return fs.ErrPermission
}

type failingEngine struct{}

func (failingEngine) Run([]string, weld.Config) (*weld.Context, error) {
	return nil, errors.New(errors.ErrMergeLoad, "broken pack")
}

func TestStage_Errors(t *testing.T) {
	t.Run("move failure", func(t *testing.T) {
		fsys := testutil.NewTestFS()
		game := testutil.NewTestGame(t, fsys, "/game")
		dir := game.Mkdir(t, "datapacks")
		game.AddDatapack(t, "datapacks", "a.zip", "alpha")

		s := stager.New(noRenameFS{fsys}, weld.NewEngine(fsys, weld.DefaultOptions()), nitroOptions())
		err := s.Stage(dir, nil, weld.ChannelData)
		require.Error(t, err)

		var stageErr *stager.StageError
		require.True(t, stderrors.As(err, &stageErr))
		assert.Equal(t, dir, stageErr.Dir)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFSMove))
		assert.True(t, errors.IsFilesystemError(err))
	})

	t.Run("missing pack directory", func(t *testing.T) {
		s, game := setup(t, nitroOptions())
		dir := game.Path("mypacks")

		err := s.Stage(dir, nil, weld.ChannelData)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFSMkdir))
		assert.Contains(t, err.Error(), "mypacks")
		assert.False(t, testutil.Exists(game.FS, dir))
	})

	t.Run("merge failure", func(t *testing.T) {
		fsys := testutil.NewTestFS()
		game := testutil.NewTestGame(t, fsys, "/game")
		dir := game.Mkdir(t, "datapacks")
		game.AddDatapack(t, "datapacks", "a.zip", "alpha")

		s := stager.New(fsys, failingEngine{}, nitroOptions())
		err := s.Stage(dir, nil, weld.ChannelData)
		require.Error(t, err)
		assert.True(t, errors.IsMergeError(err))
		assert.Contains(t, err.Error(), "broken pack")
		assert.False(t, testutil.Exists(fsys, game.Path("datapacks", stager.DefaultArchiveName)))
	})
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		patterns []string
		want     bool
	}{
		{"no patterns", "a.zip", nil, false},
		{"substring", "betterleaves.zip", []string{"leaves"}, true},
		{"second pattern", "b.zip", []string{"x", "b"}, true},
		{"empty pattern", "a.zip", []string{""}, false},
		{"case sensitive", "Faithful.zip", []string{"faithful"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stager.Matches(tt.file, tt.patterns))
		})
	}
}

func TestInspect(t *testing.T) {
	s, game := setup(t, nitroOptions())
	dir := game.Mkdir(t, "resourcepacks")
	game.AddResourcepack(t, "resourcepacks", "a.zip", "alpha")
	game.AddResourcepack(t, "resourcepacks", "b.zip", "beta")
	require.NoError(t, s.Stage(dir, nil, weld.ChannelResource))
	game.AddResourcepack(t, "resourcepacks", "c.zip", "gamma")

	report, err := s.Inspect(dir, []string{"b"})
	require.NoError(t, err)

	assert.True(t, report.Exists)
	assert.True(t, report.HasStaging)
	assert.Equal(t, []stager.File{
		{Name: "Welded Packs.zip", State: stager.StateArchive},
		{Name: "a.zip", State: stager.StateStaged},
		{Name: "b.zip", State: stager.StateRestorable},
		{Name: "c.zip", State: stager.StatePending},
	}, report.Files)
	assert.Equal(t, 1, report.Count(stager.StatePending))

	// read-only
	assert.Equal(t, []string{"a.zip", "b.zip"}, testutil.Names(t, game.FS, game.Path("resourcepacks", "unwelded")))

	missing, err := s.Inspect(game.Path("nope"), nil)
	require.NoError(t, err)
	assert.False(t, missing.Exists)
}
