// TEST TYPE: Integration Test
// DEPENDENCIES: In-memory filesystem, Cobra command tree
// PURPOSE: Test the weld command line as the launcher and users invoke it

package cli_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Nitrolaunch/weld/internal/cli"
	"github.com/Nitrolaunch/weld/pkg/errors"
	"github.com/Nitrolaunch/weld/pkg/paths"
	"github.com/Nitrolaunch/weld/pkg/protocol"
	"github.com/Nitrolaunch/weld/pkg/testutil"
	"github.com/Nitrolaunch/weld/pkg/types"
	"github.com/Nitrolaunch/weld/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nullResult = `%_{"set_result":null}`

// isolate keeps the user's config and log file out of the test
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, t.TempDir())
	t.Setenv(paths.EnvStateDir, t.TempDir())
	t.Setenv("WELD_LOG_FILE", "false")
}

func execute(t *testing.T, fsys types.FS, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := cli.NewRootCmdWithFS(fsys)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func lines(out string) []string {
	return strings.Split(strings.TrimRight(out, "\n"), "\n")
}

func hookArg(t *testing.T, gameDir string, config map[string]interface{}) string {
	t.Helper()
	if config == nil {
		config = map[string]interface{}{}
	}
	raw, err := json.Marshal(map[string]interface{}{
		"id":           "test",
		"update_depth": "full",
		"side":         "client",
		"game_dir":     gameDir,
		"config":       config,
	})
	require.NoError(t, err)
	return string(raw)
}

func TestHook_WeldsResourcepacks(t *testing.T) {
	isolate(t)
	fsys := testutil.NewTestFS()
	game := testutil.NewTestGame(t, fsys, "/game")
	game.AddResourcepack(t, "resourcepacks", "a.zip", "alpha")
	game.AddResourcepack(t, "resourcepacks", "b.zip", "beta")

	out, err := execute(t, fsys, "after_packages_installed", hookArg(t, "/game", map[string]interface{}{
		"weld_ignore": []string{"b"},
	}))
	require.NoError(t, err)

	output := lines(out)
	assert.Equal(t, nullResult, output[len(output)-1])
	assert.Equal(t, []string{"Welded Packs.zip", "b.zip", "unwelded"},
		testutil.Names(t, fsys, game.Path("resourcepacks")))
	assert.Equal(t, []string{"a.zip"}, testutil.Names(t, fsys, game.Path("resourcepacks", "unwelded")))
}

func TestHook_LegacyPolicyFlag(t *testing.T) {
	isolate(t)
	fsys := testutil.NewTestFS()
	testutil.NewTestGame(t, fsys, "/game")

	out, err := execute(t, fsys, "--policy", "legacy", "after_packages_installed", hookArg(t, "/game", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{protocol.TextPrefix + "Incorrect hook", nullResult}, lines(out))
}

func TestHook_PolicyFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("WELD_POLICY", "legacy")
	fsys := testutil.NewTestFS()
	game := testutil.NewTestGame(t, fsys, "/game")
	game.AddResourcepack(t, "resourcepacks", "a.zip", "alpha")

	_, err := execute(t, fsys, "on_instance_setup", hookArg(t, "/game", nil))
	require.NoError(t, err)
	assert.True(t, testutil.Exists(fsys, game.Path("resourcepacks", "weld_pack.zip")))
}

func TestHook_InvalidArgument(t *testing.T) {
	isolate(t)

	out, err := execute(t, testutil.NewTestFS(), "after_packages_installed", "{not json")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidArgument))

	output := lines(out)
	require.Len(t, output, 2)
	assert.Contains(t, output[0], `"Error":"Failed to weld packs:\n`)
	assert.Equal(t, nullResult, output[1])
}

func TestHook_MissingHookName(t *testing.T) {
	isolate(t)

	out, err := execute(t, testutil.NewTestFS(), "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidArgument))

	output := lines(out)
	require.Len(t, output, 2)
	assert.Contains(t, output[0], `"Error":"Failed to weld packs:\n`)
	assert.Equal(t, nullResult, output[1])
}

func TestHook_MissingDatapackFolderIsReported(t *testing.T) {
	isolate(t)
	fsys := testutil.NewTestFS()
	game := testutil.NewTestGame(t, fsys, "/game")
	game.AddResourcepack(t, "resourcepacks", "a.zip", "alpha")

	out, err := execute(t, fsys, "after_packages_installed", hookArg(t, "/game", map[string]interface{}{
		"datapack_folder": "mypacks",
	}))
	require.NoError(t, err)

	assert.Contains(t, out, "mypacks")
	assert.NotContains(t, out, "Packs welded")
	output := lines(out)
	assert.Equal(t, nullResult, output[len(output)-1])
}

func TestHook_UnknownPolicy(t *testing.T) {
	isolate(t)

	out, err := execute(t, testutil.NewTestFS(), "--policy", "bogus", "after_packages_installed", "{}")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))

	output := lines(out)
	require.Len(t, output, 2)
	assert.Contains(t, output[0], `"Error"`)
	assert.Equal(t, nullResult, output[1])
}

func TestHook_Base64(t *testing.T) {
	isolate(t)
	fsys := testutil.NewTestFS()
	testutil.NewTestGame(t, fsys, "/game")

	out, err := execute(t, fsys, "--base64", "after_packages_installed", hookArg(t, "/game", map[string]interface{}{
		"disable_weld": true,
	}))
	require.NoError(t, err)

	output := lines(out)
	require.Len(t, output, 1)
	assert.NotEqual(t, nullResult, output[0])

	action, ok, err := protocol.Decode(output[0], protocol.DefaultSentinel, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, protocol.KindSetResult, action.Kind)
	assert.True(t, action.IsNull())
}

func TestStatus_JSON(t *testing.T) {
	isolate(t)
	fsys := testutil.NewTestFS()
	game := testutil.NewTestGame(t, fsys, "/game")
	game.AddResourcepack(t, "resourcepacks", "a.zip", "alpha")
	game.AddResourcepack(t, "resourcepacks", "b.zip", "beta")

	out, err := execute(t, fsys, "status", "/game", "--ignore", "b", "--format", "json")
	require.NoError(t, err)

	var view ui.StatusView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "nitro", view.Policy)
	assert.Equal(t, "Welded Packs.zip", view.Archive)
	require.Len(t, view.Targets, 1)
	assert.Equal(t, "resourcepacks", view.Targets[0].Kind)
	assert.Equal(t, []ui.FileView{
		{Name: "a.zip", State: "pending"},
		{Name: "b.zip", State: "ignored"},
	}, view.Targets[0].Files)

	// Status never modifies the instance
	assert.Equal(t, []string{"a.zip", "b.zip"}, testutil.Names(t, fsys, game.Path("resourcepacks")))
}

func TestStatus_MissingTarget(t *testing.T) {
	isolate(t)
	fsys := testutil.NewTestFS()
	game := testutil.NewTestGame(t, fsys, "/game")
	game.AddResourcepack(t, "resourcepacks", "a.zip", "alpha")

	out, err := execute(t, fsys, "status", "/game", "--side", "server", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "datapacks: /game/world/datapacks\n    missing\n")
	assert.Contains(t, out, "resourcepacks: /game/resourcepacks\n")
	assert.Regexp(t, `pending\s+a\.zip`, out)
	assert.False(t, testutil.Exists(fsys, game.Path("world")))
}

func TestStatus_BadFormat(t *testing.T) {
	isolate(t)
	_, err := execute(t, testutil.NewTestFS(), "status", "/game", "--format", "xml")
	assert.Error(t, err)
}

func TestGenconfig(t *testing.T) {
	isolate(t)

	out, err := execute(t, testutil.NewTestFS(), "genconfig", "--policy", "legacy")
	require.NoError(t, err)
	assert.Regexp(t, `policy = ['"]legacy['"]`, out)
	assert.Contains(t, out, "[merge]")
}

func TestGenconfig_Write(t *testing.T) {
	isolate(t)
	fsys := testutil.NewTestFS()
	target := filepath.Join(paths.ConfigDir(), "config.toml")

	out, err := execute(t, fsys, "genconfig", "--write")
	require.NoError(t, err)
	assert.Contains(t, out, target)
	assert.True(t, testutil.Exists(fsys, target))

	_, err = execute(t, fsys, "genconfig", "--write")
	assert.Error(t, err)

	_, err = execute(t, fsys, "genconfig", "--write", "--force", "--commented")
	require.NoError(t, err)
	data, err := fsys.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# policy = ")
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := execute(t, testutil.NewTestFS(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "weld version dev")
}

func TestHelpTopics(t *testing.T) {
	isolate(t)
	fsys := testutil.NewTestFS()

	out, err := execute(t, fsys, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "staging")
	assert.Contains(t, out, "policies")
	assert.Contains(t, out, "--base64")

	out, err = execute(t, fsys, "help", "base64")
	require.NoError(t, err)
	assert.Contains(t, out, "raw_transfer")
}
