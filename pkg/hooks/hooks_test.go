package hooks

import (
	"bytes"
	"testing"

	"github.com/Nitrolaunch/weld/pkg/errors"
	"github.com/Nitrolaunch/weld/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvocation(t *testing.T) {
	inv, err := NewInvocation([]string{"update_world_files", `{"config":{}}`})
	require.NoError(t, err)
	assert.Equal(t, UpdateWorldFiles, inv.Hook)
	assert.Equal(t, `{"config":{}}`, inv.Raw)

	inv, err = NewInvocation([]string{"on_instance_setup"})
	require.NoError(t, err)
	assert.Empty(t, inv.Raw)

	_, err = NewInvocation(nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidArgument))
}

func TestParseArgument(t *testing.T) {
	raw := `{
		"id": "survival",
		"update_depth": "full",
		"side": "client",
		"game_dir": "/instances/survival/.minecraft",
		"internal_dir": "/data/internal",
		"config": {
			"disable_weld": false,
			"datapack_folder": "mypacks",
			"weld_ignore": ["b", "Optional"],
			"weld_distinguish_channels": true,
			"java": "adoptium"
		}
	}`

	arg, err := ParseArgument(raw)
	require.NoError(t, err)

	assert.Equal(t, DepthFull, arg.UpdateDepth)
	assert.Equal(t, SideClient, arg.Side)
	require.True(t, arg.HasGameDir())
	assert.Equal(t, "/instances/survival/.minecraft", *arg.GameDir)
	require.NotNil(t, arg.Config.DatapackFolder)
	assert.Equal(t, "mypacks", *arg.Config.DatapackFolder)
	assert.Equal(t, []string{"b", "Optional"}, arg.Config.WeldIgnore)
	require.NotNil(t, arg.Config.WeldDistinguishChannels)
	assert.True(t, *arg.Config.WeldDistinguishChannels)
}

func TestParseArgumentNullGameDir(t *testing.T) {
	arg, err := ParseArgument(`{"update_depth":"shallow","game_dir":null,"config":{}}`)
	require.NoError(t, err)
	assert.False(t, arg.HasGameDir())
	assert.Nil(t, arg.Config.DatapackFolder)
	assert.Empty(t, arg.Config.WeldIgnore)
}

func TestParseArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"malformed", `{"config":`},
		{"missing config", `{"update_depth":"full"}`},
		{"wrong type", `{"config":{"weld_ignore":"b"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgument(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidArgument))
		})
	}
}

func TestTerminalResult(t *testing.T) {
	var buf bytes.Buffer
	e := protocol.NewEmitter(&buf, protocol.Options{})

	e.SetResult(TerminalResult(OnInstanceSetup))
	e.SetResult(TerminalResult(AfterPackagesInstalled))

	assert.Equal(t,
		`%_{"set_result":{"main_class_override":null,"jar_path_override":null,"classpath_extension":[],"loader_version":null,"jvm_args":[],"game_args":[]}}`+"\n"+
			`%_{"set_result":null}`+"\n",
		buf.String())
}
