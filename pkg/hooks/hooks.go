// Package hooks models the launcher hook invocation: the hook name, the JSON
// argument passed on the command line and the terminal result each hook expects.
package hooks

import (
	"encoding/json"
	"strings"

	"github.com/Nitrolaunch/weld/pkg/errors"
)

// Name identifies a launcher lifecycle hook
type Name string

const (
	OnInstanceSetup        Name = "on_instance_setup"
	AfterPackagesInstalled Name = "after_packages_installed"
	UpdateWorldFiles       Name = "update_world_files"
)

// UpdateDepth is how thoroughly the launcher is updating the instance
type UpdateDepth string

const (
	DepthShallow UpdateDepth = "shallow"
	DepthFull    UpdateDepth = "full"
	DepthForce   UpdateDepth = "force"
)

// Side is the instance side
type Side string

const (
	SideClient Side = "client"
	SideServer Side = "server"
)

// InstanceConfig holds the instance configuration keys weld reads.
// The launcher sends the whole instance config; unknown keys are ignored.
type InstanceConfig struct {
	DisableWeld             bool     `json:"disable_weld"`
	DatapackFolder          *string  `json:"datapack_folder"`
	WeldIgnore              []string `json:"weld_ignore"`
	WeldDistinguishChannels *bool    `json:"weld_distinguish_channels"`
}

// Argument is the JSON argument of a hook invocation
type Argument struct {
	ID          string          `json:"id"`
	UpdateDepth UpdateDepth     `json:"update_depth"`
	Config      *InstanceConfig `json:"config"`
	GameDir     *string         `json:"game_dir"`
	Side        Side            `json:"side"`
}

// HasGameDir reports whether the launcher sent a game directory
func (a *Argument) HasGameDir() bool {
	return a.GameDir != nil && *a.GameDir != ""
}

// Invocation is one hook call: created once per process, never mutated
type Invocation struct {
	Hook Name
	Raw  string
}

// NewInvocation builds an invocation from the positional command line arguments
func NewInvocation(args []string) (Invocation, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return Invocation{}, errors.New(errors.ErrInvalidArgument, "missing hook name")
	}
	inv := Invocation{Hook: Name(args[0])}
	if len(args) > 1 {
		inv.Raw = args[1]
	}
	return inv, nil
}

// ParseArgument decodes the JSON argument. The config object is required.
func ParseArgument(raw string) (*Argument, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New(errors.ErrInvalidArgument, "missing hook argument")
	}

	var arg Argument
	if err := json.Unmarshal([]byte(raw), &arg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidArgument, "hook argument is not valid JSON")
	}

	if arg.Config == nil {
		return nil, errors.New(errors.ErrInvalidArgument, "hook argument has no config").
			WithDetail("field", "config")
	}

	return &arg, nil
}
