package testutil

import (
	"github.com/Nitrolaunch/weld/pkg/filesystem"
	"github.com/Nitrolaunch/weld/pkg/types"
	"github.com/spf13/afero"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}
