package testutil

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/Nitrolaunch/weld/pkg/types"
	"github.com/stretchr/testify/require"
)

// TestGame represents an instance game directory under construction
type TestGame struct {
	FS  types.FS
	Dir string
}

// NewTestGame creates an empty game directory at dir
func NewTestGame(t *testing.T, fsys types.FS, dir string) *TestGame {
	t.Helper()

	require.NoError(t, fsys.MkdirAll(dir, 0755))
	return &TestGame{FS: fsys, Dir: dir}
}

// Path joins elements onto the game directory
func (g *TestGame) Path(elem ...string) string {
	return filepath.Join(append([]string{g.Dir}, elem...)...)
}

// Mkdir creates a directory (and parents) relative to the game directory
func (g *TestGame) Mkdir(t *testing.T, rel ...string) string {
	t.Helper()

	dir := g.Path(rel...)
	require.NoError(t, g.FS.MkdirAll(dir, 0755))
	return dir
}

// AddFile writes a plain file relative to the game directory
func (g *TestGame) AddFile(t *testing.T, rel string, content string) string {
	t.Helper()

	path := g.Path(rel)
	require.NoError(t, g.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, g.FS.WriteFile(path, []byte(content), 0644))
	return path
}

// AddDatapack writes a datapack archive with a single function file into dir
func (g *TestGame) AddDatapack(t *testing.T, dir, name, namespace string) string {
	t.Helper()

	path := g.Path(dir, name)
	require.NoError(t, g.FS.MkdirAll(filepath.Dir(path), 0755))
	WritePackZip(t, g.FS, path, map[string]string{
		"pack.mcmeta": PackMeta(48, name),
		"data/" + namespace + "/function/main.mcfunction": "say " + namespace,
	})
	return path
}

// AddResourcepack writes a resourcepack archive with a single texture into dir
func (g *TestGame) AddResourcepack(t *testing.T, dir, name, namespace string) string {
	t.Helper()

	path := g.Path(dir, name)
	require.NoError(t, g.FS.MkdirAll(filepath.Dir(path), 0755))
	WritePackZip(t, g.FS, path, map[string]string{
		"pack.mcmeta": PackMeta(34, name),
		"assets/" + namespace + "/textures/item/icon.png": namespace,
	})
	return path
}

// Names returns the sorted entry names of dir
func Names(t *testing.T, fsys types.FS, dir string) []string {
	t.Helper()

	entries, err := fsys.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

// Exists reports whether path exists
func Exists(fsys types.FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
