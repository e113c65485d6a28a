package testutil

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"testing"

	"github.com/Nitrolaunch/weld/pkg/types"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// PackMeta returns a pack.mcmeta document with the given format and description
func PackMeta(format int, description string) string {
	return fmt.Sprintf(`{"pack":{"pack_format":%d,"description":%q}}`, format, description)
}

// WritePackZip writes a zip archive at path containing files (name -> content)
func WritePackZip(t *testing.T, fsys types.FS, path string, files map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(fw, files[name])
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, fsys.WriteFile(path, buf.Bytes(), 0644))
}

// ReadZip returns the entries (name -> content) of the archive at path
func ReadZip(t *testing.T, fsys types.FS, path string) map[string]string {
	t.Helper()

	data, err := fsys.ReadFile(path)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(content)
	}
	return out
}
