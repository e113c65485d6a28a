package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStyles(t *testing.T) {
	for _, name := range []string{"Title", "Target", "Path", "Muted", "Warning", "FileName"} {
		assert.True(t, Has(name), name)
	}
	assert.True(t, Get("Title").GetBold())
	assert.Equal(t, 4, Get("FileName").GetPaddingLeft())
}

func TestLoad(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, Load(embeddedStyles)) })

	require.NoError(t, Load([]byte(`
colors:
  red: {light: "#ff0000", dark: "#aa0000"}
styles:
  Alert:
    bold: true
    foreground: red
`)))
	assert.True(t, Has("Alert"))
	assert.False(t, Has("Title"))
	assert.True(t, Get("Alert").GetBold())

	assert.Error(t, Load([]byte("styles: [")))
}

func TestGetUnknown(t *testing.T) {
	assert.False(t, Get("Nope").GetBold())
}
