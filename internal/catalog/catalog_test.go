package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "materials.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
materials:
  - name: Copper
    price: 10
    aliases: [cu, copper wire]
  - name: Aluminum
    price: 3.2
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Materials, 2)

	m, ok := c.Lookup("copper")
	require.True(t, ok)
	assert.Equal(t, 10.0, m.Price)

	m, ok = c.Lookup("CU")
	require.True(t, ok, "aliases match case-insensitively")
	assert.Equal(t, "Copper", m.Name)

	_, ok = c.Lookup("gold")
	assert.False(t, ok)
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, c.Materials)

	_, ok := c.Lookup("anything")
	assert.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
