package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCatalogYAML = `
foes:
  - skeleton
  - necromancer
allies:
  - villager
items:
  - potion
  - sword
dialogs:
  - greeting
fountains:
  - life_fountain
`

func TestNew(t *testing.T) {
	snap := New(map[string][]string{
		KindFoe:  {"skeleton"},
		KindItem: {"potion", "sword"},
	})
	assert.True(t, snap.Has(KindFoe, "skeleton"))
	assert.False(t, snap.Has(KindFoe, "zombie"))
	assert.False(t, snap.Has(KindAlly, "skeleton"), "kinds are separate namespaces")
	assert.Equal(t, 2, snap.Len(KindItem))
}

func TestZeroSnapshotResolvesNothing(t *testing.T) {
	var snap Snapshot
	assert.False(t, snap.Has(KindFoe, "skeleton"))
	assert.Zero(t, snap.Len(KindFoe))
}

func TestLoadFromBytes(t *testing.T) {
	snap, err := LoadFromBytes([]byte(validCatalogYAML))
	require.NoError(t, err)

	assert.True(t, snap.Has(KindFoe, "skeleton"))
	assert.True(t, snap.Has(KindAlly, "villager"))
	assert.True(t, snap.Has(KindItem, "sword"))
	assert.True(t, snap.Has(KindDialog, "greeting"))
	assert.True(t, snap.Has(KindFountain, "life_fountain"))
	assert.Equal(t, 2, snap.Len(KindFoe))
}

func TestLoadFromBytes_InvalidYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("foes: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFromBytes_EmptySectionsAllowed(t *testing.T) {
	snap, err := LoadFromBytes([]byte("items:\n  - potion\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len(KindItem))
	assert.Zero(t, snap.Len(KindFoe))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validCatalogYAML), 0644))

	snap, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, snap.Has(KindFoe, "necromancer"))
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/catalog.yaml")
	assert.Error(t, err)
}

func TestLoadFromDir_Merges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foes.yaml"), []byte("foes:\n  - skeleton\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.yml"), []byte("items:\n  - potion\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644))

	snap, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.True(t, snap.Has(KindFoe, "skeleton"))
	assert.True(t, snap.Has(KindItem, "potion"))
}

func TestLoadFromDir_Empty(t *testing.T) {
	_, err := LoadFromDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog files found")
}

func TestLoadFromDir_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("foes: [unclosed"), 0644))
	_, err := LoadFromDir(dir)
	assert.Error(t, err)
}
