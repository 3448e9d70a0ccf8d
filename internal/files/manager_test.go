package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
	"salescli/internal/shared/testutil"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	out := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)
	return NewManager(&config.Paths{OutputDir: out}, logger), out
}

func TestManager_WriteFile(t *testing.T) {
	m, out := newTestManager(t)

	require.NoError(t, m.WriteFile("manifest.json", []byte(`{"a":1}`)))
	assert.True(t, m.FileExists("manifest.json"))

	data, err := m.ReadFile(filepath.Join(out, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	// Overwrite replaces content and leaves no temp files behind
	require.NoError(t, m.WriteFile("manifest.json", []byte(`{}`)))
	data, err = m.ReadFile("manifest.json")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	info, err := os.Stat(filepath.Join(out, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestManager_WriteFileCreatesDirectories(t *testing.T) {
	m, out := newTestManager(t)

	require.NoError(t, m.WriteFile("nested/deeper/file.txt", []byte("x")))
	assert.FileExists(t, filepath.Join(out, "nested", "deeper", "file.txt"))
	assert.False(t, m.FileExists("nested/absent.txt"))
}

func TestDigest(t *testing.T) {
	m, out := newTestManager(t)
	require.NoError(t, m.WriteFile("a.csv", []byte("abc")))
	require.NoError(t, m.WriteFile("b.csv", []byte("abc")))
	require.NoError(t, m.WriteFile("c.csv", []byte("abd")))

	da, size, err := m.Digest("a.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
	assert.Len(t, da, 64)

	db, _, err := Digest(filepath.Join(out, "b.csv"))
	require.NoError(t, err)
	dc, _, err := m.Digest("c.csv")
	require.NoError(t, err)

	assert.Equal(t, da, db)
	assert.NotEqual(t, da, dc)

	_, _, err = m.Digest("missing.csv")
	assert.Error(t, err)
}
