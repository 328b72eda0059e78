package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.txt", "2+2?\n4\n3+3?\n6\n")

	samples, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2+2? 4", "3+3? 6"}, samples)
}

func TestLoadFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.txt", "")

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestLoadDirDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "3+3?\n6\n")
	writeFile(t, dir, "a.txt", "2+2?\n4\n")
	writeFile(t, dir, "sub/c.txt", "5+5?\n10\n")
	writeFile(t, dir, "notes.md", "ignored: not a txt file")

	want := []string{"2+2? 4", "3+3? 6", "5+5? 10"}

	// Files are merged in lexicographic path order; repeated loads must agree.
	for i := 0; i < 3; i++ {
		samples, err := LoadDir(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, want, samples, "iteration %d", i)
	}
}

func TestLoadDirHonorsIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", "2+2?\n4\n")
	writeFile(t, dir, "skip.txt", "9+9?\n18\n")
	writeFile(t, dir, ".aftignore", "skip.txt\n")

	samples, err := LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"2+2? 4"}, samples)
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}
