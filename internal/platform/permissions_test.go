package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChmod(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.txt")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0644))

	require.NoError(t, Chmod(path, 0600))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestMarkExecutable(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "squirrel123.exe")
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0644))

	require.NoError(t, MarkExecutable(path))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}
}
