package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutablePath(t *testing.T) {
	path, err := ExecutablePath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestIsUNCPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{`\\server\share\temp`, true},
		{"//server/share/temp", true},
		{`C:\Users\me\AppData\Local\Temp`, false},
		{"/tmp", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsUNCPath(tt.path), tt.path)
	}
}

func TestResolveLink(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "app-1.2.0")
	require.NoError(t, os.MkdirAll(target, 0755))

	got, err := ResolveLink(target)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	if runtime.GOOS == "windows" {
		return
	}

	link := filepath.Join(tmp, "current")
	require.NoError(t, os.Symlink(target, link))
	got, err = ResolveLink(link)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveLinkMissing(t *testing.T) {
	_, err := ResolveLink(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestIsElevatedOffWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("token state depends on the test runner")
	}
	assert.False(t, IsElevated())
}
