package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestFilePath(t *testing.T) {
	home := withHome(t)
	assert.Equal(t, filepath.Join(home, ".squirrel", "config.yaml"), FilePath())
}

func TestDefaults(t *testing.T) {
	withHome(t)
	Load()

	s := Current()
	assert.Equal(t, "package", s.Policy)
	assert.Equal(t, "Squirrel.exe", s.UpdaterName)
	assert.Equal(t, int64(50_000_000), s.SpaceOverhead)
	assert.Equal(t, int64(3), s.SpaceMultiplier)
	assert.Equal(t, "latest", s.StubStrategy)
	assert.Equal(t, "app-", s.StubPrefix)
	assert.Empty(t, s.Temp)
}

func TestEnvironmentOverrides(t *testing.T) {
	withHome(t)
	t.Setenv("SQUIRREL_TEMP", "/mnt/scratch")
	t.Setenv("SQUIRREL_POLICY", "offset")
	t.Setenv("SQUIRREL_SPACE_MULTIPLIER", "2")
	t.Setenv("SQUIRREL_STUB_STRATEGY", "update-exe")
	Load()

	s := Current()
	assert.Equal(t, "/mnt/scratch", s.Temp)
	assert.Equal(t, "offset", s.Policy)
	assert.Equal(t, int64(2), s.SpaceMultiplier)
	assert.Equal(t, "update-exe", s.StubStrategy)
}

func TestSetWritesValidFile(t *testing.T) {
	withHome(t)
	Load()

	require.NoError(t, Set(KeyPolicy, "updater"))
	require.NoError(t, Set(KeySpaceMultiplier, "2"))
	require.NoError(t, Set(KeyStubDryRun, "true"))
	assert.Equal(t, "updater", Get(KeyPolicy))

	data, err := os.ReadFile(FilePath())
	require.NoError(t, err)
	res, err := Validate(data)
	require.NoError(t, err)
	assert.True(t, res.Valid, "%v", res.Issues)

	viper.Reset()
	Load()
	assert.Equal(t, "updater", Current().Policy)
	assert.Equal(t, int64(2), Current().SpaceMultiplier)
	assert.True(t, Current().StubDryRun)
}
