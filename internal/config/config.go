package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/squirrel-labs/squirrel-setup/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the setup and stub binaries.
const (
	KeyTemp            = "temp"
	KeyPolicy          = "policy"
	KeyUpdaterName     = "updater_name"
	KeyUpdaterFoldCase = "updater_ignore_case"
	KeyLogLevel        = "log_level"
	KeyLogFile         = "log_file"
	KeySpaceOverheadMB = "space.overhead_mb"
	KeySpaceMultiplier = "space.multiplier"
	KeyStubStrategy    = "stub.strategy"
	KeyStubPrefix      = "stub.prefix"
	KeyStubDryRun      = "stub.dry_run"
)

// Dir returns the path to the config directory (~/.squirrel/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.squirrel/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault(KeyTemp, "")
	viper.SetDefault(KeyPolicy, "package")
	viper.SetDefault(KeyUpdaterName, branding.UpdaterName())
	viper.SetDefault(KeyUpdaterFoldCase, false)
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFile, "")
	viper.SetDefault(KeySpaceOverheadMB, 50)
	viper.SetDefault(KeySpaceMultiplier, 3)
	viper.SetDefault(KeyStubStrategy, "latest")
	viper.SetDefault(KeyStubPrefix, branding.AppDirPrefix())
	viper.SetDefault(KeyStubDryRun, false)
}

// Load initializes Viper to read from the config file and environment.
// Nested keys map to variables with underscores: space.multiplier is read
// from SQUIRREL_SPACE_MULTIPLIER.
func Load() {
	SetDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, typed(value))

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// typed stores numbers and booleans as such so the file still validates.
func typed(value string) any {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}

// Settings is the typed view of the loaded configuration.
type Settings struct {
	Temp            string
	Policy          string
	UpdaterName     string
	UpdaterFoldCase bool
	LogLevel        string
	LogFile         string
	SpaceOverhead   int64 // bytes
	SpaceMultiplier int64
	StubStrategy    string
	StubPrefix      string
	StubDryRun      bool
}

// Current returns the settings as currently resolved by Viper.
func Current() Settings {
	return Settings{
		Temp:            viper.GetString(KeyTemp),
		Policy:          viper.GetString(KeyPolicy),
		UpdaterName:     viper.GetString(KeyUpdaterName),
		UpdaterFoldCase: viper.GetBool(KeyUpdaterFoldCase),
		LogLevel:        viper.GetString(KeyLogLevel),
		LogFile:         viper.GetString(KeyLogFile),
		SpaceOverhead:   viper.GetInt64(KeySpaceOverheadMB) * 1000 * 1000,
		SpaceMultiplier: viper.GetInt64(KeySpaceMultiplier),
		StubStrategy:    viper.GetString(KeyStubStrategy),
		StubPrefix:      viper.GetString(KeyStubPrefix),
		StubDryRun:      viper.GetBool(KeyStubDryRun),
	}
}
