// Package branding provides compile-time identity values for the setup
// toolchain.
//
// Packagers edit branding.yaml in this directory before building the Setup
// template and stub; Go's //go:embed bakes it into every binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	TempPrefix     string `yaml:"temp_prefix"`
	UpdaterName    string `yaml:"updater_name"`
	UpdateExeName  string `yaml:"update_exe_name"`
	AppDirPrefix   string `yaml:"app_dir_prefix"`
	CurrentDirName string `yaml:"current_dir_name"`
	SetupLogName   string `yaml:"setup_log_name"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing fields.
		defaults = brand{
			CLIName:        "setupkit",
			DisplayName:    "Squirrel Setup",
			Description:    "Self-extracting installer bootstrapper",
			HomeDir:        ".squirrel",
			EnvPrefix:      "SQUIRREL",
			TempPrefix:     "squirrel",
			UpdaterName:    "Squirrel.exe",
			UpdateExeName:  "Update.exe",
			AppDirPrefix:   "app-",
			CurrentDirName: "current",
			SetupLogName:   "SquirrelSetup.log",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the developer tool command name (e.g., "setupkit").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name used in dialog titles.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".squirrel").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SQUIRREL").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// TempPrefix returns the prefix given to every temp file setup creates.
func TempPrefix() string { load(); return defaults.TempPrefix }

// UpdaterName returns the file name suffix identifying the updater inside
// the bundled package.
func UpdaterName() string { load(); return defaults.UpdaterName }

// UpdateExeName returns the file name of the installed updater next to the stub.
func UpdateExeName() string { load(); return defaults.UpdateExeName }

// AppDirPrefix returns the prefix of version-suffixed install directories.
func AppDirPrefix() string { load(); return defaults.AppDirPrefix }

// CurrentDirName returns the fixed directory name of the active version.
func CurrentDirName() string { load(); return defaults.CurrentDirName }

// SetupLogName returns the file name of the setup log.
func SetupLogName() string { load(); return defaults.SetupLogName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("TEMP") → "SQUIRREL_TEMP".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
