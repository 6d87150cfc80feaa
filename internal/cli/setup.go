package cli

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/squirrel-labs/squirrel-setup/internal/branding"
	"github.com/squirrel-labs/squirrel-setup/internal/config"
	"github.com/squirrel-labs/squirrel-setup/internal/handoff"
	"github.com/squirrel-labs/squirrel-setup/internal/logging"
	"github.com/squirrel-labs/squirrel-setup/internal/preflight"
	"github.com/squirrel-labs/squirrel-setup/internal/setup"
)

// setupOptions translates settings into bootstrapper options.
func setupOptions(s config.Settings) ([]setup.Option, error) {
	policy, err := setup.ParsePolicy(s.Policy)
	if err != nil {
		return nil, err
	}
	if s.SpaceMultiplier < 1 {
		return nil, fmt.Errorf("space multiplier must be at least 1, got %d", s.SpaceMultiplier)
	}
	return []setup.Option{
		setup.WithPolicy(policy),
		setup.WithTempDir(s.Temp),
		setup.WithUpdaterName(s.UpdaterName, s.UpdaterFoldCase),
		setup.WithSpaceChecker(preflight.NewChecker(preflight.Policy{
			Overhead:   s.SpaceOverhead,
			Multiplier: s.SpaceMultiplier,
		})),
	}, nil
}

// openSetupLog returns a hook that moves logging into dir once setup has
// verified there is room for it. A configured log file is opened up front
// instead and the hook does nothing.
func openSetupLog(s config.Settings) func(dir string) {
	return func(dir string) {
		if s.LogFile != "" {
			return
		}
		path := filepath.Join(dir, branding.SetupLogName())
		if err := logging.InitLog(s.LogLevel, path); err != nil {
			log.Warnf("could not open %s: %v", path, err)
		}
	}
}

// allowExplorerLaunch lets a binary run when started from Explorer or a
// shortcut. Cobra otherwise refuses and exits.
func allowExplorerLaunch() {
	cobra.MousetrapHelpText = ""
}

// NewSetupCommand returns the command run by the setup program. Every
// argument is forwarded to the updater untouched.
func NewSetupCommand(exitCode *int) *cobra.Command {
	allowExplorerLaunch()
	return &cobra.Command{
		Use:                filepath.Base(os.Args[0]),
		Short:              "Install " + branding.DisplayName() + " packages",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			s := config.Current()
			logFile := s.LogFile
			if logFile == "" {
				logFile = logging.Console
			}
			if err := logging.InitLog(s.LogLevel, logFile); err != nil {
				log.Warnf("falling back to console logging: %v", err)
			}
			log.Infof("%s %s starting", branding.DisplayName(), buildVersion)

			opts, err := setupOptions(s)
			if err != nil {
				log.Warnf("ignoring invalid configuration: %v", err)
				opts = nil
			}
			opts = append(opts, setup.WithSpaceVerified(openSetupLog(s)))
			*exitCode = setup.New(opts...).Run(handoff.RawArgs())
			return nil
		},
	}
}

// ExecuteSetup runs the setup program and returns its exit code.
func ExecuteSetup(version, commit, date string) int {
	buildVersion, buildCommit, buildDate = version, commit, date
	code := 0
	cmd := NewSetupCommand(&code)
	if err := cmd.Execute(); err != nil {
		log.Errorf("setup: %v", err)
	}
	return code
}
