package cli

import (
	"github.com/spf13/cobra"

	"github.com/squirrel-labs/squirrel-setup/internal/branding"
	"github.com/squirrel-labs/squirrel-setup/internal/config"
	"github.com/squirrel-labs/squirrel-setup/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` builds and inspects self-extracting setup programs: it stamps a
package into a setup template, reports what a setup program carries, and
manages the settings the setup and stub binaries read.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		s := config.Current()
		logFile := s.LogFile
		if logFile == "" {
			logFile = logging.Console
		}
		return logging.InitLog(s.LogLevel, logFile)
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
