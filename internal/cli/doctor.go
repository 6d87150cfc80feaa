package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/squirrel-labs/squirrel-setup/internal/branding"
	"github.com/squirrel-labs/squirrel-setup/internal/config"
	"github.com/squirrel-labs/squirrel-setup/internal/platform"
	"github.com/squirrel-labs/squirrel-setup/internal/preflight"
	"github.com/squirrel-labs/squirrel-setup/internal/setup"
	"github.com/squirrel-labs/squirrel-setup/internal/stub"
	"github.com/squirrel-labs/squirrel-setup/internal/tempfile"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment a setup program would run in",
	Long: `Report the scratch directory setup would extract to, the free space on it,
whether the process is elevated, and whether the configuration is valid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if failed := runChecks(cmd.OutOrStdout(), config.Current()); failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func runChecks(w io.Writer, s config.Settings) int {
	failed := 0
	check := func(name string, err error, detail string) {
		if err != nil {
			failed++
			fmt.Fprintf(w, "  ✗ %-12s %v\n", name, err)
			return
		}
		fmt.Fprintf(w, "  ✓ %-12s %s\n", name, detail)
	}

	fmt.Fprintln(w, "Configuration:")
	if _, err := os.Stat(config.FilePath()); err == nil {
		res, err := config.ValidateFile(config.FilePath())
		if err == nil && !res.Valid {
			err = fmt.Errorf("%d problem(s), run '%s config validate'", len(res.Issues), branding.CLIName())
		}
		check("config file", err, config.FilePath())
	} else {
		check("config file", nil, "none (defaults)")
	}
	_, err := setup.ParsePolicy(s.Policy)
	check("policy", err, s.Policy)
	_, err = stub.ParseStrategy(s.StubStrategy)
	check("stub", err, s.StubStrategy)

	fmt.Fprintln(w, "Environment:")
	dir, err := tempfile.Dir(afero.NewOsFs(), s.Temp)
	check("temp dir", err, dir)
	if err == nil {
		free, err := preflight.DiskFree(dir)
		check("free space", err, preflight.PrettyBytes(free))
	}
	elevated := "no"
	if platform.IsElevated() {
		elevated = "yes (setup will relaunch without admin rights)"
	}
	check("elevated", nil, elevated)

	return failed
}
