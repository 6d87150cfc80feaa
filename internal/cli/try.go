package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squirrel-labs/squirrel-setup/internal/config"
	"github.com/squirrel-labs/squirrel-setup/internal/handoff"
	"github.com/squirrel-labs/squirrel-setup/internal/notify"
	"github.com/squirrel-labs/squirrel-setup/internal/setup"
)

var tryPolicy string

func init() {
	tryCmd.Flags().StringVar(&tryPolicy, "policy", "", "Extraction policy (package, updater, offset, extract-all); defaults to the configured one")
	rootCmd.AddCommand(tryCmd)
}

var tryCmd = &cobra.Command{
	Use:   "try <setup.exe> [-- updater args...]",
	Short: "Run the bootstrap of a stamped setup program from this tool",
	Long: `Map the given setup program, extract its updater and run it exactly as the
setup program itself would, reporting failures on the console.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := config.Current()
		if tryPolicy != "" {
			s.Policy = tryPolicy
		}
		opts, err := setupOptions(s)
		if err != nil {
			return err
		}
		opts = append(opts,
			setup.WithHost(args[0]),
			setup.WithNotifier(notify.NewConsole()),
			setup.WithElevationCheck(func() bool { return false }),
		)

		b := setup.New(opts...)
		if err := b.Bootstrap(handoff.BuildCommandLine(args[1:]...)); err != nil {
			return fmt.Errorf("bootstrap stopped after %s: %w", b.State(), err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Updater finished successfully")
		return nil
	},
}
