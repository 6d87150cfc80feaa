package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/squirrel-labs/squirrel-setup/internal/config"
	"github.com/squirrel-labs/squirrel-setup/internal/handoff"
	"github.com/squirrel-labs/squirrel-setup/internal/logging"
	"github.com/squirrel-labs/squirrel-setup/internal/stub"
)

// newStubResolver builds the resolver described by s.
func newStubResolver(s config.Settings) (*stub.Resolver, error) {
	strategy, err := stub.ParseStrategy(s.StubStrategy)
	if err != nil {
		return nil, err
	}
	r := stub.NewResolver(strategy)
	if s.StubPrefix != "" {
		r.Prefix = s.StubPrefix
	}
	return r, nil
}

// NewStubCommand returns the command run by the application stub. The raw
// command line is forwarded to the resolved executable.
func NewStubCommand(exitCode *int) *cobra.Command {
	allowExplorerLaunch()
	return &cobra.Command{
		Use:                "stub",
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

			r, err := newStubResolver(s)
			if err != nil {
				log.Warnf("ignoring invalid stub strategy: %v", err)
				r = stub.NewResolver(stub.StrategyLatest)
			}

			raw := handoff.RawArgs()
			if s.StubDryRun {
				raw = stub.DryRunFlag + " " + raw
			}
			*exitCode = stub.New(r).Run(raw)
			return nil
		},
	}
}

// ExecuteStub runs the stub and returns its exit code.
func ExecuteStub() int {
	code := 0
	if err := NewStubCommand(&code).Execute(); err != nil {
		log.Errorf("stub: %v", err)
		return 1
	}
	return code
}
