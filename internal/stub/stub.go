// Package stub finds the installed copy of an application next to the stub
// executable and starts it with the stub's own arguments.
package stub

import (
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/squirrel-labs/squirrel-setup/internal/branding"
	"github.com/squirrel-labs/squirrel-setup/internal/handoff"
	"github.com/squirrel-labs/squirrel-setup/internal/notify"
	"github.com/squirrel-labs/squirrel-setup/internal/platform"
)

// DryRunFlag makes the stub show the command it would run instead of
// running it. It is removed from the forwarded arguments.
const DryRunFlag = "--stub-dry-run"

// Strategy selects how the target executable is found.
type Strategy int

const (
	// StrategyLatest picks the highest-versioned app-<version> directory.
	StrategyLatest Strategy = iota
	// StrategyCurrent always uses the current/ directory.
	StrategyCurrent
	// StrategyUpdateExe delegates to Update.exe --processStart.
	StrategyUpdateExe
)

var strategyNames = []string{"latest", "current", "update-exe"}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// StrategyNames lists the accepted strategy names.
func StrategyNames() []string {
	return append([]string(nil), strategyNames...)
}

// ParseStrategy maps a configured name to a Strategy. The empty string
// selects StrategyLatest.
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StrategyLatest, nil
	}
	for i, n := range strategyNames {
		if n == s {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stub strategy %q (want one of %s)", s, strings.Join(strategyNames, ", "))
}

// Resolver turns the stub's own path into the command to start.
type Resolver struct {
	Strategy   Strategy
	Prefix     string
	CurrentDir string
	UpdateExe  string
	Fs         afero.Fs
}

// NewResolver returns a Resolver with the branded directory names.
func NewResolver(s Strategy) *Resolver {
	return &Resolver{
		Strategy:   s,
		Prefix:     branding.AppDirPrefix(),
		CurrentDir: branding.CurrentDirName(),
		UpdateExe:  branding.UpdateExeName(),
		Fs:         afero.NewOsFs(),
	}
}

// ExecutablePath returns the installed copy of ownExe. For StrategyUpdateExe
// that is the updater next to ownExe.
func (r *Resolver) ExecutablePath(ownExe string) (string, error) {
	root, name := filepath.Dir(ownExe), filepath.Base(ownExe)
	switch r.Strategy {
	case StrategyCurrent:
		dir := filepath.Join(root, r.CurrentDir)
		if target, err := platform.ResolveLink(dir); err == nil {
			dir = target
		}
		return filepath.Join(dir, name), nil
	case StrategyUpdateExe:
		return filepath.Join(root, r.UpdateExe), nil
	default:
		dir, v, err := LatestVersionDir(r.Fs, root, r.Prefix)
		if err != nil {
			return "", err
		}
		log.Debugf("latest installed version is %s in %s", v, dir)
		return filepath.Join(dir, name), nil
	}
}

// Command builds the command line that starts the installed application
// with args, the stub's raw argument tail.
func (r *Resolver) Command(ownExe, args string) (handoff.Command, error) {
	target, err := r.ExecutablePath(ownExe)
	if err != nil {
		return handoff.Command{}, err
	}

	var line handoff.Builder
	if r.Strategy == StrategyUpdateExe {
		line.Arg(target).Arg("--processStart").Arg(filepath.Base(ownExe))
		if args = strings.TrimSpace(args); args != "" {
			line.Arg("--process-start-args").Arg(args)
		}
	} else {
		line.Path(target).Raw(args)
	}
	return handoff.Command{Line: line.String()}, nil
}

// Stub launches the installed application on behalf of the stub binary.
type Stub struct {
	resolver   *Resolver
	runner     handoff.Runner
	notifier   notify.Notifier
	executable func() (string, error)
	foreground func(pid int)
}

// Option configures a Stub.
type Option func(*Stub)

// WithRunner replaces the process runner.
func WithRunner(r handoff.Runner) Option {
	return func(s *Stub) { s.runner = r }
}

// WithNotifier replaces the user notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Stub) { s.notifier = n }
}

// WithExecutable replaces the lookup of the stub's own path.
func WithExecutable(path string) Option {
	return func(s *Stub) {
		s.executable = func() (string, error) { return path, nil }
	}
}

// WithForeground replaces the foreground-permission grant.
func WithForeground(f func(pid int)) Option {
	return func(s *Stub) { s.foreground = f }
}

// New returns a Stub resolving through r.
func New(r *Resolver, opts ...Option) *Stub {
	s := &Stub{
		resolver:   r,
		runner:     handoff.NewRunner(),
		notifier:   notify.Default(),
		executable: platform.ExecutablePath,
		foreground: handoff.AllowForeground,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run resolves and starts the application with args and returns the stub's
// exit code: 0 once the child has started, 1 otherwise.
func (s *Stub) Run(args string) int {
	dryRun := strings.Contains(args, DryRunFlag)
	if dryRun {
		args = strings.TrimSpace(strings.Replace(args, DryRunFlag, "", 1))
	}

	self, err := s.executable()
	if err != nil {
		return s.fail(err)
	}
	cmd, err := s.resolver.Command(self, args)
	if err != nil {
		return s.fail(err)
	}

	if dryRun {
		s.notifier.ShowInfo("Stub Test Run", cmd.Line)
		return 0
	}

	pid, err := s.runner.RunDetached(cmd)
	if err != nil {
		return s.fail(err)
	}
	s.foreground(pid)
	log.Infof("started %s (pid %d)", cmd.Line, pid)
	return 0
}

func (s *Stub) fail(err error) int {
	log.Errorf("stub failed: %v", err)
	s.notifier.ShowError("Stub Failed", "Stub: "+err.Error())
	return 1
}
