package handoff

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"

	"github.com/squirrel-labs/squirrel-setup/internal/setuperr"
)

// ExitCodeUnknown is returned by RunAndWait when the child's exit code
// could not be retrieved.
const ExitCodeUnknown = -9

// Command is a process to start.
type Command struct {
	// Line is the full command line, program first.
	Line string
	// Dir is the working directory; empty inherits ours.
	Dir string
}

func (c Command) String() string { return c.Line }

// Runner starts processes.
type Runner interface {
	// RunAndWait starts c and blocks until it exits, returning its exit code.
	// There is no timeout.
	RunAndWait(c Command) (int, error)
	// RunDetached starts c and returns its pid without waiting.
	RunDetached(c Command) (int, error)
}

// ExecRunner is the Runner backed by os/exec. Children inherit the standard
// streams and console of the current process.
type ExecRunner struct{}

// NewRunner returns the default Runner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

func (ExecRunner) RunAndWait(c Command) (int, error) {
	cmd, err := newCmd(c)
	if err != nil {
		return ExitCodeUnknown, err
	}
	log.Infof("running %s", c.Line)
	if err := cmd.Start(); err != nil {
		return ExitCodeUnknown, launchError(c, err)
	}

	err = cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	log.Warnf("could not retrieve exit code of %s: %v", c.Line, err)
	return ExitCodeUnknown, nil
}

func (ExecRunner) RunDetached(c Command) (int, error) {
	cmd, err := newCmd(c)
	if err != nil {
		return 0, err
	}
	setDetachedProcAttr(cmd)
	log.Infof("starting %s", c.Line)
	if err := cmd.Start(); err != nil {
		return 0, launchError(c, err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		log.Warnf("failed to release process %d: %v", pid, err)
	}
	return pid, nil
}

// Run waits for c and turns a non-zero exit code into a KindNonZeroExit
// error.
func Run(r Runner, c Command) error {
	code, err := r.RunAndWait(c)
	if err != nil {
		return err
	}
	if code != 0 {
		return setuperr.NonZeroExit("run "+programName(c.Line), code)
	}
	return nil
}

func newCmd(c Command) (*exec.Cmd, error) {
	argv := SplitCommandLine(c.Line)
	if len(argv) == 0 {
		return nil, setuperr.New(setuperr.KindProcessLaunch, "start process", "empty command line")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	setCmdLine(cmd, c.Line)
	cmd.Dir = c.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

func launchError(c Command, err error) error {
	return setuperr.Launch("start "+programName(c.Line), fmt.Sprintf("unable to start process %s", c.Line), err)
}

func programName(line string) string {
	if argv := SplitCommandLine(line); len(argv) > 0 {
		return argv[0]
	}
	return line
}
