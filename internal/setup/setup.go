package setup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/squirrel-labs/squirrel-setup/internal/archive"
	"github.com/squirrel-labs/squirrel-setup/internal/branding"
	"github.com/squirrel-labs/squirrel-setup/internal/bundle"
	"github.com/squirrel-labs/squirrel-setup/internal/handoff"
	"github.com/squirrel-labs/squirrel-setup/internal/notify"
	"github.com/squirrel-labs/squirrel-setup/internal/platform"
	"github.com/squirrel-labs/squirrel-setup/internal/preflight"
	"github.com/squirrel-labs/squirrel-setup/internal/selfmap"
	"github.com/squirrel-labs/squirrel-setup/internal/setuperr"
	"github.com/squirrel-labs/squirrel-setup/internal/tempfile"
)

// DeelevatedFlag is appended when setup relaunches itself without admin
// rights. It is stripped before arguments are forwarded.
const DeelevatedFlag = "--squirrel-deelevated"

// Mapper maps the host executable.
type Mapper func() (*selfmap.Image, error)

// Locator reads the bundle marker for a mapped host.
type Locator func(img *selfmap.Image) (bundle.Marker, error)

// EmbeddedLocator returns the marker compiled into the running binary.
func EmbeddedLocator(*selfmap.Image) (bundle.Marker, error) {
	return bundle.Embedded(), nil
}

// ScanLocator searches the mapped image for the marker signature. It serves
// hosts other than the running binary.
func ScanLocator(img *selfmap.Image) (bundle.Marker, error) {
	m, _, err := bundle.Find(img, img.Len())
	if errors.Is(err, bundle.ErrMarkerNotFound) {
		return bundle.Marker{}, nil
	}
	return m, err
}

// Bootstrapper drives one setup run.
type Bootstrapper struct {
	mapper      Mapper
	locator     Locator
	runner      handoff.Runner
	notifier    notify.Notifier
	space       *preflight.Checker
	fs          afero.Fs
	tempDir     string
	policy      Policy
	updaterName string
	foldCase    bool
	elevated    func() bool
	onVerified  func(dir string)

	state State
	temps *tempfile.Set
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithMapper replaces how the host executable is mapped.
func WithMapper(m Mapper) Option {
	return func(b *Bootstrapper) { b.mapper = m }
}

// WithHost maps the file at path instead of the running executable and
// locates its marker by scanning.
func WithHost(path string) Option {
	return func(b *Bootstrapper) {
		b.mapper = func() (*selfmap.Image, error) { return selfmap.MapFile(path) }
		b.locator = ScanLocator
	}
}

// WithLocator replaces how the marker is read.
func WithLocator(l Locator) Option {
	return func(b *Bootstrapper) { b.locator = l }
}

// WithRunner replaces the process runner.
func WithRunner(r handoff.Runner) Option {
	return func(b *Bootstrapper) { b.runner = r }
}

// WithNotifier replaces the user notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(b *Bootstrapper) { b.notifier = n }
}

// WithSpaceChecker replaces the disk-space check.
func WithSpaceChecker(c *preflight.Checker) Option {
	return func(b *Bootstrapper) { b.space = c }
}

// WithFs extracts onto fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(b *Bootstrapper) { b.fs = fs }
}

// WithTempDir sets the scratch directory override. An unusable directory
// falls back to the OS default.
func WithTempDir(dir string) Option {
	return func(b *Bootstrapper) { b.tempDir = dir }
}

// WithPolicy selects the extraction policy.
func WithPolicy(p Policy) Option {
	return func(b *Bootstrapper) { b.policy = p }
}

// WithUpdaterName sets the file name suffix that identifies the updater in
// the package. With foldCase set the match ignores case.
func WithUpdaterName(name string, foldCase bool) Option {
	return func(b *Bootstrapper) {
		b.updaterName = name
		b.foldCase = foldCase
	}
}

// WithElevationCheck replaces the admin-token check.
func WithElevationCheck(f func() bool) Option {
	return func(b *Bootstrapper) { b.elevated = f }
}

// WithSpaceVerified registers f to run once the disk-space check on dir has
// passed. Nothing is written to dir before that point except the
// writability probe.
func WithSpaceVerified(f func(dir string)) Option {
	return func(b *Bootstrapper) { b.onVerified = f }
}

// New returns a Bootstrapper for the running executable.
func New(opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		mapper:      selfmap.MapSelf,
		locator:     EmbeddedLocator,
		runner:      handoff.NewRunner(),
		notifier:    notify.Default(),
		space:       preflight.NewChecker(preflight.DefaultPolicy()),
		fs:          afero.NewOsFs(),
		tempDir:     tempfile.EnvOverride(),
		policy:      PolicyUpdaterAndPackage,
		updaterName: branding.UpdaterName(),
		elevated:    platform.IsElevated,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the last state reached.
func (b *Bootstrapper) State() State { return b.state }

// TempPaths returns the scratch paths of the current run that have not been
// cleaned up yet.
func (b *Bootstrapper) TempPaths() []string {
	if b.temps == nil {
		return nil
	}
	return b.temps.Paths()
}

func (b *Bootstrapper) advance(s State) {
	log.Infof("setup: %s -> %s", b.state, s)
	b.state = s
}

// Run performs a bootstrap forwarding args (a raw argument tail) to the
// updater. Failures are shown through the notifier. The returned exit code
// is 0 for every handled outcome.
func (b *Bootstrapper) Run(args string) int {
	if b.elevated() && !strings.Contains(args, DeelevatedFlag) {
		err := b.relaunchDeelevated(args)
		if err == nil {
			return 0
		}
		log.Warnf("could not drop elevation, continuing elevated: %v", err)
	}
	args = stripFlag(args, DeelevatedFlag)

	if err := b.Bootstrap(args); err != nil {
		log.Errorf("setup failed in state %s: %v", b.state, err)
		b.notifier.ShowError(errorTitle(), Message(err))
	}
	return 0
}

// Bootstrap runs every step and returns the first failure. Temp files are
// removed and the image unmapped before it returns.
func (b *Bootstrapper) Bootstrap(args string) (err error) {
	b.state = StateStart
	b.temps = nil

	img, err := b.mapper()
	if err != nil {
		b.advance(StateCleanedUp)
		return err
	}
	b.advance(StateMapped)
	defer func() {
		if cerr := img.Close(); cerr != nil {
			log.Warnf("failed to unmap %s: %v", img.Path(), cerr)
		}
		b.advance(StateCleanedUp)
	}()

	marker, err := b.locator(img)
	if err != nil {
		return setuperr.Wrap(setuperr.KindNoEmbeddedPackage, "read bundle marker", err)
	}
	if !marker.IsBundle() {
		return setuperr.New(setuperr.KindNoEmbeddedPackage, "read bundle marker",
			"the setup program does not contain a package")
	}
	payload, err := img.Slice(marker.Offset, marker.Length)
	if err != nil {
		return setuperr.Wrap(setuperr.KindCorruptArchive, "locate package", err)
	}
	log.Debugf("package at offset %d, %d bytes", marker.Offset, marker.Length)
	b.advance(StatePayloadLocated)

	dir, err := tempfile.Dir(b.fs, b.tempDir)
	if err != nil {
		return err
	}
	b.notifier.ShowProgress("Checking available disk space")
	if err := b.space.Check(dir, marker.Length); err != nil {
		return err
	}
	b.advance(StateSpaceVerified)
	if b.onVerified != nil {
		b.onVerified(dir)
	}

	b.temps = tempfile.New(dir, tempfile.WithFs(b.fs))
	defer func() {
		if cerr := b.temps.Cleanup(); cerr != nil {
			log.Warnf("failed to clean up temp files: %v", cerr)
		}
	}()

	b.notifier.ShowProgress("Extracting installer")
	ar, err := archive.Open(payload, payload.Size(), archive.WithFs(b.fs))
	if err != nil {
		return err
	}
	cmd, err := b.extract(ar, payload, img.Path(), marker, args)
	if err != nil {
		return err
	}
	b.advance(StateExtracted)

	b.notifier.ShowProgress("Starting installer")
	err = handoff.Run(b.runner, cmd)
	b.advance(StateLaunched)
	return err
}

// extract writes what the policy needs and returns the updater command.
func (b *Bootstrapper) extract(ar *archive.Reader, payload *selfmap.View, host string, m bundle.Marker, args string) (handoff.Command, error) {
	entry, err := ar.Find(archive.NameHasSuffix(b.updaterName, b.foldCase))
	if errors.Is(err, archive.ErrNotFound) {
		return handoff.Command{}, setuperr.New(setuperr.KindExtraction, "find updater",
			fmt.Sprintf("the package does not contain a file named %s", b.updaterName))
	}
	if err != nil {
		return handoff.Command{}, err
	}

	var line handoff.Builder
	if b.policy == PolicyExtractAll {
		dir, err := b.temps.MkdirTemp()
		if err != nil {
			return handoff.Command{}, err
		}
		if _, err := ar.ExtractAll(dir); err != nil {
			return handoff.Command{}, err
		}
		updater := filepath.Join(dir, filepath.FromSlash(entry.Name))
		if err := b.markExecutable(updater); err != nil {
			return handoff.Command{}, err
		}
		line.Path(updater).Arg("--install").Arg(".").Raw(args)
		return handoff.Command{Line: line.String(), Dir: dir}, nil
	}

	updater, err := b.temps.Path(".exe")
	if err != nil {
		return handoff.Command{}, err
	}
	if err := ar.ExtractToFile(entry, updater); err != nil {
		return handoff.Command{}, err
	}
	if err := b.markExecutable(updater); err != nil {
		return handoff.Command{}, err
	}

	line.Path(updater).Arg("--setup")
	switch b.policy {
	case PolicyUpdaterOnly:
		line.Path(host)
	case PolicySetupOffset:
		line.Path(host).Arg("--setupOffset").Arg(strconv.FormatInt(m.Offset, 10))
	default:
		pkg, err := b.temps.Path(".nupkg")
		if err != nil {
			return handoff.Command{}, err
		}
		if err := b.writePackage(payload, pkg); err != nil {
			return handoff.Command{}, err
		}
		line.Path(pkg)
	}
	line.Raw(args)
	return handoff.Command{Line: line.String()}, nil
}

// writePackage copies the raw payload bytes to dest.
func (b *Bootstrapper) writePackage(payload *selfmap.View, dest string) error {
	f, err := b.fs.OpenFile(dest, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return setuperr.Wrap(setuperr.KindExtraction, "write package", err)
	}
	src := io.NewSectionReader(payload, 0, payload.Size())
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return setuperr.Wrap(setuperr.KindExtraction, "write package", err)
	}
	return setuperr.Wrap(setuperr.KindExtraction, "write package", f.Close())
}

func (b *Bootstrapper) markExecutable(path string) error {
	if _, ok := b.fs.(*afero.OsFs); !ok {
		return nil
	}
	return setuperr.Wrap(setuperr.KindExtraction, "mark updater executable", platform.MarkExecutable(path))
}

// relaunchDeelevated starts this executable again at basic-user trust level.
func (b *Bootstrapper) relaunchDeelevated(args string) error {
	self, err := platform.ExecutablePath()
	if err != nil {
		return err
	}
	var inner handoff.Builder
	inner.Path(self).Raw(args).Arg(DeelevatedFlag)

	var line handoff.Builder
	line.Arg("runas").Arg("/trustlevel:0x20000").Arg(inner.String())
	log.Infof("running elevated, relaunching as %s", line.String())
	_, err = b.runner.RunDetached(handoff.Command{Line: line.String()})
	return err
}

func stripFlag(args, flag string) string {
	return strings.TrimSpace(strings.Replace(args, flag, "", 1))
}

func errorTitle() string {
	if exe, err := platform.ExecutablePath(); err == nil {
		return filepath.Base(exe) + " Error"
	}
	return branding.DisplayName() + " Error"
}

// Message turns a bootstrap failure into the text shown to the user.
func Message(err error) string {
	switch setuperr.KindOf(err) {
	case setuperr.KindInsufficientSpace:
		return fmt.Sprintf("There is not enough free disk space to run setup: %v. Please free up space and try again.", err)
	case setuperr.KindCorruptArchive, setuperr.KindExtraction:
		return fmt.Sprintf("An error occurred while running setup: the installer appears to be corrupt (%v). Please download it again.", err)
	default:
		return fmt.Sprintf("An error occurred while running setup: %v. Please contact the application author.", err)
	}
}
