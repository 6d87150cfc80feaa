// Package tempfile hands out uniquely named scratch paths for a single
// bootstrap run and removes all of them afterwards.
package tempfile

import (
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/squirrel-labs/squirrel-setup/internal/branding"
	"github.com/squirrel-labs/squirrel-setup/internal/platform"
	"github.com/squirrel-labs/squirrel-setup/internal/setuperr"
)

// EnvOverride returns the value of the temp directory override variable
// (SQUIRREL_TEMP by default).
func EnvOverride() string {
	return os.Getenv(branding.EnvVar("TEMP"))
}

// Dir picks the scratch directory. A non-empty override is used when it is
// a local, writable directory; otherwise the OS temp directory is used.
func Dir(fs afero.Fs, override string) (string, error) {
	if override != "" {
		if err := usable(fs, override); err != nil {
			log.Warnf("ignoring %s=%s: %v", branding.EnvVar("TEMP"), override, err)
		} else {
			return override, nil
		}
	}

	def := os.TempDir()
	if err := usable(fs, def); err != nil {
		return "", setuperr.Platform("locate temp directory", err)
	}
	return def, nil
}

func usable(fs afero.Fs, dir string) error {
	if platform.IsUNCPath(dir) {
		return fmt.Errorf("%s is a network path", dir)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	probe, err := afero.TempFile(fs, dir, branding.TempPrefix()+"*.probe")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	return fs.Remove(name)
}

type entry struct {
	path string
	dir  bool
}

// Set tracks every path created during one run.
type Set struct {
	fs      afero.Fs
	dir     string
	entries []entry
}

// Option configures a Set.
type Option func(*Set)

// WithFs creates and removes files on fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Set) {
		s.fs = fs
	}
}

// New returns an empty Set that creates its paths under dir.
func New(dir string, opts ...Option) *Set {
	s := &Set{fs: afero.NewOsFs(), dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory new paths are created in.
func (s *Set) Dir() string { return s.dir }

// Path reserves a new unique file name ending in ext (".exe", ".nupkg") and
// tracks it. The file exists and is empty when Path returns.
func (s *Set) Path(ext string) (string, error) {
	f, err := afero.TempFile(s.fs, s.dir, branding.TempPrefix()+"*"+ext)
	if err != nil {
		return "", setuperr.Platform("create temp file", err)
	}
	name := f.Name()
	s.Track(name)
	if err := f.Close(); err != nil {
		return name, setuperr.Platform("create temp file", err)
	}
	log.Debugf("reserved temp file %s", name)
	return name, nil
}

// MkdirTemp creates a new unique directory and tracks it; Cleanup removes
// it with everything inside.
func (s *Set) MkdirTemp() (string, error) {
	name, err := afero.TempDir(s.fs, s.dir, branding.TempPrefix())
	if err != nil {
		return "", setuperr.Platform("create temp directory", err)
	}
	s.entries = append(s.entries, entry{path: name, dir: true})
	log.Debugf("reserved temp directory %s", name)
	return name, nil
}

// Track adds a file created elsewhere to the set.
func (s *Set) Track(path string) {
	s.entries = append(s.entries, entry{path: path})
}

// Paths returns the tracked paths in creation order.
func (s *Set) Paths() []string {
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.path)
	}
	return out
}

// Cleanup removes every tracked path, newest first. Paths that are already
// gone are not an error. Every other failure is collected; the set is empty
// afterwards either way.
func (s *Set) Cleanup() error {
	var result *multierror.Error
	for _, e := range slices.Backward(s.entries) {
		var err error
		if e.dir {
			err = s.fs.RemoveAll(e.path)
		} else {
			err = s.fs.Remove(e.path)
		}
		if err != nil && !os.IsNotExist(err) {
			result = multierror.Append(result, fmt.Errorf("removing %s: %w", e.path, err))
			continue
		}
		log.Debugf("removed %s", e.path)
	}
	s.entries = nil
	return result.ErrorOrNil()
}
