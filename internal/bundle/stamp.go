package bundle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrAlreadyStamped is returned when the template already points at a payload.
var ErrAlreadyStamped = errors.New("setup template already carries a package")

// Stamp appends the package at packagePath to the setup template at
// setupPath and records the payload's offset and length in the template's
// marker. The template is modified in place.
func Stamp(setupPath, packagePath string) (Marker, error) {
	pkg, err := os.Open(packagePath)
	if err != nil {
		return Marker{}, fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	setup, err := os.OpenFile(setupPath, os.O_RDWR, 0)
	if err != nil {
		return Marker{}, fmt.Errorf("opening setup template: %w", err)
	}
	defer func() {
		if err := setup.Close(); err != nil {
			log.Warnf("failed to close setup template: %v", err)
		}
	}()

	info, err := setup.Stat()
	if err != nil {
		return Marker{}, fmt.Errorf("stat setup template: %w", err)
	}

	existing, markerPos, err := Find(setup, info.Size())
	if err != nil {
		return Marker{}, err
	}
	if existing.IsBundle() || existing.Length != 0 {
		return existing, ErrAlreadyStamped
	}

	m := Marker{Offset: info.Size()}
	if _, err := setup.Seek(m.Offset, io.SeekStart); err != nil {
		return Marker{}, fmt.Errorf("seeking to end of template: %w", err)
	}
	m.Length, err = io.Copy(setup, pkg)
	if err != nil {
		return Marker{}, fmt.Errorf("appending package: %w", err)
	}
	if m.Length == 0 {
		return Marker{}, fmt.Errorf("package %s is empty", packagePath)
	}

	hdr := Encode(m)
	if _, err := setup.WriteAt(hdr[:], markerPos); err != nil {
		return Marker{}, fmt.Errorf("writing bundle marker: %w", err)
	}
	if err := setup.Sync(); err != nil {
		return Marker{}, fmt.Errorf("flushing setup: %w", err)
	}

	now := time.Now()
	if err := os.Chtimes(setupPath, now, now); err != nil {
		log.Debugf("failed to touch %s: %v", setupPath, err)
	}

	verify, _, err := Find(setup, m.End())
	if err != nil {
		return Marker{}, fmt.Errorf("verifying stamped marker: %w", err)
	}
	if verify != m {
		return Marker{}, fmt.Errorf("stamped marker mismatch: wrote %+v, read %+v", m, verify)
	}

	log.Infof("stamped %s with package at offset %d (%d bytes)", setupPath, m.Offset, m.Length)
	return m, nil
}
