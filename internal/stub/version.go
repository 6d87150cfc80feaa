package stub

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrNoVersion is returned when no install directory carries a parseable
// version.
var ErrNoVersion = errors.New("no installed version found")

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}

// LatestVersionDir returns the directory under root named prefix+<version>
// with the highest semantic version. Directories whose suffix does not parse
// are skipped. When two names parse to equal versions the first in name
// order wins.
func LatestVersionDir(fs afero.Fs, root, prefix string) (string, *semver.Version, error) {
	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return "", nil, fmt.Errorf("listing %s: %w", root, err)
	}

	var (
		best    string
		bestVer *semver.Version
	)
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		v, err := parseSemver(strings.TrimPrefix(e.Name(), prefix))
		if err != nil {
			log.Debugf("skipping %s: %v", e.Name(), err)
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best, bestVer = e.Name(), v
		}
	}
	if bestVer == nil {
		return "", nil, fmt.Errorf("%w in %s (looked for %s<version>)", ErrNoVersion, root, prefix)
	}
	return filepath.Join(root, best), bestVer, nil
}
