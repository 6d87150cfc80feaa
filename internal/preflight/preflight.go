// Package preflight decides whether a volume has room for a bootstrap before
// anything is written to it.
package preflight

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
	log "github.com/sirupsen/logrus"

	"github.com/squirrel-labs/squirrel-setup/internal/setuperr"
)

const (
	// DefaultOverhead covers the temporary copies made during a bootstrap.
	DefaultOverhead int64 = 50 * 1000 * 1000

	// DefaultMultiplier accounts for the payload being extracted and then
	// extracted again by the updater.
	DefaultMultiplier int64 = 3

	// CompressionRatio is the worst-case ratio of compressed to
	// uncompressed size.
	CompressionRatio = 0.38
)

// FreeFunc reports the free bytes on the volume holding path.
type FreeFunc func(path string) (uint64, error)

// Policy holds the terms of the space formula.
type Policy struct {
	Overhead   int64
	Multiplier int64
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{Overhead: DefaultOverhead, Multiplier: DefaultMultiplier}
}

// Required returns overhead + payload*multiplier + payload/CompressionRatio.
func (p Policy) Required(payloadLen int64) int64 {
	if payloadLen < 0 {
		payloadLen = 0
	}
	return p.Overhead + payloadLen*p.Multiplier + int64(float64(payloadLen)/CompressionRatio)
}

// HasSufficientSpace reports whether free strictly exceeds required.
func HasSufficientSpace(free uint64, required int64) bool {
	if required < 0 {
		return true
	}
	return free > uint64(required)
}

// DiskFree returns the bytes available to the current user on the volume
// holding path.
func DiskFree(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, setuperr.Platform("query free space", fmt.Errorf("%s: %w", path, err))
	}
	return usage.Free, nil
}

// Checker runs the space check against one directory.
type Checker struct {
	Policy Policy
	Free   FreeFunc
}

// NewChecker returns a Checker using p and the real volume query.
func NewChecker(p Policy) *Checker {
	return &Checker{Policy: p, Free: DiskFree}
}

// Check fails with a KindInsufficientSpace error when the volume holding dir
// cannot take a payload of payloadLen bytes.
func (c *Checker) Check(dir string, payloadLen int64) error {
	free := c.Free
	if free == nil {
		free = DiskFree
	}
	avail, err := free(dir)
	if err != nil {
		return err
	}

	required := c.Policy.Required(payloadLen)
	log.Debugf("space check on %s: %d bytes free, %d required", dir, avail, required)
	if HasSufficientSpace(avail, required) {
		return nil
	}

	return setuperr.New(setuperr.KindInsufficientSpace, "check disk space",
		fmt.Sprintf("at least %s of free space is required on the drive holding %s, %s available",
			PrettyBytes(uint64(required)), dir, PrettyBytes(avail)))
}
