//go:build windows

package platform

import (
	"golang.org/x/sys/windows"
)

// IsElevated reports whether the current process runs with a full
// administrator token.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
