//go:build !windows

package platform

// IsElevated is always false off Windows; there is no UAC to avoid.
func IsElevated() bool {
	return false
}
