//go:build !windows

package handoff

import "os"

// RawArgs rebuilds the argument tail from os.Args, since the original
// command line string is not kept on this platform.
func RawArgs() string {
	return BuildCommandLine(os.Args[1:]...)
}
