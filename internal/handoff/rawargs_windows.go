package handoff

import "golang.org/x/sys/windows"

// RawArgs returns the process command line with the program name removed,
// exactly as the parent passed it.
func RawArgs() string {
	return TrimProgramName(windows.UTF16PtrToString(windows.GetCommandLine()))
}
