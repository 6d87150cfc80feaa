package handoff

import (
	"golang.org/x/sys/windows"

	log "github.com/sirupsen/logrus"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procAllowSetForegroundWindow = user32.NewProc("AllowSetForegroundWindow")
)

// AllowForeground lets process pid bring its first window to the front.
func AllowForeground(pid int) {
	if err := procAllowSetForegroundWindow.Find(); err != nil {
		log.Debugf("AllowSetForegroundWindow unavailable: %v", err)
		return
	}
	r, _, err := procAllowSetForegroundWindow.Call(uintptr(uint32(pid)))
	if r == 0 {
		log.Debugf("AllowSetForegroundWindow(%d) failed: %v", pid, err)
	}
}
