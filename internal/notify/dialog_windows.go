package notify

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// Dialog shows errors and information in modal message boxes.
type Dialog struct{}

func (Dialog) ShowError(title, msg string) {
	log.Errorf("%s: %s", title, msg)
	messageBox(title, msg, windows.MB_OK|windows.MB_ICONERROR)
}

func (Dialog) ShowInfo(title, msg string) {
	log.Infof("%s: %s", title, msg)
	messageBox(title, msg, windows.MB_OK|windows.MB_ICONINFORMATION)
}

func (Dialog) ShowProgress(msg string) {
	log.Info(msg)
}

func messageBox(title, msg string, style uint32) {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return
	}
	m, err := windows.UTF16PtrFromString(msg)
	if err != nil {
		return
	}
	if _, err := windows.MessageBox(0, m, t, style); err != nil {
		log.Warnf("failed to show dialog: %v", err)
	}
}

// Default returns the notifier for this platform: a message box.
func Default() Notifier {
	return Dialog{}
}
