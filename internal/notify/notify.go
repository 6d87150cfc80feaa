// Package notify reports progress and failures to the person running setup.
package notify

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Notifier is the only UI the bootstrap path needs.
type Notifier interface {
	// ShowError displays msg and blocks until it is acknowledged.
	ShowError(title, msg string)
	// ShowInfo displays an informational msg and blocks until it is
	// acknowledged.
	ShowInfo(title, msg string)
	// ShowProgress reports a step in progress; it must not block.
	ShowProgress(msg string)
}

// Console writes notifications to a stream, stderr by default.
type Console struct {
	W io.Writer
}

// NewConsole returns a Console writing to stderr.
func NewConsole() *Console {
	return &Console{W: os.Stderr}
}

func (c *Console) ShowError(title, msg string) {
	log.Errorf("%s: %s", title, msg)
	fmt.Fprintf(c.writer(), "%s: %s\n", title, msg)
}

func (c *Console) ShowInfo(title, msg string) {
	log.Infof("%s: %s", title, msg)
	fmt.Fprintf(c.writer(), "%s: %s\n", title, msg)
}

func (c *Console) ShowProgress(msg string) {
	log.Info(msg)
}

func (c *Console) writer() io.Writer {
	if c.W == nil {
		return os.Stderr
	}
	return c.W
}

// Recorder keeps every notification in memory.
type Recorder struct {
	Errors   []string
	Infos    []string
	Progress []string
}

func (r *Recorder) ShowError(title, msg string) {
	r.Errors = append(r.Errors, title+": "+msg)
}

func (r *Recorder) ShowInfo(title, msg string) {
	r.Infos = append(r.Infos, title+": "+msg)
}

func (r *Recorder) ShowProgress(msg string) {
	r.Progress = append(r.Progress, msg)
}
