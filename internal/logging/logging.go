// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Console selects stderr output instead of a log file.
const Console = "console"

// InitLog parses and sets the log level and directs output to logPath. An
// empty path or "console" keeps logging on stderr; anything else is a
// rotating file.
func InitLog(logLevel string, logPath string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Errorf("Failed parsing log-level %s: %s", logLevel, err)
		return err
	}

	if logPath != "" && logPath != Console {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return err
		}
		log.SetOutput(io.Writer(&lumberjack.Logger{
			Filename:   filepath.ToSlash(logPath),
			MaxSize:    5, // MB
			MaxBackups: 3,
			MaxAge:     30, // days
			Compress:   true,
		}))
	} else {
		log.SetOutput(os.Stderr)
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: logPath != "" && logPath != Console})
	log.SetLevel(level)
	return nil
}
