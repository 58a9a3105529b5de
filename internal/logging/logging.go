package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var std = newLogger(os.Stderr, logrus.WarnLevel)

func newLogger(w io.Writer, lvl logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(lvl)
	return l
}

// Setup reconfigures the package logger. An unknown level keeps warn.
// Entries always go to w, never to stdout unless asked.
func Setup(level string, w io.Writer) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	if w == nil {
		w = os.Stderr
	}
	std = newLogger(w, lvl)
}

func Log(level, msg string, fields map[string]any) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	std.WithFields(logrus.Fields(fields)).Log(lvl, msg)
}

func Debug(msg string, fields map[string]any) { Log("debug", msg, fields) }
func Info(msg string, fields map[string]any)  { Log("info", msg, fields) }
func Warn(msg string, fields map[string]any)  { Log("warn", msg, fields) }
func Error(msg string, fields map[string]any) { Log("error", msg, fields) }
