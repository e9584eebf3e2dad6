// Package logging is the log and debug sink handed to the plugin.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type LogLevel int

const (
	LogLevelFatal LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

func parseLogLevel(lvl LogLevel) (logrus.Level, error) {
	switch lvl {
	case LogLevelDebug:
		return logrus.DebugLevel, nil
	case LogLevelInfo:
		return logrus.InfoLevel, nil
	case LogLevelWarn:
		return logrus.WarnLevel, nil
	case LogLevelError:
		return logrus.ErrorLevel, nil
	case LogLevelFatal:
		return logrus.FatalLevel, nil
	}

	var l logrus.Level
	return l, fmt.Errorf("logging: invalid LogLevel '%d'", lvl)
}

// Logger is what plugins and the runtime log through.
type Logger interface {
	SetLogLevel(lvl LogLevel) error
	// Debugging toggles debug output on or off.
	Debugging(on bool)
	Debug(format string, v ...interface{})
	Log(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	// With returns a logger that tags every line with key=value.
	With(key string, value interface{}) Logger
}

type logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

// New creates a logger writing text lines to w at info level.
func New(w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}
	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	base.SetLevel(logrus.InfoLevel)
	return &logger{base: base, entry: logrus.NewEntry(base)}
}

func (l *logger) SetLogLevel(lvl LogLevel) error {
	lv, err := parseLogLevel(lvl)
	if err != nil {
		return err
	}
	l.base.SetLevel(lv)
	return nil
}

func (l *logger) Debugging(on bool) {
	if on {
		l.base.SetLevel(logrus.DebugLevel)
		return
	}
	l.base.SetLevel(logrus.InfoLevel)
}

func (l *logger) Debug(format string, v ...interface{}) { l.entry.Debugf(format, v...) }
func (l *logger) Log(format string, v ...interface{})   { l.entry.Infof(format, v...) }
func (l *logger) Warn(format string, v ...interface{})  { l.entry.Warnf(format, v...) }
func (l *logger) Error(format string, v ...interface{}) { l.entry.Errorf(format, v...) }

func (l *logger) With(key string, value interface{}) Logger {
	return &logger{base: l.base, entry: l.entry.WithField(key, value)}
}
