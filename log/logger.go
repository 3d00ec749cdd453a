package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	LevelDebug = 1
	LevelInfo  = 2
	LevelWarn  = 3
	LevelError = 4
	LevelFatal = 5
)

// Fields is structured context attached to a log line.
type Fields = logrus.Fields

var std = newLogger(os.Stdout)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 - 15:04:05",
	})
	return l
}

func SetLevel(level int) {
	switch {
	case level <= LevelDebug:
		std.SetLevel(logrus.DebugLevel)
	case level == LevelInfo:
		std.SetLevel(logrus.InfoLevel)
	case level == LevelWarn:
		std.SetLevel(logrus.WarnLevel)
	case level == LevelError:
		std.SetLevel(logrus.ErrorLevel)
	default:
		std.SetLevel(logrus.FatalLevel)
	}
}

// ParseLevel maps "debug", "info", "warn", "error" and "fatal" to a level.
// Unknown names give LevelInfo.
func ParseLevel(name string) int {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// SetOutput redirects all log output, mainly for tests.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// WithFields returns an entry carrying fields, e.g.
// log.WithFields(log.Fields{"auction": id}).Warnf("...").
func WithFields(fields Fields) *logrus.Entry {
	return std.WithFields(fields)
}

func Debug(a ...interface{}) {
	std.Debug(a...)
}
func Debugf(format string, a ...interface{}) {
	std.Debugf(format, a...)
}
func Info(a ...interface{}) {
	std.Info(a...)
}
func Infof(format string, a ...interface{}) {
	std.Infof(format, a...)
}

func Warn(a ...interface{}) {
	std.Warn(a...)
}
func Warnf(format string, a ...interface{}) {
	std.Warnf(format, a...)
}

func Error(a ...interface{}) {
	std.Error(a...)
}

func Errorf(format string, a ...interface{}) {
	std.Errorf(format, a...)
}

// Fatal logs and exits: the application cannot continue.
func Fatal(a ...interface{}) {
	std.Fatal(a...)
}

func Fatalf(format string, a ...interface{}) {
	std.Fatalf(format, a...)
}
