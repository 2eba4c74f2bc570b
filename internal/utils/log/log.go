package log

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

var defaultLogger = logrus.New()

// withSource annotates the entry with the file:line of whoever called the
// package-level helpers below.
func withSource() *logrus.Entry {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return logrus.NewEntry(defaultLogger)
	}
	slash := strings.LastIndex(file, "/")
	return defaultLogger.WithField("source", fmt.Sprintf("%s:%d", file[slash+1:], line))
}

// SetLevel sets the logging level, falling back to info on unknown input.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		defaultLogger.SetLevel(logrus.InfoLevel)
		return
	}
	defaultLogger.SetLevel(lvl)
}

func GetLevel() string {
	return defaultLogger.GetLevel().String()
}

func IsDebugEnabled() bool {
	return defaultLogger.GetLevel() == logrus.DebugLevel
}

// SetFormat sets the output format to 'json'|'text'|'nocolor'.
func SetFormat(format string) {
	switch format {
	case "json":
		defaultLogger.SetFormatter(&logrus.JSONFormatter{})
	case "nocolor":
		defaultLogger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	default:
		defaultLogger.SetFormatter(&logrus.TextFormatter{})
	}
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(out io.Writer) {
	defaultLogger.SetOutput(out)
}

func Debug(args ...interface{}) {
	withSource().Debug(args...)
}

func Debugf(msg string, args ...interface{}) {
	withSource().Debugf(msg, args...)
}

func Info(args ...interface{}) {
	withSource().Info(args...)
}

func Infof(msg string, args ...interface{}) {
	withSource().Infof(msg, args...)
}

func Warn(args ...interface{}) {
	withSource().Warn(args...)
}

func Warnf(msg string, args ...interface{}) {
	withSource().Warnf(msg, args...)
}

func Error(args ...interface{}) {
	withSource().Error(args...)
}

func Errorf(msg string, args ...interface{}) {
	withSource().Errorf(msg, args...)
}

func Fatal(args ...interface{}) {
	withSource().Fatal(args...)
}

func Fatalf(msg string, args ...interface{}) {
	withSource().Fatalf(msg, args...)
}
