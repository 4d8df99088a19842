package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// ParseLevel maps a config string onto a level. "verbose" is accepted as an
// alias for info; anything unknown yields WarnLevel.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "info", "verbose":
		return InfoLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	}
	return WarnLevel
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

type Options struct {
	Level   LogLevel
	Service bool
	NoColor bool
}

// Logger writes component-tagged messages through zerolog. Components pass
// their name as the first argument, which ends up in the "component" field.
type Logger struct {
	zl zerolog.Logger
}

// New builds a console logger writing to w.
func New(w io.Writer, opts Options) Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    opts.NoColor,
	}
	if opts.Service {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}
	zl := zerolog.New(output).Level(zerolog.Level(opts.Level)).With().Timestamp().Logger()
	return Logger{zl: zl}
}

// Nop discards everything.
func Nop() Logger { return Logger{zl: zerolog.Nop()} }

var std = Nop()

// Init installs the process-wide logger on stdout and returns it.
func Init(level LogLevel, isService bool) Logger {
	std = New(os.Stdout, Options{Level: level, Service: isService, NoColor: isService})
	SetLogLevel(level)
	return std
}

// Get returns the logger installed by Init.
func Get() Logger { return std }

func (l Logger) Debugf(component string, format string, args ...interface{}) {
	l.zl.Debug().Str("component", component).Msg(fmt.Sprintf(format, args...))
}

func (l Logger) Infof(component string, format string, args ...interface{}) {
	l.zl.Info().Str("component", component).Msg(fmt.Sprintf(format, args...))
}

func (l Logger) Warnf(component string, format string, args ...interface{}) {
	l.zl.Warn().Str("component", component).Msg(fmt.Sprintf(format, args...))
}

func (l Logger) Errorf(component string, format string, args ...interface{}) {
	l.zl.Error().Str("component", component).Msg(fmt.Sprintf(format, args...))
}

// Err logs err with a message, for call sites that want the error as a field.
func (l Logger) Err(component string, err error, msg string) {
	l.zl.Error().Str("component", component).Err(err).Msg(msg)
}

// Zerolog exposes the underlying logger for structured fields.
func (l Logger) Zerolog() *zerolog.Logger { return &l.zl }

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}
