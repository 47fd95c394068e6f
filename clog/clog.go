// Package clog provides the leveled logging facade used throughout the
// engine. Components never import a concrete logging backend directly;
// they hold a Clog and call its level methods, so the backend can be
// swapped or silenced without touching call sites.
package clog

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// LogProvider RFC5424 log message levels, collapsed to the five this
// engine distinguishes: Critical, Error, Warn, Info, Debug.
type LogProvider interface {
	Critical(format string, v ...interface{})
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Clog is a cheap-to-copy logging handle backed by a LogProvider, gated
// by an atomic enable flag so hot paths (parser loops, OIA polling) can
// skip formatting when output is disabled.
type Clog struct {
	provider LogProvider
	// has is 1 when log output is enabled, 0 when disabled.
	has uint32
}

// NewLogger creates a Clog backed by the default logrus provider, tagged
// with component in every emitted line, enabled by default.
func NewLogger(component string) Clog {
	base := logrus.New()
	return Clog{
		provider: logrusProvider{base.WithField("component", component)},
		has:      1,
	}
}

// NewLoggerWithLevel is NewLogger with the logrus level parsed from
// level (logrus's own names: "debug", "info", "warn", "error", ...).
// An empty level leaves logrus at its default (Info).
func NewLoggerWithLevel(component, level string) (Clog, error) {
	base := logrus.New()
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return Clog{}, err
		}
		base.SetLevel(parsed)
	}
	return Clog{
		provider: logrusProvider{base.WithField("component", component)},
		has:      1,
	}, nil
}

// LogMode enables or disables log output.
func (sf *Clog) LogMode(enable bool) {
	if enable {
		atomic.StoreUint32(&sf.has, 1)
	} else {
		atomic.StoreUint32(&sf.has, 0)
	}
}

// SetLogProvider replaces the backend. A nil provider is ignored.
func (sf *Clog) SetLogProvider(p LogProvider) {
	if p != nil {
		sf.provider = p
	}
}

// Critical logs a CRITICAL level message.
func (sf Clog) Critical(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.has) == 1 {
		sf.provider.Critical(format, v...)
	}
}

// Error logs an ERROR level message.
func (sf Clog) Error(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.has) == 1 {
		sf.provider.Error(format, v...)
	}
}

// Warn logs a WARN level message.
func (sf Clog) Warn(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.has) == 1 {
		sf.provider.Warn(format, v...)
	}
}

// Info logs an INFO level message.
func (sf Clog) Info(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.has) == 1 {
		sf.provider.Info(format, v...)
	}
}

// Debug logs a DEBUG level message.
func (sf Clog) Debug(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.has) == 1 {
		sf.provider.Debug(format, v...)
	}
}

// logrusProvider adapts a *logrus.Entry to LogProvider. Critical does not
// call os.Exit the way logrus.Fatal would; a protocol engine must keep
// running after a structural codepage error is logged.
type logrusProvider struct {
	entry *logrus.Entry
}

var _ LogProvider = logrusProvider{}

func (sf logrusProvider) Critical(format string, v ...interface{}) {
	sf.entry.Errorf("[CRIT] "+format, v...)
}

func (sf logrusProvider) Error(format string, v ...interface{}) {
	sf.entry.Errorf(format, v...)
}

func (sf logrusProvider) Warn(format string, v ...interface{}) {
	sf.entry.Warnf(format, v...)
}

func (sf logrusProvider) Info(format string, v ...interface{}) {
	sf.entry.Infof(format, v...)
}

func (sf logrusProvider) Debug(format string, v ...interface{}) {
	sf.entry.Debugf(format, v...)
}
