package logger

import (
	"log/slog"
	"strings"
)

// Config describes the process-wide logger
type Config struct {
	Level       string
	Format      string
	Service     string
	Component   string // "server" or "session"; omitted when empty
	Version     string
	Environment string
	AddSource   bool
}

// ParseLevel maps a level name to slog. Unknown names report false.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case LogLevelDebug:
		return slog.LevelDebug, true
	case LogLevelInfo, "":
		return slog.LevelInfo, true
	case LogLevelWarn, LogLevelWarning:
		return slog.LevelWarn, true
	case LogLevelError:
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// LogLevel returns the configured level, info when unrecognised.
func (c Config) LogLevel() slog.Level {
	l, _ := ParseLevel(c.Level)
	return l
}

func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

// BaseAttributes are attached to every record
func (c Config) BaseAttributes() []slog.Attr {
	service := c.Service
	if service == "" {
		service = DefaultServiceName
	}
	version := c.Version
	if version == "" {
		version = DefaultVersion
	}
	attrs := []slog.Attr{
		slog.String(AttrKeyService, service),
		slog.String(AttrKeyVersion, version),
	}
	if c.Component != "" {
		attrs = append(attrs, slog.String(AttrKeyComponent, c.Component))
	}
	if c.Environment != "" {
		attrs = append(attrs, slog.String(AttrKeyEnvironment, c.Environment))
	}
	return attrs
}
