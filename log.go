package triptych

import (
	"log/slog"
	"os"
)

// logLevel is shared by every handler built from LogLevel. It starts at
// Info, so window rebuilds and settle decisions stay quiet.
var logLevel = new(slog.LevelVar)

// SetVerbose switches Debug output on or off.
func SetVerbose(v bool) {
	if v {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}
}

// Verbose reports whether SetVerbose has switched Debug output on.
func Verbose() bool {
	return logLevel.Level() <= slog.LevelDebug
}

// LogLevel exposes the shared level so callers can build handlers that
// follow SetVerbose.
func LogLevel() slog.Leveler {
	return logLevel
}

// defaultLogger is used by managers created without WithLogger.
var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
