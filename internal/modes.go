package internal

import (
	"log/slog"
	"os"
	"strconv"
)

// Linker-settable defaults for the logging modes. The matching DEBVET_*
// environment variables override them at startup; the command line carries
// no verbosity flags, so these are the only switches.
var (
	rawQuiet   = "false"
	rawDebug   = "false"
	rawVerbose = "false"
)

var (
	quietMode   bool
	debugMode   bool
	verboseMode bool
)

func init() {
	quietMode = modeEnabled(rawQuiet, "DEBVET_QUIET")
	debugMode = modeEnabled(rawDebug, "DEBVET_DEBUG")
	verboseMode = modeEnabled(rawVerbose, "DEBVET_VERBOSE")
}

// Resolves one logging mode from its linker default and environment
// override. Values that do not parse as booleans are ignored.
func modeEnabled(raw, env string) bool {
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		enabled = false
	}
	if v, err := strconv.ParseBool(os.Getenv(env)); err == nil {
		enabled = v
	}
	return enabled
}

// Reports whether quiet mode is on.
func IsQuiet() bool {
	return quietMode
}

// Reports whether debug mode is on.
func IsDebug() bool {
	return debugMode
}

// Reports whether verbose logging is on.
func IsVerbose() bool {
	return verboseMode
}

// Effective log level for the current modes. Debug and verbose outrank
// quiet, and local builds always log at debug.
func LogLevel() slog.Level {
	switch {
	case IsDebug() || IsVerbose() || IsLocal():
		return slog.LevelDebug
	case IsQuiet():
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
