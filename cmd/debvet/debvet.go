package main

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/debvet/debvet/internal"
	"github.com/debvet/debvet/internal/cli"
)

// Entry point for the debvet command.
//
// Sets up logging, then hands control to the CLI layer. Failures come back
// as errors already classified for an exit code; the matching code is
// logged and the process exits with it.
func main() {
	slog.SetDefault(logger())

	slog.Debug("starting",
		"version", internal.VersionString(),
		"pid", os.Getpid(),
		"cwd", workdir(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		code := cli.ExitCode(err)
		slog.Error(err.Error(), "exit_code", code)
		os.Exit(code)
	}

	slog.Debug("done", "exit_code", cli.ExitOK)
}

// Builds the process logger writing to stderr. The level comes from the
// mode layer, which folds together linker flags and the DEBVET_QUIET,
// DEBVET_DEBUG and DEBVET_VERBOSE environment variables.
func logger() *slog.Logger {
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: internal.Name,
		Level:  log.Level(internal.LogLevel()),
	})
	return slog.New(handler)
}

// Current working directory, or "(unknown)" when it cannot be read.
func workdir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return wd
}
