package cli

import (
	"errors"

	"github.com/debvet/debvet/internal/config"
	"github.com/debvet/debvet/internal/stage"
)

// Exit codes. Every failure class has its own code in the 90s so callers
// can tell them apart; anything unclassified exits 1.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitInterrupted      = 90
	ExitBadArgument      = 91
	ExitNoPackages       = 92
	ExitMissingDirectory = 93
	ExitTransferFailed   = 94
	ExitMissingFile      = 95
)

// Maps an error to the process exit code.
//
// Classification is by sentinel, so wrapped errors resolve to the same
// code as their cause.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInterrupted):
		return ExitInterrupted
	case errors.Is(err, ErrBadArgument), errors.Is(err, stage.ErrBadURL):
		return ExitBadArgument
	case errors.Is(err, config.ErrNoPackages):
		return ExitNoPackages
	case errors.Is(err, stage.ErrMissingDirectory):
		return ExitMissingDirectory
	case errors.Is(err, stage.ErrTransfer):
		return ExitTransferFailed
	case errors.Is(err, stage.ErrMissingFile):
		return ExitMissingFile
	default:
		return ExitFailure
	}
}
