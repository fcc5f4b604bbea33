package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/debvet/debvet/internal/config"
	"github.com/debvet/debvet/internal/stage"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "no error",
			err:  nil,
			want: ExitOK,
		},
		{
			name: "interrupted",
			err:  ErrInterrupted,
			want: ExitInterrupted,
		},
		{
			name: "bad argument",
			err:  fmt.Errorf("%w: unknown flag %q", ErrBadArgument, "-x"),
			want: ExitBadArgument,
		},
		{
			name: "unusable URL",
			err:  fmt.Errorf("%w: ://x names no file", stage.ErrBadURL),
			want: ExitBadArgument,
		},
		{
			name: "no packages",
			err:  fmt.Errorf("%w: nothing to install", config.ErrNoPackages),
			want: ExitNoPackages,
		},
		{
			name: "missing directory",
			err:  fmt.Errorf("%w: work directory /tmp/absent", stage.ErrMissingDirectory),
			want: ExitMissingDirectory,
		},
		{
			name: "failed transfer",
			err:  fmt.Errorf("%w: https://example.com/a.deb", stage.ErrTransfer),
			want: ExitTransferFailed,
		},
		{
			name: "missing file",
			err:  fmt.Errorf("%w: a.deb", stage.ErrMissingFile),
			want: ExitMissingFile,
		},
		{
			name: "unclassified failure",
			err:  errors.New("task did not start"),
			want: ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
