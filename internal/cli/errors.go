package cli

import "errors"

var (
	ErrBadArgument = errors.New("bad argument")
	ErrInterrupted = errors.New("interrupted")
)
