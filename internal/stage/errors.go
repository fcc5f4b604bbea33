package stage

import "errors"

var (
	ErrMissingDirectory = errors.New("missing directory")
	ErrMissingFile      = errors.New("missing package file")
	ErrTransfer         = errors.New("transfer failed")
	ErrBadURL           = errors.New("unusable package URL")
)
