package engine

import "errors"

var (
	ErrEngine     = errors.New("engine error")
	ErrEmptyIndex = errors.New("empty image index")
)
