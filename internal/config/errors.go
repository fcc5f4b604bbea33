package config

import "errors"

var (
	ErrConfig     = errors.New("configuration error")
	ErrNoPackages = errors.New("no package sources")
)
