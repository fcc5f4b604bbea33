package verify

import "errors"

var (
	ErrVerify  = errors.New("verification failed")
	ErrInstall = errors.New("package installation failed")
	ErrCopy    = errors.New("copy failed")
)
