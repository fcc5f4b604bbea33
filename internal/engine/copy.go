package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// Creates a directory inside the container, parents included.
func (c *Container) MkdirAll(ctx context.Context, path string) error {
	return c.mustRun(ctx, "mkdir", nil, "mkdir", "-p", path)
}

// Unpacks a tar stream into a directory inside the container.
//
// The stream is piped to "tar xf - -C destDir" running in the container, so
// the destination must already exist.
func (c *Container) CopyTo(ctx context.Context, r io.Reader, destDir string) error {
	return c.mustRun(ctx, "tar extract", r, "tar", "xf", "-", "-C", destDir)
}

// Runs a command in the container and turns a non-zero exit into an error
// labeled with op and carrying the captured stderr.
func (c *Container) mustRun(ctx context.Context, op string, stdin io.Reader, args ...string) error {
	var stderr bytes.Buffer
	code, err := c.run(ctx, streams{in: stdin, err: &stderr}, nil, "", args...)
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("%w: %s exited with code %d: %s", ErrEngine, op, code, stderr.String())
	}
	return nil
}
