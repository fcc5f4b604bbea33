package verify

import (
	"context"
	"log/slog"

	"github.com/debvet/debvet/internal/engine"
)

// Controls a verification run.
type Options struct {
	BaseImage     string   // Image the verification image is built from.
	ImageTag      string   // Reference the verification image is stored under.
	ContainerName string   // ID of the detached verification container.
	Namespace     string   // Containerd namespace, echoed in the inspection hint.
	Packages      []string // Staged package files to install, in staging order.
	Rebuild       bool     // Discard the previous image and container first.
}

// Runs the verification pipeline against the container engine.
//
// The pipeline builds a verification image by installing the staged
// packages on top of the base image, then starts a detached container
// from that image and leaves it running for hands-on inspection. A
// previously built verification image is reused; Rebuild tears down the
// image and container first so the build starts from scratch.
func Run(ctx context.Context, eng *engine.Engine, opts Options) error {
	slog.Info("verifying packages",
		"packages", len(opts.Packages),
		"image", opts.ImageTag,
		"container", opts.ContainerName,
		"rebuild", opts.Rebuild,
	)

	return newVerifier(eng, opts).run(ctx)
}
