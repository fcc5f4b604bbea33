package verify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/debvet/debvet/internal/engine"
)

const (

	// Directory inside the build container that receives the staged packages.
	packageDir = "/opt/debvet/packages"

	// Suffix appended to the container name to form the build container ID.
	buildSuffix = "-build"
)

// Holds shared state for a single verification run.
type verifier struct {
	eng           *engine.Engine // Container engine for image and container operations.
	baseImage     string         // Image the verification image is built from.
	imageTag      string         // Reference the verification image is stored under.
	containerName string         // ID of the detached verification container.
	namespace     string         // Containerd namespace, echoed in the inspection hint.
	packages      []string       // Staged package files, in staging order.
	rebuild       bool           // Discard the previous image and container first.
}

// Creates a new [verifier] from the given options.
func newVerifier(eng *engine.Engine, opts Options) *verifier {
	return &verifier{
		eng:           eng,
		baseImage:     opts.BaseImage,
		imageTag:      opts.ImageTag,
		containerName: opts.ContainerName,
		namespace:     opts.Namespace,
		packages:      opts.Packages,
		rebuild:       opts.Rebuild,
	}
}

// Runs the pipeline end-to-end.
//
// Steps run in fixed order: teardown of the previous state when
// rebuilding, building the verification image unless one is already
// present, then starting the detached verification container from it.
func (v *verifier) run(ctx context.Context) error {
	if v.rebuild {
		if err := v.teardown(ctx); err != nil {
			return err
		}
	}

	if err := v.ensureImage(ctx); err != nil {
		return err
	}

	return v.start(ctx)
}

// Destroys the previous verification container and image.
//
// Absent resources are not an error; a rebuild on a clean system behaves
// like a first run.
func (v *verifier) teardown(ctx context.Context) error {
	slog.Info("discarding previous build", "image", v.imageTag, "container", v.containerName)

	v.eng.Container(v.containerName).Destroy(ctx)

	if err := v.eng.RemoveImage(ctx, v.imageTag); err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}

	return nil
}

// Builds the verification image unless one is already present.
//
// The build starts a container from the base image, copies the staged
// packages into it, installs them, and commits the container's filesystem
// under the image tag. The build container is destroyed when the build
// finishes, whether it succeeded or not.
func (v *verifier) ensureImage(ctx context.Context) error {
	ok, err := v.eng.HasImage(ctx, v.imageTag)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}
	if ok {
		slog.Info("reusing verification image", "image", v.imageTag)
		return nil
	}

	slog.Info("building verification image", "image", v.imageTag, "base", v.baseImage)

	if _, err := v.eng.EnsureImage(ctx, v.baseImage); err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}

	ctr, err := v.eng.NewContainer(ctx, v.containerName+buildSuffix, v.baseImage)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}
	defer ctr.Destroy(ctx)

	if err := v.copyPackages(ctx, ctr); err != nil {
		return err
	}

	if err := v.install(ctx, ctr); err != nil {
		return err
	}

	if err := ctr.Stop(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}

	if err := ctr.Commit(ctx, v.imageTag); err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}

	slog.Info("verification image built", "image", v.imageTag)
	return nil
}

// Starts the detached verification container and reports how to reach it.
//
// A stale verification container from an earlier run is replaced. The
// container outlives the process; stopping it is left to the operator.
func (v *verifier) start(ctx context.Context) error {
	slog.Info("starting verification container", "container", v.containerName, "image", v.imageTag)

	ctr, err := v.eng.NewContainer(ctx, v.containerName, v.imageTag)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}

	status, err := ctr.Status(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}
	if status != engine.StatusRunning {
		return fmt.Errorf("%w: container %s is %s after start", ErrVerify, v.containerName, status)
	}

	slog.Info("verification container running", "container", v.containerName)
	fmt.Printf("open a shell with: ctr -n %s tasks exec --exec-id inspect -t %s /bin/bash\n",
		v.namespace, v.containerName)

	return nil
}
