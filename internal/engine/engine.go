package engine

import (
	"context"
	"fmt"
	"log/slog"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/errdefs"
	"github.com/containerd/platforms"
)

const (

	// Snapshotter backing container filesystems. fuse-overlayfs gives
	// overlay semantics without mount(2), so no root privileges are needed
	// and debvet can talk to a rootless containerd.
	snapshotter = "fuse-overlayfs"

	// Shim used to run containers.
	ociRuntime = "io.containerd.runc.v2"
)

// Front door to containerd: image operations plus container creation, all
// scoped to one namespace and one platform.
type Engine struct {
	client   *containerd.Client
	platform string // OCI platform applied to every image and container operation.
}

// Connects to the containerd socket at address.
//
// Everything the engine does happens inside the given namespace, keeping
// debvet's images and containers apart from whatever else lives on the
// daemon. The platform is parsed up front so a bad value fails here rather
// than somewhere mid-run. Callers own the returned engine and must Close it.
func Connect(address, namespace, platform string) (*Engine, error) {
	if _, err := platforms.Parse(platform); err != nil {
		return nil, fmt.Errorf("%w: platform %q: %w", ErrEngine, platform, err)
	}

	client, err := containerd.New(address, containerd.WithDefaultNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	return &Engine{client: client, platform: platform}, nil
}

// Releases the connection to containerd.
func (e *Engine) Close() error {
	return e.client.Close()
}

// Reports whether the image store holds a record under ref.
func (e *Engine) HasImage(ctx context.Context, ref string) (bool, error) {
	_, err := e.client.ImageService().Get(ctx, ref)
	if errdefs.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return true, nil
}

// Returns the image under ref, pulling it first when the store has none.
//
// Pulls fetch and unpack only the engine platform. An image already present
// is unpacked again before use; that is cheap and repairs snapshots that
// were garbage collected since the image was first pulled.
func (e *Engine) EnsureImage(ctx context.Context, ref string) (containerd.Image, error) {
	ok, err := e.HasImage(ctx, ref)
	if err != nil {
		return nil, err
	}

	if ok {
		image, err := e.platformImage(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEngine, err)
		}
		if err := image.Unpack(ctx, snapshotter); err != nil {
			return nil, fmt.Errorf("%w: unpack %s: %w", ErrEngine, ref, err)
		}
		return image, nil
	}

	p, err := platforms.Parse(e.platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	slog.Info("pulling image", "ref", ref, "platform", e.platform)

	image, err := e.client.Pull(ctx, ref,
		containerd.WithPlatformMatcher(platforms.Only(p)),
		containerd.WithPullUnpack,
		containerd.WithPullSnapshotter(snapshotter),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: pull %s: %w", ErrEngine, ref, err)
	}
	return image, nil
}

// Fetches an image record and narrows it to the engine platform.
//
// A multi-platform image carries one manifest per architecture; pinning the
// platform here means every later operation on the handle works against the
// right one.
func (e *Engine) platformImage(ctx context.Context, ref string) (containerd.Image, error) {
	p, err := platforms.Parse(e.platform)
	if err != nil {
		return nil, err
	}

	record, err := e.client.ImageService().Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	return containerd.NewImageWithPlatform(e.client, record, platforms.Only(p)), nil
}

// Deletes an image along with every container created from it.
//
// Dependent containers are found by filtering containerd's records on their
// image field. Their tasks are killed before container and snapshot go. A
// ref that matches nothing is fine, which lets teardown run unconditionally.
func (e *Engine) RemoveImage(ctx context.Context, ref string) error {
	ctrs, err := e.client.Containers(ctx, fmt.Sprintf("image==%s", ref))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	for _, ctr := range ctrs {
		if task, err := ctr.Task(ctx, nil); err == nil {
			killTask(ctx, task)
		}
		if err := ctr.Delete(ctx, containerd.WithSnapshotCleanup); err != nil && !errdefs.IsNotFound(err) {
			return fmt.Errorf("%w: %w", ErrEngine, err)
		}
	}

	if err := e.client.ImageService().Delete(ctx, ref); err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	slog.Debug("image removed", "ref", ref)
	return nil
}

// Creates a container from an image reference and brings its task up.
//
// A leftover container under the same ID is torn down first. The new one
// runs detached with no IO attached, so it survives this process and stays
// available for exec-driven work and hands-on inspection.
func (e *Engine) NewContainer(ctx context.Context, id, ref string) (*Container, error) {
	c := &Container{client: e.client, id: id, platform: e.platform}
	c.Destroy(ctx)

	image, err := e.platformImage(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	ctr, err := c.create(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	if err := c.startTask(ctx, ctr); err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	slog.Debug("container started", "id", id, "image", ref)

	return c, nil
}

// Hands out a handle for a container that may or may not exist.
//
// Nothing is looked up here; the handle resolves the container on each
// operation, so Status on a missing container reports absence instead of
// failing.
func (e *Engine) Container(id string) *Container {
	return &Container{client: e.client, id: id, platform: e.platform}
}
