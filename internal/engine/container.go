package engine

import (
	"context"
	"fmt"
	"log/slog"
	"syscall"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/pkg/cio"
	"github.com/containerd/containerd/v2/pkg/oci"
	"github.com/containerd/errdefs"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// State of a container as reported by Status.
type Status string

const (
	StatusRunning Status = "running" // The container's task is active.
	StatusStopped Status = "stopped" // The container exists but has no running task.
	StatusAbsent  Status = "absent"  // No container with the ID exists.
)

// Handle to one containerd-backed container.
type Container struct {
	client   *containerd.Client
	id       string // Containerd container ID.
	platform string // OCI platform string, e.g. "linux/amd64".
}

// Identifier of the container.
func (c *Container) ID() string {
	return c.id
}

// Fetches the containerd record behind this handle. Absence surfaces as an
// errdefs not-found error.
func (c *Container) load(ctx context.Context) (containerd.Container, error) {
	return c.client.LoadContainer(ctx, c.id)
}

// Reports where the container currently stands: running, stopped with its
// record intact, or absent entirely.
func (c *Container) Status(ctx context.Context) (Status, error) {
	ctr, err := c.load(ctx)
	if errdefs.IsNotFound(err) {
		return StatusAbsent, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEngine, err)
	}

	task, err := ctr.Task(ctx, nil)
	if errdefs.IsNotFound(err) {
		return StatusStopped, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEngine, err)
	}

	st, err := task.Status(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEngine, err)
	}
	if st.Status == containerd.Running {
		return StatusRunning, nil
	}
	return StatusStopped, nil
}

// Halts the container's task while keeping the container record around.
//
// The task is killed outright rather than signaled to shut down; nothing in
// the container holds state worth a graceful exit. Stopping a container that
// is already stopped, or that does not exist, is a no-op.
func (c *Container) Stop(ctx context.Context) error {
	ctr, err := c.load(ctx)
	if errdefs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	task, err := ctr.Task(ctx, nil)
	if errdefs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	if err := killTask(ctx, task); err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return nil
}

// Tears the container down completely: task, record, and snapshot.
//
// Failures are logged as warnings instead of returned, since Destroy runs on
// cleanup paths where a more useful error is usually already in flight. The
// handle is dead afterwards.
func (c *Container) Destroy(ctx context.Context) {
	ctr, err := c.load(ctx)
	if errdefs.IsNotFound(err) {
		return
	}
	if err != nil {
		slog.Warn("failed to load container for teardown", "id", c.id, "error", err)
		return
	}

	if task, err := ctr.Task(ctx, nil); err == nil {
		killTask(ctx, task)
	}

	if err := ctr.Delete(ctx, containerd.WithSnapshotCleanup); err != nil && !errdefs.IsNotFound(err) {
		slog.Warn("failed to delete container during teardown", "id", c.id, "error", err)
	}
}

// Kills a task and deletes its exit record. A not-found from the delete is
// tolerated; the task can vanish between the two calls.
func killTask(ctx context.Context, task containerd.Task) error {
	task.Kill(ctx, syscall.SIGKILL)
	if _, err := task.Delete(ctx, containerd.WithProcessKill); err != nil && !errdefs.IsNotFound(err) {
		return err
	}
	return nil
}

// Materializes the containerd container.
//
// The init process is "sleep infinity": the container idles until commands
// are exec'd into it, and stays up afterwards for interactive shells. It
// shares the host's network namespace and resolv.conf so apt and dpkg
// inside resolve and download exactly as the host would.
func (c *Container) create(ctx context.Context, image containerd.Image) (containerd.Container, error) {
	opts := []containerd.NewContainerOpts{
		containerd.WithImage(image),
		containerd.WithSnapshotter(snapshotter),
		containerd.WithNewSnapshot(c.id, image),
		containerd.WithRuntime(ociRuntime, nil),
		containerd.WithNewSpec(
			oci.WithDefaultSpecForPlatform(c.platform),
			oci.WithImageConfig(image),
			oci.WithHostNamespace(specs.NetworkNamespace),
			oci.WithHostResolvconf,
			oci.WithProcessArgs("sleep", "infinity"),
		),
	}

	return c.client.NewContainer(ctx, c.id, opts...)
}

// Launches the container's long-running init task with all IO discarded.
func (c *Container) startTask(ctx context.Context, ctr containerd.Container) error {
	task, err := ctr.NewTask(ctx, cio.NullIO)
	if err != nil {
		return err
	}

	if err = task.Start(ctx); err != nil {
		task.Delete(ctx)
	}
	return err
}
