package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/pkg/cio"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Counter behind execID. Each spawned process needs an identifier that is
// unique within the containerd task.
var execCounter atomic.Uint64

// Hands out a process identifier unique within this run.
func execID() string {
	return fmt.Sprintf("exec-%d", execCounter.Add(1))
}

// Output of a command run inside a container.
type ExecResult struct {
	ExitCode int    // Exit code of the process.
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
}

// Stream endpoints for a process run inside the container. A nil out or err
// discards that stream; a nil in leaves stdin unconnected.
type streams struct {
	in       io.Reader
	out, err io.Writer
}

// Runs a shell command inside the container and captures its output.
//
// The command string reaches the shell unmodified, as "shell -c command".
// The env entries and workdir apply to this one execution; the container's
// stored OCI spec is not touched. A non-zero exit code comes back through
// the result, not as an error.
func (c *Container) Exec(ctx context.Context, shell, command string, env []string, workdir string) (*ExecResult, error) {
	var stdout, stderr bytes.Buffer
	code, err := c.run(ctx, streams{out: &stdout, err: &stderr}, env, workdir, shell, "-c", command)
	if err != nil {
		return nil, err
	}

	return &ExecResult{
		ExitCode: code,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// Spawns a process inside the container's task and waits for it to exit.
//
// The process joins the task as an additional exec rather than replacing the
// init process, so the task must already be running; startTask arranges that
// when the container is created. When a stdin reader is supplied it is
// wrapped so the stdin FIFO can be closed once the reader drains, because
// the containerd shim holds both ends of that pipe open and never forwards
// EOF on its own. A non-zero exit code is not an error here; callers decide
// what it means.
func (c *Container) run(ctx context.Context, st streams, env []string, workdir string, args ...string) (int, error) {
	pspec, err := c.processSpec(ctx, env, workdir, args)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	task, err := c.task(ctx)
	if err != nil {
		return 0, err
	}

	if st.out == nil {
		st.out = io.Discard
	}
	if st.err == nil {
		st.err = io.Discard
	}

	var stdin io.Reader
	var drained <-chan struct{}
	if st.in != nil {
		er := newEOFReader(st.in)
		stdin = er
		drained = er.done
	}

	process, err := task.Exec(ctx, execID(), pspec, cio.NewCreator(
		cio.WithStreams(stdin, st.out, st.err),
	))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	return waitProcess(ctx, process, drained)
}

// Derives the OCI process spec for an exec from the container's own spec.
//
// The args always replace the base command; env and workdir only when
// given. The terminal flag is forced off since no TTY is ever attached to
// these processes.
func (c *Container) processSpec(ctx context.Context, env []string, workdir string, args []string) (*specs.Process, error) {
	ctr, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	spec, err := ctr.Spec(ctx)
	if err != nil {
		return nil, err
	}

	proc := *spec.Process
	proc.Terminal = false
	proc.Args = args
	if len(env) > 0 {
		proc.Env = overlayEnv(proc.Env, env)
	}
	if workdir != "" {
		proc.Cwd = workdir
	}

	return &proc, nil
}

// Lays override KEY=VALUE entries over a base environment. The override
// value wins for a key present in both; entries without an equals sign are
// dropped. Order of the result is unspecified.
func overlayEnv(base, overrides []string) []string {
	vars := make(map[string]string, len(base)+len(overrides))
	for _, entries := range [][]string{base, overrides} {
		for _, entry := range entries {
			k, v, ok := strings.Cut(entry, "=")
			if !ok {
				continue
			}
			vars[k] = v
		}
	}

	env := make([]string, 0, len(vars))
	for k, v := range vars {
		env = append(env, k+"="+v)
	}
	return env
}

// Fetches the running task backing the container.
func (c *Container) task(ctx context.Context) (containerd.Task, error) {
	ctr, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	task, err := ctr.Task(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	return task, nil
}

// Starts a spawned exec process, blocks until it exits, and reports the exit
// code. The process record is deleted on every path. When drained is
// non-nil, the process stdin is closed as soon as the channel fires so the
// process observes EOF.
func waitProcess(ctx context.Context, process containerd.Process, drained <-chan struct{}) (int, error) {
	exited, err := process.Wait(ctx)
	if err != nil {
		process.Delete(ctx)
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	if err := process.Start(ctx); err != nil {
		process.Delete(ctx)
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	// Close the container side of stdin once the payload is fully written.
	// Without this the shim keeps the FIFO's write end open and the process
	// blocks reading stdin forever.
	if drained != nil {
		go func() {
			<-drained
			process.CloseIO(ctx, containerd.WithStdinCloser)
		}()
	}

	status := <-exited
	process.Delete(ctx)

	code, _, err := status.Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	return int(code), nil
}
