// Package engine manages images and containers backed by containerd.
//
// An [Engine] connects to a containerd daemon under a dedicated namespace
// and targets a single OCI platform. Images are pulled from registries and
// unpacked into an overlayfs snapshotter; containers are created with fresh
// snapshots and started detached with a long-running task (sleep infinity),
// so commands can be executed in them at any point afterwards and a human
// can open a shell in one that is left running.
//
// Each [Container] wraps a containerd task. Commands can be executed inside
// it, files can be copied in as tar streams, and its filesystem state can
// be committed back to the image store as a new image under its own
// reference, which is how built images persist between runs without a
// registry. When a container is no longer needed it should be destroyed to
// release its snapshot and task resources.
//
// Example usage:
//
//	eng, err := engine.Connect("/run/containerd/containerd.sock", "debvet", "linux/amd64")
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	ctr, err := eng.NewContainer(ctx, "debvet-build", "docker.io/library/debian:bookworm")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.Exec(ctx, "/bin/sh", "dpkg -i /opt/pkgs/*.deb", nil, "")
//	if err != nil {
//	    return err
//	}
//
//	if err := ctr.Commit(ctx, "debvet/verify:latest"); err != nil {
//	    return err
//	}
package engine
