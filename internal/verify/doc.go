// Package verify builds and runs the package verification environment.
//
// Verification happens in two halves. The build half starts a container
// from a base image, copies the staged package files into it, installs
// them with the system package manager, and commits the result as the
// verification image. The run half starts a detached container from that
// image and leaves it running so the installed packages can be inspected
// by hand.
//
// The verification image persists in the engine's image store, so
// repeated runs reuse it and skip straight to starting the container. A
// rebuild discards the stored image and container first.
//
// Container operations are delegated to the engine package.
//
// Example usage:
//
//	err := verify.Run(ctx, eng, verify.Options{
//	    BaseImage:     "docker.io/library/debian:bookworm",
//	    ImageTag:      "debvet/verify:latest",
//	    ContainerName: "debvet-verify",
//	    Namespace:     "debvet",
//	    Packages:      staged,
//	})
package verify
