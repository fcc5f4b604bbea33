package cli

const usage = `Usage: debvet [-b] [-l file...] [-r url...]

Stages the given Debian packages, builds a container image with them
installed, and leaves a detached container running so the installation
can be inspected by hand.

Flags:
  -b           Discard the persisted image and container and rebuild.
  -l file...   Local .deb files to install. Consumes every following
               token up to the next flag; repeatable, entries accumulate.
  -r url...    Package URLs to download and install. Same list behavior
               as -l.

Environment:
  DEBVET_LOCAL_FILES    Whitespace-separated .deb files, staged before
                        any -l entries.
  DEBVET_REMOTE_FILES   Whitespace-separated URLs, staged before any -r
                        entries.
  DEBVET_REBUILD        Same effect as -b.
  DEBVET_WORK_DIR       Base directory for relative local paths.
  DEBVET_BUILD_DIR      Directory packages are staged into.
  DEBVET_BASE_IMAGE     Image the verification image is built from.
  DEBVET_ADDRESS        Containerd socket address.

Exit codes:
  90   interrupted by a signal
  91   bad argument
  92   no package files or URLs given
  93   work or staging directory missing
  94   download failed
  95   local package file missing
`
