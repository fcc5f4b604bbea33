// Parses the command line and drives a verification run.
//
// The tool accepts the following flags:
//
//	-b          Discard the persisted image and container and rebuild.
//	-l file...  Local .deb files to install. Consumes every following
//	            token up to the next flag.
//	-r url...   Package URLs to download and install. Same list behavior.
//
// -l and -r may be repeated; entries accumulate in command-line order
// after any environment-provided entries. There are no other flags:
// everything else, including verbosity (DEBVET_QUIET, DEBVET_VERBOSE,
// DEBVET_DEBUG), is configured through the environment or the
// configuration file. Every failure class maps to a distinct exit code
// via ExitCode.
package cli
