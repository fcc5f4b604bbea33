package cli

import "slices"

// Validated result of scanning a command line.
//
// A request is immutable once built: the accessors return copies of the
// underlying lists, so no caller can alter the parse result after the fact.
type Request struct {
	rebuild bool     // Whether the rebuild flag was given.
	locals  []string // Local package files, in command-line order.
	remotes []string // Remote package URLs, in command-line order.
}

// Builds a request from scanned values, copying both lists.
func newRequest(rebuild bool, locals, remotes []string) *Request {
	return &Request{
		rebuild: rebuild,
		locals:  slices.Clone(locals),
		remotes: slices.Clone(remotes),
	}
}

// Whether the persisted image and container should be discarded first.
func (r *Request) Rebuild() bool {
	return r.rebuild
}

// Local package files to stage, in command-line order.
func (r *Request) LocalFiles() []string {
	return slices.Clone(r.locals)
}

// Remote package URLs to stage, in command-line order.
func (r *Request) RemoteFiles() []string {
	return slices.Clone(r.remotes)
}
