// Package stage gathers the requested packages into the build directory.
//
// Local .deb files are copied and remote ones downloaded, each under its
// base name, producing a flat pool of packages for the image build. The
// stager resolves relative local paths against a configured work directory
// instead of changing the process working directory, so a failure can
// never strand the process somewhere unexpected.
//
// Every failure is fatal to the run: a missing file, a missing directory,
// or a failed transfer aborts staging immediately with a sentinel error
// the caller maps to a distinct exit code. Nothing is retried.
//
// Example usage:
//
//	st := stage.New(cfg.WorkDir, cfg.BuildDir)
//	if err := st.Prepare(); err != nil {
//	    return err
//	}
//	if err := st.StageLocal(ctx, cfg.LocalFiles); err != nil {
//	    return err
//	}
//	if err := st.StageRemote(ctx, cfg.RemoteFiles); err != nil {
//	    return err
//	}
//	staged, err := st.Staged()
package stage
