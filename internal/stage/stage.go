package stage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/debvet/debvet/internal/paths"
)

const (

	// How long a single download may take end to end.
	downloadTimeout = 15 * time.Minute
)

// Stages package files into the build directory.
//
// Local files are copied, remote files downloaded, each under its base
// name, so the build directory ends up as a single flat pool of .deb
// files for the image build to install from.
type Stager struct {
	workDir  string       // Base directory for resolving relative local paths.
	buildDir string       // Directory packages are staged into.
	client   *http.Client // Client used for remote downloads.
}

// Configures a stager.
type Option func(*Stager)

// Overrides the HTTP client used for downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Stager) {
		s.client = client
	}
}

// Creates a stager rooted at the given work and build directories.
func New(workDir, buildDir string, opts ...Option) *Stager {
	s := &Stager{
		workDir:  workDir,
		buildDir: buildDir,
		client:   &http.Client{Timeout: downloadTimeout},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ensures the staging directories are usable.
//
// The work directory must already exist: it is the base against which
// relative local paths resolve, and the process working directory is never
// changed to it. The build directory is created with parents when missing.
func (s *Stager) Prepare() error {
	info, err := os.Stat(s.workDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: work directory %s", ErrMissingDirectory, s.workDir)
	}

	if err := os.MkdirAll(s.buildDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: build directory %s: %w", ErrMissingDirectory, s.buildDir, err)
	}

	return nil
}

// Copies each local package file into the build directory.
//
// Relative paths resolve against the work directory. A missing source file
// fails the run immediately; nothing is retried or skipped.
func (s *Stager) StageLocal(ctx context.Context, files []string) error {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		src := file
		if !filepath.IsAbs(src) {
			src = filepath.Join(s.workDir, src)
		}

		if _, err := os.Stat(src); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingFile, src)
		}

		dst := filepath.Join(s.buildDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", src, err)
		}

		slog.Debug("staged package", "source", src, "dest", dst)
	}

	return nil
}

// Lists the .deb files currently staged, in name order.
//
// The build directory persists across runs, so packages staged earlier are
// listed (and installed) alongside the ones staged now. A pool with no
// .deb files at all means nothing staged was a package.
func (s *Stager) Staged() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.buildDir, "*.deb"))
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no .deb files staged in %s", ErrMissingFile, s.buildDir)
	}

	return matches, nil
}

// Copies a file, removing a partial destination on failure.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}

	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return nil
}
