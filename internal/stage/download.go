package stage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/debvet/debvet/internal/paths"
)

// Downloads each remote package into the build directory.
//
// Any transport failure or HTTP error status fails the run: an error page
// must never be saved as a package payload. A failure aborts immediately;
// earlier downloads stay staged.
func (s *Stager) StageRemote(ctx context.Context, urls []string) error {
	for _, rawURL := range urls {
		if err := s.download(ctx, rawURL); err != nil {
			return err
		}
	}

	return nil
}

// Fetches one package and writes it under its URL base name.
//
// Partial downloads are removed so the build directory never holds a
// truncated package.
func (s *Stager) download(ctx context.Context, rawURL string) error {
	name, err := remoteName(rawURL)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransfer, rawURL, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransfer, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %s: unexpected status %s", ErrTransfer, rawURL, resp.Status)
	}

	dst := filepath.Join(s.buildDir, name)

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransfer, rawURL, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("%w: %s: %w", ErrTransfer, rawURL, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("%w: %s: %w", ErrTransfer, rawURL, err)
	}

	slog.Debug("downloaded package", "url", rawURL, "dest", dst)

	return nil
}

// Derives the destination file name from a package URL.
//
// The URL must carry a usable final path segment; one that names no file
// is rejected before any transfer starts.
func remoteName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrBadURL, rawURL, err)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("%w: %s names no file", ErrBadURL, rawURL)
	}

	return name, nil
}
