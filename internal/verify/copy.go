package verify

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/debvet/debvet/internal/engine"
)

// Copies the staged packages into the build container's package directory.
//
// The files are streamed as a single tar archive and unpacked inside the
// container, each entry named by its base name.
func (v *verifier) copyPackages(ctx context.Context, ctr *engine.Container) error {
	if err := ctr.MkdirAll(ctx, packageDir); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	slog.Debug("copying packages", "count", len(v.packages), "dest", packageDir)

	if err := ctr.CopyTo(ctx, packageArchive(v.packages), packageDir); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	return nil
}

// Streams the given files as a tar archive.
//
// Entries appear in input order, each named by its base name. A failure
// while writing a file surfaces as an error on the returned reader.
func packageArchive(files []string) io.Reader {
	pr, pw := io.Pipe()

	go func() {
		tw := tar.NewWriter(pw)

		var err error
		for _, file := range files {
			if err = addFile(tw, file, filepath.Base(file)); err != nil {
				break
			}
		}

		// The archive trailer goes out before the pipe closes; a write
		// failure still reaches the reader through CloseWithError.
		tw.Close()
		pw.CloseWithError(err)
	}()

	return pr
}

// Appends one file to the archive under the given entry name.
func addFile(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tw, f)
	return err
}
