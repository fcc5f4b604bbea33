package stage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestPrepare(t *testing.T) {
	t.Run("creates the build directory", func(t *testing.T) {
		buildDir := filepath.Join(t.TempDir(), "nested", "packages")

		s := New(t.TempDir(), buildDir)
		if err := s.Prepare(); err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}

		info, err := os.Stat(buildDir)
		if err != nil || !info.IsDir() {
			t.Fatalf("build directory %s was not created", buildDir)
		}
	})

	t.Run("rejects a missing work directory", func(t *testing.T) {
		workDir := filepath.Join(t.TempDir(), "absent")

		s := New(workDir, t.TempDir())
		if err := s.Prepare(); !errors.Is(err, ErrMissingDirectory) {
			t.Fatalf("Prepare() error = %v, want ErrMissingDirectory", err)
		}
	})

	t.Run("rejects a work directory that is a file", func(t *testing.T) {
		workDir := filepath.Join(t.TempDir(), "plain")
		if err := os.WriteFile(workDir, []byte("not a directory"), 0644); err != nil {
			t.Fatal(err)
		}

		s := New(workDir, t.TempDir())
		if err := s.Prepare(); !errors.Is(err, ErrMissingDirectory) {
			t.Fatalf("Prepare() error = %v, want ErrMissingDirectory", err)
		}
	})
}

func TestStageLocal(t *testing.T) {
	t.Run("copies files under their base names", func(t *testing.T) {
		workDir := t.TempDir()
		buildDir := t.TempDir()

		src := filepath.Join(workDir, "tool_1.0_amd64.deb")
		if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
			t.Fatal(err)
		}

		s := New(workDir, buildDir)
		if err := s.StageLocal(context.Background(), []string{src}); err != nil {
			t.Fatalf("StageLocal() error = %v", err)
		}

		got, err := os.ReadFile(filepath.Join(buildDir, "tool_1.0_amd64.deb"))
		if err != nil {
			t.Fatalf("staged file not readable: %v", err)
		}
		if string(got) != "payload" {
			t.Fatalf("staged content = %q, want %q", got, "payload")
		}
	})

	t.Run("resolves relative paths against the work directory", func(t *testing.T) {
		workDir := t.TempDir()
		buildDir := t.TempDir()

		if err := os.MkdirAll(filepath.Join(workDir, "dist"), 0755); err != nil {
			t.Fatal(err)
		}
		src := filepath.Join(workDir, "dist", "tool_1.0_amd64.deb")
		if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
			t.Fatal(err)
		}

		s := New(workDir, buildDir)
		if err := s.StageLocal(context.Background(), []string{filepath.Join("dist", "tool_1.0_amd64.deb")}); err != nil {
			t.Fatalf("StageLocal() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(buildDir, "tool_1.0_amd64.deb")); err != nil {
			t.Fatalf("staged file missing: %v", err)
		}
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		s := New(t.TempDir(), t.TempDir())

		err := s.StageLocal(context.Background(), []string{"absent.deb"})
		if !errors.Is(err, ErrMissingFile) {
			t.Fatalf("StageLocal() error = %v, want ErrMissingFile", err)
		}
	})

	t.Run("stops at the first missing file", func(t *testing.T) {
		workDir := t.TempDir()
		buildDir := t.TempDir()

		first := filepath.Join(workDir, "first.deb")
		if err := os.WriteFile(first, []byte("payload"), 0644); err != nil {
			t.Fatal(err)
		}

		s := New(workDir, buildDir)
		err := s.StageLocal(context.Background(), []string{"absent.deb", first})
		if !errors.Is(err, ErrMissingFile) {
			t.Fatalf("StageLocal() error = %v, want ErrMissingFile", err)
		}

		if _, err := os.Stat(filepath.Join(buildDir, "first.deb")); err == nil {
			t.Fatal("file after the failure was staged, want staging aborted")
		}
	})
}

func TestStaged(t *testing.T) {
	t.Run("lists only packages, in name order", func(t *testing.T) {
		buildDir := t.TempDir()
		for _, name := range []string{"b.deb", "a.deb", "notes.txt"} {
			if err := os.WriteFile(filepath.Join(buildDir, name), []byte("x"), 0644); err != nil {
				t.Fatal(err)
			}
		}

		s := New(t.TempDir(), buildDir)
		got, err := s.Staged()
		if err != nil {
			t.Fatalf("Staged() error = %v", err)
		}

		want := []string{
			filepath.Join(buildDir, "a.deb"),
			filepath.Join(buildDir, "b.deb"),
		}
		if !slices.Equal(got, want) {
			t.Fatalf("Staged() = %v, want %v", got, want)
		}
	})

	t.Run("fails when nothing staged is a package", func(t *testing.T) {
		s := New(t.TempDir(), t.TempDir())

		if _, err := s.Staged(); !errors.Is(err, ErrMissingFile) {
			t.Fatalf("Staged() error = %v, want ErrMissingFile", err)
		}
	})
}
