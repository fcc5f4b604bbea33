package stage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestStageRemote(t *testing.T) {
	t.Run("saves the payload under the URL base name", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/pool/tool_1.0_amd64.deb" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte("payload"))
		}))
		defer srv.Close()

		buildDir := t.TempDir()
		s := New(t.TempDir(), buildDir, WithHTTPClient(srv.Client()))

		err := s.StageRemote(context.Background(), []string{srv.URL + "/pool/tool_1.0_amd64.deb"})
		if err != nil {
			t.Fatalf("StageRemote() error = %v", err)
		}

		got, err := os.ReadFile(filepath.Join(buildDir, "tool_1.0_amd64.deb"))
		if err != nil {
			t.Fatalf("downloaded file not readable: %v", err)
		}
		if string(got) != "payload" {
			t.Fatalf("downloaded content = %q, want %q", got, "payload")
		}
	})

	t.Run("fails on an HTTP error status without saving a payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not here", http.StatusNotFound)
		}))
		defer srv.Close()

		buildDir := t.TempDir()
		s := New(t.TempDir(), buildDir, WithHTTPClient(srv.Client()))

		err := s.StageRemote(context.Background(), []string{srv.URL + "/tool.deb"})
		if !errors.Is(err, ErrTransfer) {
			t.Fatalf("StageRemote() error = %v, want ErrTransfer", err)
		}

		if _, statErr := os.Stat(filepath.Join(buildDir, "tool.deb")); statErr == nil {
			t.Fatal("error page was saved as a package")
		}
	})

	t.Run("fails when the server is unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		s := New(t.TempDir(), t.TempDir())

		err := s.StageRemote(context.Background(), []string{url + "/tool.deb"})
		if !errors.Is(err, ErrTransfer) {
			t.Fatalf("StageRemote() error = %v, want ErrTransfer", err)
		}
	})

	t.Run("removes a truncated download", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "1000")
			w.Write([]byte("short"))
		}))
		defer srv.Close()

		buildDir := t.TempDir()
		s := New(t.TempDir(), buildDir, WithHTTPClient(srv.Client()))

		err := s.StageRemote(context.Background(), []string{srv.URL + "/tool.deb"})
		if !errors.Is(err, ErrTransfer) {
			t.Fatalf("StageRemote() error = %v, want ErrTransfer", err)
		}

		if _, statErr := os.Stat(filepath.Join(buildDir, "tool.deb")); statErr == nil {
			t.Fatal("truncated download was left in the build directory")
		}
	})

	t.Run("stops at the first failed download", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/ok.deb" {
				w.Write([]byte("payload"))
				return
			}
			http.Error(w, "gone", http.StatusGone)
		}))
		defer srv.Close()

		buildDir := t.TempDir()
		s := New(t.TempDir(), buildDir, WithHTTPClient(srv.Client()))

		err := s.StageRemote(context.Background(), []string{
			srv.URL + "/missing.deb",
			srv.URL + "/ok.deb",
		})
		if !errors.Is(err, ErrTransfer) {
			t.Fatalf("StageRemote() error = %v, want ErrTransfer", err)
		}

		if _, statErr := os.Stat(filepath.Join(buildDir, "ok.deb")); statErr == nil {
			t.Fatal("download after the failure was fetched, want staging aborted")
		}
	})
}

func TestRemoteName(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "plain file URL",
			url:  "https://example.com/pool/tool_1.0_amd64.deb",
			want: "tool_1.0_amd64.deb",
		},
		{
			name: "query string ignored",
			url:  "https://example.com/tool.deb?token=abc",
			want: "tool.deb",
		},
		{
			name:    "no path component",
			url:     "https://example.com",
			wantErr: true,
		},
		{
			name:    "root path",
			url:     "https://example.com/",
			wantErr: true,
		},
		{
			name:    "unparseable URL",
			url:     "://example.com/tool.deb",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := remoteName(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrBadURL) {
					t.Fatalf("remoteName(%q) error = %v, want ErrBadURL", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("remoteName(%q) error = %v", tt.url, err)
			}
			if got != tt.want {
				t.Fatalf("remoteName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
