package engine

import (
	"slices"
	"strings"
	"testing"
)

func TestOverlayEnv(t *testing.T) {
	tests := []struct {
		name      string
		base      []string
		overrides []string
		want      []string
	}{
		{
			name:      "override wins for shared key",
			base:      []string{"DEBIAN_FRONTEND=readline", "HOME=/root"},
			overrides: []string{"DEBIAN_FRONTEND=noninteractive"},
			want:      []string{"DEBIAN_FRONTEND=noninteractive", "HOME=/root"},
		},
		{
			name:      "new key joins the base",
			base:      []string{"PATH=/usr/bin:/bin"},
			overrides: []string{"DEBIAN_FRONTEND=noninteractive"},
			want:      []string{"DEBIAN_FRONTEND=noninteractive", "PATH=/usr/bin:/bin"},
		},
		{
			name:      "no base",
			overrides: []string{"TERM=xterm"},
			want:      []string{"TERM=xterm"},
		},
		{
			name: "no overrides",
			base: []string{"TERM=xterm"},
			want: []string{"TERM=xterm"},
		},
		{
			name: "nothing at all",
			want: nil,
		},
		{
			name: "value containing an equals sign",
			base: []string{"APT_CONFIG=Acquire::Retries=3"},
			want: []string{"APT_CONFIG=Acquire::Retries=3"},
		},
		{
			name:      "entries without equals are dropped",
			base:      []string{"BROKEN", "HOME=/root"},
			overrides: []string{"ALSOBROKEN", "TERM=xterm"},
			want:      []string{"HOME=/root", "TERM=xterm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlayEnv(tt.base, tt.overrides)
			slices.Sort(got)
			slices.Sort(tt.want)
			if !slices.Equal(got, tt.want) {
				t.Errorf("overlayEnv(%v, %v) = %v, want %v", tt.base, tt.overrides, got, tt.want)
			}
		})
	}
}

func TestExecIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 5 {
		id := execID()
		if !strings.HasPrefix(id, "exec-") {
			t.Fatalf("execID() = %q, want exec- prefix", id)
		}
		if seen[id] {
			t.Fatalf("execID() repeated %q", id)
		}
		seen[id] = true
	}
}
