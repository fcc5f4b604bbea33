package engine

import (
	"fmt"
	"testing"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

func TestChildGCLabels(t *testing.T) {
	m := ocispec.Manifest{
		Config: ocispec.Descriptor{Digest: digest.FromString("config")},
		Layers: []ocispec.Descriptor{
			{Digest: digest.FromString("base layer")},
			{Digest: digest.FromString("package layer")},
		},
	}

	labels := childGCLabels(m)

	if got := labels["containerd.io/gc.ref.content.config"]; got != m.Config.Digest.String() {
		t.Errorf("config label = %q, want %q", got, m.Config.Digest.String())
	}
	for i, layer := range m.Layers {
		key := fmt.Sprintf("containerd.io/gc.ref.content.l.%d", i)
		if got := labels[key]; got != layer.Digest.String() {
			t.Errorf("labels[%q] = %q, want %q", key, got, layer.Digest.String())
		}
	}
	if len(labels) != 3 {
		t.Errorf("len(labels) = %d, want 3", len(labels))
	}
}

func TestChildGCLabelsNoLayers(t *testing.T) {
	m := ocispec.Manifest{
		Config: ocispec.Descriptor{Digest: digest.FromString("config-only")},
	}

	labels := childGCLabels(m)
	if len(labels) != 1 {
		t.Fatalf("len(labels) = %d, want 1", len(labels))
	}
	if labels["containerd.io/gc.ref.content.config"] != m.Config.Digest.String() {
		t.Fatal("config label mismatch")
	}
}
