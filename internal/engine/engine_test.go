package engine

import (
	"errors"
	"testing"
)

func TestConnectRejectsBadPlatform(t *testing.T) {
	tests := []struct {
		name     string
		platform string
	}{
		{name: "empty", platform: ""},
		{name: "garbage", platform: "not a platform"},
		{name: "too many segments", platform: "linux/amd64/v2/extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// An invalid platform must fail before any connection attempt,
			// so no containerd daemon is needed here.
			_, err := Connect("/run/containerd/containerd.sock", "debvet-test", tt.platform)
			if !errors.Is(err, ErrEngine) {
				t.Fatalf("Connect() error = %v, want ErrEngine", err)
			}
		})
	}
}
