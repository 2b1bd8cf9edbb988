package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/dwestra/quill/pkg/pipeline"
)

func TestRunWatchRejectsNonFileSources(t *testing.T) {
	c := New(io.Discard, LogInfo)
	opts := pipeline.Options{Emit: []string{pipeline.FormatJSON}}

	for _, source := range []string{"-", "", "https://example.com/a.toml"} {
		err := c.runWatch(context.Background(), source, opts, &convertFlags{})
		if err == nil {
			t.Errorf("runWatch(%q) should fail, watch needs a file", source)
		}
	}
}

func TestSameFile(t *testing.T) {
	target, err := filepath.Abs("config.toml")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		event string
		want  bool
	}{
		{"relative match", "config.toml", true},
		{"cleaned match", "./config.toml", true},
		{"different file", "other.toml", false},
		{"same base different dir", "sub/config.toml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameFile(tt.event, target); got != tt.want {
				t.Errorf("sameFile(%q, %q) = %v, want %v", tt.event, target, got, tt.want)
			}
		})
	}
}
