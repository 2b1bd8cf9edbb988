package cli

import (
	"strings"
	"testing"

	"github.com/dwestra/quill/pkg/value"
)

func TestValueTreeLines(t *testing.T) {
	doc := value.OfObject(map[string]value.Value{
		"name": value.OfString("quill"),
		"tags": value.OfArray(value.OfString("a"), value.OfString("b")),
	})

	lines := valueTreeLines("", doc, 0)
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5: %v", len(lines), lines)
	}

	joined := strings.Join(lines, "\n")
	for _, want := range []string{"object (2)", "name", `"quill"`, "tags", "array (2)", "[0]", "[1]"} {
		if !strings.Contains(joined, want) {
			t.Errorf("tree output missing %q:\n%s", want, joined)
		}
	}

	// Object keys are sorted
	if !strings.Contains(lines[1], "name") {
		t.Errorf("line 1 should be the name field, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "tags") {
		t.Errorf("line 2 should be the tags field, got %q", lines[2])
	}
}

func TestValueTreeLinesScalarRoot(t *testing.T) {
	lines := valueTreeLines("", value.OfNumber(42), 0)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !strings.Contains(lines[0], "42") {
		t.Errorf("line = %q, should contain 42", lines[0])
	}
}

func TestValueTreeLinesIndentation(t *testing.T) {
	doc := value.OfObject(map[string]value.Value{
		"outer": value.OfObject(map[string]value.Value{
			"inner": value.OfBool(true),
		}),
	})

	lines := valueTreeLines("", doc, 0)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[1], "  ") {
		t.Errorf("nested field should be indented, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "    ") {
		t.Errorf("doubly nested field should be indented twice, got %q", lines[2])
	}
}
