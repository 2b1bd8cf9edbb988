package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dwestra/quill/pkg/cache"
)

const tomlDoc = `
name = "quill"
port = 8080
`

func testRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, log.New(io.Discard))
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return r
}

func TestRunnerExecute(t *testing.T) {
	r := testRunner(t)

	res, err := r.Execute(context.Background(), []byte(tomlDoc), Options{
		Source: "config.toml",
		Emit:   []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if res.Format != "toml" {
		t.Errorf("Format = %q, want toml", res.Format)
	}
	if !strings.Contains(res.JSON, `"name" : "quill"`) || !strings.Contains(res.JSON, `"port" : 8080`) {
		t.Errorf("JSON missing entries: %q", res.JSON)
	}
	if _, ok := res.Document.Object(); !ok {
		t.Error("Document should be an object")
	}
	if string(res.Artifacts[FormatJSON]) != res.JSON {
		t.Error("json artifact should match the serialized text")
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph") {
		t.Errorf("dot artifact should be a digraph, got %q", res.Artifacts[FormatDOT])
	}
	if len(res.DocumentHash) != 64 {
		t.Errorf("DocumentHash length = %d, want 64", len(res.DocumentHash))
	}
	if res.Stats.InputBytes != len(tomlDoc) {
		t.Errorf("InputBytes = %d, want %d", res.Stats.InputBytes, len(tomlDoc))
	}
	if res.Stats.OutputBytes != len(res.JSON) {
		t.Errorf("OutputBytes = %d, want %d", res.Stats.OutputBytes, len(res.JSON))
	}
	if res.CacheInfo.EncodeHit || res.CacheInfo.RenderHit {
		t.Error("First run should not hit the cache")
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	r := testRunner(t)
	data := []byte(tomlDoc)
	opts := Options{Source: "config.toml", Emit: []string{FormatJSON, FormatDOT}}

	first, err := r.Execute(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("First execute failed: %v", err)
	}
	second, err := r.Execute(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("Second execute failed: %v", err)
	}

	if !second.CacheInfo.EncodeHit {
		t.Error("Second run should hit the document cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("Second run should hit the artifact cache")
	}
	if first.JSON != second.JSON {
		t.Errorf("JSON differs across runs: %q vs %q", first.JSON, second.JSON)
	}
	if string(first.Artifacts[FormatDOT]) != string(second.Artifacts[FormatDOT]) {
		t.Error("DOT artifact differs across runs")
	}
}

func TestRunnerExecuteRefresh(t *testing.T) {
	r := testRunner(t)
	data := []byte(tomlDoc)

	if _, err := r.Execute(context.Background(), data, Options{Source: "config.toml"}); err != nil {
		t.Fatalf("Priming execute failed: %v", err)
	}

	res, err := r.Execute(context.Background(), data, Options{Source: "config.toml", Refresh: true})
	if err != nil {
		t.Fatalf("Refresh execute failed: %v", err)
	}
	if res.CacheInfo.EncodeHit {
		t.Error("Refresh should bypass the document cache")
	}
}

func TestRunnerExecuteExplicitFormat(t *testing.T) {
	r := testRunner(t)

	// Source has no usable extension, so the override picks the decoder.
	res, err := r.Execute(context.Background(), []byte("enabled: true\n"), Options{
		Source: "stdin",
		From:   "yaml",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Format != "yaml" {
		t.Errorf("Format = %q, want yaml", res.Format)
	}
	if want := `{ "enabled" : true }`; res.JSON != want {
		t.Errorf("JSON = %q, want %q", res.JSON, want)
	}
}

func TestRunnerExecuteUnknownFormat(t *testing.T) {
	r := testRunner(t)
	if _, err := r.Execute(context.Background(), nil, Options{Source: "Makefile"}); err == nil {
		t.Error("Unknown source format should fail")
	}
}

func TestRunnerExecuteInvalidDocument(t *testing.T) {
	r := testRunner(t)
	_, err := r.Execute(context.Background(), []byte("title = "), Options{Source: "bad.toml"})
	if err == nil {
		t.Fatal("Invalid document should fail")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("error should name the decode stage: %v", err)
	}
}

func TestRunnerDecode(t *testing.T) {
	r := testRunner(t)

	doc, err := r.Decode(context.Background(), []byte(tomlDoc), Options{Source: "config.toml"})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	fields, ok := doc.Object()
	if !ok {
		t.Fatalf("document should be an object, got kind %v", doc.Kind())
	}
	if name, _ := fields["name"].Text(); name != "quill" {
		t.Errorf("name = %q, want quill", name)
	}
}

func TestRunnerDetailedKeysArtifactsSeparately(t *testing.T) {
	r := testRunner(t)
	data := []byte(tomlDoc)

	plain, err := r.Execute(context.Background(), data, Options{Source: "config.toml", Emit: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	detailed, err := r.Execute(context.Background(), data, Options{
		Source:   "config.toml",
		Emit:     []string{FormatDOT},
		Detailed: true,
	})
	if err != nil {
		t.Fatalf("Detailed execute failed: %v", err)
	}

	if detailed.CacheInfo.RenderHit {
		t.Error("Detailed run should not reuse the plain artifact")
	}
	if string(plain.Artifacts[FormatDOT]) == string(detailed.Artifacts[FormatDOT]) {
		t.Error("Detailed DOT should differ from the plain DOT")
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Fatal("NewRunner should fill in defaults")
	}
}

func TestRunnerNullCacheNeverHits(t *testing.T) {
	r := NewRunner(nil, nil, log.New(io.Discard))
	data := []byte(tomlDoc)

	for range 2 {
		res, err := r.Execute(context.Background(), data, Options{Source: "config.toml"})
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if res.CacheInfo.EncodeHit {
			t.Error("NullCache should never produce a hit")
		}
	}
}
