package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get should miss before Set")
	}

	// Roundtrip
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get data = %q, want %q", data, "value")
	}

	// Delete
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get should miss after Delete")
	}

	// Deleting a missing key is fine
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Fatal("Get should hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get should miss after expiry")
	}
}

func TestFileCacheNoExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	// ttl of 0 means no expiration
	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Error("entry with zero ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := os.WriteFile(c.path("key"), []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupting entry: %v", err)
	}

	// Corrupt entries are treated as misses and removed
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("Get = %v, %v; want miss without error", hit, err)
	}
	if _, err := os.Stat(c.path("key")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatalf("Set(%q) error: %v", key, err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, key); hit {
			t.Errorf("Get(%q) should miss after Clear", key)
		}
	}

	// Directory itself survives
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir removed by Clear: %v", err)
	}
}

func TestFileCacheDefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	c, err := NewFileCache("")
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	want := filepath.Join(home, ".cache", "quill")
	if c.Dir() != want {
		t.Errorf("Dir = %s, want %s", c.Dir(), want)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// FetchKey
	fetchKey := k.FetchKey("https://example.com/doc.toml")
	if fetchKey != "fetch:https://example.com/doc.toml" {
		t.Errorf("FetchKey unexpected: %s", fetchKey)
	}

	// DocumentKey should include options in hash
	dk1 := k.DocumentKey("hash123", DocumentKeyOpts{Format: "toml"})
	dk2 := k.DocumentKey("hash123", DocumentKeyOpts{Format: "yaml"})
	if dk1 == dk2 {
		t.Error("Different DocumentKeyOpts should produce different keys")
	}
	dk3 := k.DocumentKey("hash456", DocumentKeyOpts{Format: "toml"})
	if dk1 == dk3 {
		t.Error("Different content hashes should produce different keys")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "dot"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:123:")

	// All keys should be prefixed
	fetchKey := scoped.FetchKey("https://example.com/x.yaml")
	if fetchKey != "tenant:123:fetch:https://example.com/x.yaml" {
		t.Errorf("ScopedKeyer FetchKey unexpected: %s", fetchKey)
	}

	docKey := scoped.DocumentKey("abc", DocumentKeyOpts{Format: "toml"})
	if !strings.HasPrefix(docKey, "tenant:123:doc:") {
		t.Errorf("ScopedKeyer DocumentKey should be prefixed: %s", docKey)
	}

	artifactKey := scoped.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(artifactKey, "tenant:123:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", artifactKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.FetchKey("u")
	if key != "prefix:fetch:u" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
