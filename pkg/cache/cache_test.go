package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	if _, hit, _ := c.Get(ctx, "tree:abc"); hit {
		t.Error("expected miss before Set")
	}

	if err := c.Set(ctx, "tree:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "tree:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("Get = %q, want payload", data)
	}

	// Expired entries are treated as misses
	if err := c.Set(ctx, "expired", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set expired: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "expired"); hit {
		t.Error("expired entry should be a miss")
	}

	if err := c.Delete(ctx, "tree:abc"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "tree:abc"); hit {
		t.Error("deleted entry should be a miss")
	}
	// Deleting twice is fine
	if err := c.Delete(ctx, "tree:abc"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestRedisCache(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewRedisCache(ctx, srv.Addr(), "", 0)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expected miss before Set")
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q hit=%v err=%v", data, hit, err)
	}

	// TTL expiry
	srv.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should have expired")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	httpKey := k.HTTPKey("genai", "mindmap:prompt")
	if httpKey != "http:genai:mindmap:prompt" {
		t.Errorf("HTTPKey unexpected: %s", httpKey)
	}

	// TreeKey should include options in hash
	tk1 := k.TreeKey("solar system", TreeKeyOpts{Language: "en", Model: "gpt-4.1"})
	tk2 := k.TreeKey("solar system", TreeKeyOpts{Language: "de", Model: "gpt-4.1"})
	if tk1 == tk2 {
		t.Error("Different TreeKeyOpts should produce different keys")
	}

	lk1 := k.LayoutKey("hash1")
	lk2 := k.LayoutKey("hash2")
	if lk1 == lk2 {
		t.Error("Different tree hashes should produce different layout keys")
	}

	ak1 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Theme: "default"})
	ak2 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Theme: "warm"})
	if ak1 == ak2 {
		t.Error("Different themes should produce different artifact keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(NewDefaultKeyer(), "user:42:")
	if got := k.HTTPKey("genai", "x"); got != "user:42:http:genai:x" {
		t.Errorf("scoped HTTPKey = %s", got)
	}
	if got := k.LayoutKey("abc"); got[:8] != "user:42:" {
		t.Errorf("scoped LayoutKey missing prefix: %s", got)
	}
}
