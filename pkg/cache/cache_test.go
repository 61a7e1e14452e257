package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a nil miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestArtifactKey(t *testing.T) {
	dot := "digraph G { a -> b; }"

	if ArtifactKey(dot, "svg") != ArtifactKey(dot, "svg") {
		t.Error("ArtifactKey should be deterministic")
	}
	if ArtifactKey(dot, "svg") == ArtifactKey(dot, "dot") {
		t.Error("Different formats should produce different keys")
	}
	if ArtifactKey(dot, "svg") == ArtifactKey(dot+"\n", "svg") {
		t.Error("Different sources should produce different keys")
	}
	if !strings.HasPrefix(ArtifactKey(dot, "svg"), "artifact:svg:") {
		t.Errorf("ArtifactKey = %q, want artifact:svg: prefix", ArtifactKey(dot, "svg"))
	}
}

// testCache exercises the behaviour every storing backend shares.
func testCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	want := []byte("<svg/>")
	if err := c.Set(ctx, "k", want, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || !bytes.Equal(got, want) {
		t.Fatalf("Get(k) = %q, %v, %v; want %q hit", got, hit, err, want)
	}

	if err := c.Set(ctx, "forever", want, 0); err != nil {
		t.Fatalf("Set without ttl error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should be a hit")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testCache(t, c)
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0700)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want plain miss", hit, err)
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", "pairrank", "artifacts"); dir != want {
		t.Errorf("DefaultDir() = %q, want %q", dir, want)
	}
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisCache(client, "pairrank:cache:")
	testCache(t, c)

	ctx := context.Background()
	_ = c.Set(ctx, "ttl", []byte("x"), time.Minute)
	if !mr.Exists("pairrank:cache:ttl") {
		t.Fatal("key not stored under prefix")
	}
	mr.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "ttl"); hit {
		t.Error("entry should expire with its redis TTL")
	}
}
