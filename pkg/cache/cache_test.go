package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tavalabs/tava/pkg/observability"
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
		t.Error("NullCache.Get should always miss")
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

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		ttl     time.Duration
		advance time.Duration
		wantHit bool
	}{
		{"NoExpiry", 0, 365 * 24 * time.Hour, true},
		{"Fresh", time.Hour, time.Minute, true},
		{"Expired", time.Hour, 2 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			c.now = func() time.Time { return base }
			if err := c.Set(ctx, tt.name, []byte("v-"+tt.name), tt.ttl); err != nil {
				t.Fatalf("Set: %v", err)
			}
			c.now = func() time.Time { return base.Add(tt.advance) }
			data, hit, err := c.Get(ctx, tt.name)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && string(data) != "v-"+tt.name {
				t.Errorf("data = %q", data)
			}
		})
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("entry survived Clear")
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("cache dir should remain: %v", err)
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

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("roster1", LayoutKeyOpts{Focal: "me", Width: 400, Height: 800})
	lk2 := k.LayoutKey("roster1", LayoutKeyOpts{Focal: "me", Width: 390, Height: 800})
	lk3 := k.LayoutKey("roster2", LayoutKeyOpts{Focal: "me", Width: 400, Height: 800})
	if lk1 == lk2 || lk1 == lk3 {
		t.Error("layout keys should depend on roster and options")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey = %q, want layout: prefix", lk1)
	}

	ak1 := k.ArtifactKey("layout1", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("layout1", ArtifactKeyOpts{Format: "png"})
	ak3 := k.ArtifactKey("layout1", ArtifactKeyOpts{Format: "svg", Selected: "alice"})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("artifact keys should depend on format and selection")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "demo:")
	key := scoped.LayoutKey("h", LayoutKeyOpts{})
	if key != "demo:"+NewDefaultKeyer().LayoutKey("h", LayoutKeyOpts{}) {
		t.Errorf("unexpected scoped key %q", key)
	}
	if !strings.HasPrefix(scoped.ArtifactKey("h", ArtifactKeyOpts{}), "demo:artifact:") {
		t.Error("artifact key should be prefixed")
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets map[string]int
}

func (h *countingHooks) OnCacheHit(_ context.Context, k string)     { h.hits[k]++ }
func (h *countingHooks) OnCacheMiss(_ context.Context, k string)    { h.misses[k]++ }
func (h *countingHooks) OnCacheSet(_ context.Context, k string, _ int) { h.sets[k]++ }

func TestInstrumented(t *testing.T) {
	h := &countingHooks{hits: map[string]int{}, misses: map[string]int{}, sets: map[string]int{}}
	observability.SetCacheHooks(h)
	defer observability.Reset()

	ctx := context.Background()
	fc, _ := NewFileCache(t.TempDir())
	c := Instrumented(fc)
	if Instrumented(c) != c {
		t.Error("Instrumented should not wrap twice")
	}
	key := NewScopedKeyer(nil, "demo:").LayoutKey("h", LayoutKeyOpts{})

	c.Get(ctx, key)
	c.Set(ctx, key, []byte("x"), 0)
	c.Get(ctx, key)
	c.Get(ctx, "misc")

	if h.misses[KeyTypeLayout] != 1 || h.sets[KeyTypeLayout] != 1 || h.hits[KeyTypeLayout] != 1 {
		t.Errorf("hooks = hits %v misses %v sets %v", h.hits, h.misses, h.sets)
	}
	if h.misses["other"] != 1 {
		t.Errorf("unprefixed key should report type other, got %v", h.misses)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	tests := []struct {
		name      string
		fail      int // calls that fail before success
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"FirstTry", 0, true, 1, false},
		{"NonRetryable", 5, false, 1, true},
		{"RetryOnce", 1, true, 2, false},
		{"GivesUp", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retryWithBackoff(ctx, time.Millisecond, func() error {
				calls++
				if calls <= tt.fail {
					if tt.retryable {
						return Retryable(boom)
					}
					return boom
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestNewRedisCacheRequiresAddr(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisConfig{}); err == nil {
		t.Error("expected error for empty address")
	}
}
