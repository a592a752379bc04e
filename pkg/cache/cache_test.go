package cache

import (
	"bytes"
	"context"
	"errors"
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

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	payload := []byte("rendered poster bytes")
	if err := c.Set(ctx, "artifact:abc", payload, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "artifact:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Get returned %q, want %q", data, payload)
	}

	// Missing key is a miss, not an error.
	_, hit, err = c.Get(ctx, "artifact:missing")
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if hit {
		t.Error("missing key should miss")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}

	// Deleting a missing key is fine.
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	fc := c.(*FileCache)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := fc.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("key %q survived Clear", k)
		}
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

	// FieldKey should include options in hash
	fk1 := k.FieldKey("imghash", FieldKeyOpts{Width: 2160, Height: 2700})
	fk2 := k.FieldKey("imghash", FieldKeyOpts{Width: 1080, Height: 1350})
	if fk1 == fk2 {
		t.Error("Different FieldKeyOpts should produce different keys")
	}

	// ArtifactKey varies with any render setting
	ak1 := k.ArtifactKey("imghash", ArtifactKeyOpts{Style: "classic", Seed: 42})
	ak2 := k.ArtifactKey("imghash", ArtifactKeyOpts{Style: "classic", Seed: 43})
	if ak1 == ak2 {
		t.Error("Different seeds should produce different keys")
	}

	ak3 := k.ArtifactKey("imghash", ArtifactKeyOpts{Style: "radial", Seed: 42})
	if ak1 == ak3 {
		t.Error("Different styles should produce different keys")
	}

	// Same inputs, same key
	if ak1 != k.ArtifactKey("imghash", ArtifactKeyOpts{Style: "classic", Seed: 42}) {
		t.Error("ArtifactKey should be deterministic")
	}
}

func TestArtifactKey_EveryFieldChangesKey(t *testing.T) {
	k := NewDefaultKeyer()
	base := ArtifactKeyOpts{
		Format: "png", Width: 2160, Height: 2700,
		Preset: "classic_dots", Theme: "classic", Style: "classic",
		CellSize: 12, MaxRadius: 7, Gamma: 0.7, Threshold: 0.92, Seed: 42,
		Quote: "Job's not finished.",
	}

	mutations := map[string]func(*ArtifactKeyOpts){
		"jitter":              func(o *ArtifactKeyOpts) { o.Jitter = 0.3 },
		"edge_boost":          func(o *ArtifactKeyOpts) { o.EdgeBoost = 0.5 },
		"feather_px":          func(o *ArtifactKeyOpts) { o.FeatherPx = 25 },
		"suppress_background": func(o *ArtifactKeyOpts) { o.SuppressBackground = 1.0 },
		"pre_gamma":           func(o *ArtifactKeyOpts) { o.PreGamma = 1.2 },
		"quote":               func(o *ArtifactKeyOpts) { o.Quote = "Mamba out." },
		"quote_position":      func(o *ArtifactKeyOpts) { o.QuotePosition = "bottom" },
	}

	baseKey := k.ArtifactKey("imghash", base)
	for name, mutate := range mutations {
		v := base
		mutate(&v)
		if k.ArtifactKey("imghash", v) == baseKey {
			t.Errorf("changing %s should produce a different key", name)
		}
	}
}

func TestFieldKey_NormalizationSettingsChangeKey(t *testing.T) {
	k := NewDefaultKeyer()
	base := FieldKeyOpts{Width: 2160, Height: 2700}
	baseKey := k.FieldKey("imghash", base)

	for name, v := range map[string]FieldKeyOpts{
		"pre_gamma":           {Width: 2160, Height: 2700, PreGamma: 1.2},
		"enhance_contrast":    {Width: 2160, Height: 2700, EnhanceContrast: true},
		"suppress_background": {Width: 2160, Height: 2700, SuppressBackground: 1.0},
	} {
		if k.FieldKey("imghash", v) == baseKey {
			t.Errorf("changing %s should produce a different field key", name)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "proj:poster:")

	key := scoped.ArtifactKey("imghash", ArtifactKeyOpts{Style: "classic"})
	if len(key) < 12 || key[:12] != "proj:poster:" {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", key)
	}

	fieldKey := scoped.FieldKey("imghash", FieldKeyOpts{})
	if len(fieldKey) < 12 || fieldKey[:12] != "proj:poster:" {
		t.Errorf("ScopedKeyer FieldKey should be prefixed: %s", fieldKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("h", ArtifactKeyOpts{})
	if len(key) < 7 || key[:7] != "prefix:" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	base := errors.New("connection reset")
	err := Retryable(base)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != base.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrCacheMiss
	})
	if err != ErrCacheMiss {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errors.New("transient"))
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
