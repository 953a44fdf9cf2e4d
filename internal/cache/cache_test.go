package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

// failingStore returns an error from every operation, simulating a durable
// backend that is down.
type failingStore struct {
	gets int
	sets int
}

var errStoreDown = errors.New("store down")

func (f *failingStore) Get(context.Context, string) ([]byte, bool, error) {
	f.gets++
	return nil, false, errStoreDown
}

func (f *failingStore) GetMany(context.Context, []string) (map[string][]byte, error) {
	return nil, errStoreDown
}

func (f *failingStore) Set(context.Context, string, []byte, time.Time) error {
	f.sets++
	return errStoreDown
}

func (f *failingStore) SetMany(context.Context, map[string][]byte, time.Time) error {
	return errStoreDown
}

func (f *failingStore) Delete(context.Context, string) error { return errStoreDown }
func (f *failingStore) Clear(context.Context) error          { return errStoreDown }

func (f *failingStore) Keys(context.Context) ([]string, error) {
	return nil, errStoreDown
}

func (f *failingStore) Sweep(context.Context) (int, error) {
	return 0, errStoreDown
}

func TestCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	c.Set(ctx, "k", []byte(`"v"`), time.Minute)

	value, ok := c.Get(ctx, "k")
	if !ok {
		t.Fatal("Get after Set reported a miss")
	}
	if !bytes.Equal(value, []byte(`"v"`)) {
		t.Errorf("value = %q, want %q", value, `"v"`)
	}

	if !c.Exists(ctx, "k") {
		t.Error("Exists = false for a live key")
	}
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	base := time.Now()
	current := base
	c.mem.now = func() time.Time { return current }

	c.Set(ctx, "short", []byte("1"), 10*time.Minute)

	if _, ok := c.Get(ctx, "short"); !ok {
		t.Fatal("entry missing before its deadline")
	}

	current = base.Add(11 * time.Minute)
	if _, ok := c.Get(ctx, "short"); ok {
		t.Error("entry visible past its deadline")
	}

	// Overwriting replaces the deadline too.
	c.Set(ctx, "short", []byte("2"), time.Hour)
	if _, ok := c.Get(ctx, "short"); !ok {
		t.Error("rewritten entry missing")
	}
}

func TestCacheSweepRemovesExpired(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	base := time.Now()
	current := base
	c.mem.now = func() time.Time { return current }

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Hour)

	current = base.Add(30 * time.Minute)

	removed, err := c.mem.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}

	stats := c.Stats(ctx)
	if stats.Size != 1 {
		t.Errorf("Size = %d after sweep, want 1", stats.Size)
	}
}

func TestCacheJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	type payload struct {
		Name  string `json:"name"`
		Score int    `json:"score"`
	}

	in := payload{Name: "thunderstruck", Score: 92}
	if err := c.SetJSON(ctx, "p", in, time.Minute); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var out payload
	if !c.GetJSON(ctx, "p", &out) {
		t.Fatal("GetJSON reported a miss")
	}
	if out != in {
		t.Errorf("GetJSON() = %+v, want %+v", out, in)
	}
}

func TestCacheMalformedJSONIsMiss(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	c.Set(ctx, "bad", []byte("{not json"), time.Minute)

	var out map[string]any
	if c.GetJSON(ctx, "bad", &out) {
		t.Error("GetJSON returned a hit for a malformed value")
	}
}

func TestCacheGetManyAlignment(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	c.SetMany(ctx, map[string][]byte{
		"a": []byte("1"),
		"c": []byte("3"),
	}, time.Minute)

	values := c.GetMany(ctx, []string{"a", "b", "c"})
	if len(values) != 3 {
		t.Fatalf("GetMany returned %d values, want 3", len(values))
	}
	if !bytes.Equal(values[0], []byte("1")) {
		t.Errorf("values[0] = %q, want %q", values[0], "1")
	}
	if values[1] != nil {
		t.Errorf("values[1] = %q, want nil for a miss", values[1])
	}
	if !bytes.Equal(values[2], []byte("3")) {
		t.Errorf("values[2] = %q, want %q", values[2], "3")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)

	c.Delete(ctx, "a")
	if c.Exists(ctx, "a") {
		t.Error("key survived Delete")
	}
	if !c.Exists(ctx, "b") {
		t.Error("Delete removed an unrelated key")
	}

	c.Clear(ctx)
	if stats := c.Stats(ctx); stats.Size != 0 {
		t.Errorf("Size = %d after Clear, want 0", stats.Size)
	}
}

func TestCacheDegradesToFallback(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{}
	c := New(store)

	// Writes and reads keep working through the in-process layer.
	c.Set(ctx, "k", []byte("v"), time.Minute)

	value, ok := c.Get(ctx, "k")
	if !ok {
		t.Fatal("Get reported a miss while degraded")
	}
	if !bytes.Equal(value, []byte("v")) {
		t.Errorf("value = %q, want %q", value, "v")
	}

	if store.sets == 0 || store.gets == 0 {
		t.Error("durable store was never attempted")
	}

	stats := c.Stats(ctx)
	if !stats.Degraded {
		t.Error("Stats.Degraded = false after durable failures")
	}
}

func TestCacheDefaultTTL(t *testing.T) {
	ctx := context.Background()
	c := New(nil, WithDefaultTTL(time.Hour))

	base := time.Now()
	c.Set(ctx, "k", []byte("v"), 0)

	deadline, ok := c.mem.expiry["k"]
	if !ok {
		t.Fatal("entry has no deadline")
	}
	if d := deadline.Sub(base); d < 59*time.Minute || d > 61*time.Minute {
		t.Errorf("deadline %v from now, want about 1h", d)
	}
}
