package tiff

import (
	"context"
	"testing"
)

// countingFetch wraps a MemFetch and counts calls to Get, so tests can
// assert the readahead cache collapses many small reads into few
// underlying fetches.
type countingFetch struct {
	inner *MemFetch
	calls int
}

func (c *countingFetch) Get(ctx context.Context, r Range) ([]byte, error) {
	c.calls++
	return c.inner.Get(ctx, r)
}

func TestReadaheadCache_ExactSlice(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}
	inner := &countingFetch{inner: NewMemFetch(data)}
	cache := NewReadaheadCache(inner, WithInitialSize(64))

	for _, r := range []Range{{0, 10}, {5, 20}, {500, 600}, {990, 1000}} {
		got, err := cache.Get(context.Background(), r)
		if err != nil {
			t.Fatalf("Get(%v): %v", r, err)
		}
		want := data[r.Start:r.End]
		if len(got) != len(want) {
			t.Fatalf("Get(%v) len = %d, want %d", r, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Get(%v)[%d] = %d, want %d", r, i, got[i], want[i])
			}
		}
	}
}

func TestReadaheadCache_BoundedFetchCount(t *testing.T) {
	data := make([]byte, 1<<20)
	inner := &countingFetch{inner: NewMemFetch(data)}
	cache := NewReadaheadCache(inner, WithInitialSize(1024), WithMultiplier(2))

	// Many tiny sequential reads within the first 1 MiB should only grow
	// the cache O(log(n)) times, never once per read.
	for off := uint64(0); off < 1<<16; off += 8 {
		if _, err := cache.Get(context.Background(), Range{Start: off, End: off + 8}); err != nil {
			t.Fatalf("Get at %d: %v", off, err)
		}
	}

	if inner.calls > 32 {
		t.Errorf("underlying fetch count = %d, want a small bounded number for %d reads", inner.calls, 1<<16/8)
	}
}

func TestReadaheadCache_CoalescesWithoutOverreachProbe(t *testing.T) {
	data := make([]byte, 26)
	for i := range data {
		data[i] = byte(i)
	}
	inner := &countingFetch{inner: NewMemFetch(data)}
	cache := NewReadaheadCache(inner, WithInitialSize(2), WithMultiplier(3))

	for _, r := range []Range{{0, 2}, {1, 2}, {2, 5}, {5, 8}, {8, 20}} {
		got, err := cache.Get(context.Background(), r)
		if err != nil {
			t.Fatalf("Get(%v): %v", r, err)
		}
		want := data[r.Start:r.End]
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Get(%v)[%d] = %d, want %d", r, i, got[i], want[i])
			}
		}
	}

	if inner.calls != 3 {
		t.Errorf("underlying fetch count = %d, want 3 (sizes 2, 6, 18, no over-reach probe)", inner.calls)
	}
}

func TestReadaheadCache_GrowClampsToSourceSize(t *testing.T) {
	data := []byte("0123456789")
	inner := &countingFetch{inner: NewMemFetch(data)}
	cache := NewReadaheadCache(inner, WithInitialSize(4))

	got, err := cache.Get(context.Background(), Range{Start: 0, End: 10})
	if err != nil {
		t.Fatalf("Get full range: %v", err)
	}
	if string(got) != "0123456789" {
		t.Errorf("Get() = %q, want %q", got, "0123456789")
	}

	if _, err := cache.Get(context.Background(), Range{Start: 0, End: 11}); err == nil {
		t.Error("Get() past end of source: want error, got nil")
	}
}
