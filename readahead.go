package tiff

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	defaultInitialSize = 32 * 1024
	defaultMultiplier  = 2.0
)

// CacheOptions configures a ReadaheadCache. The zero value is not valid;
// use NewReadaheadCache, which applies sensible defaults.
type CacheOptions struct {
	// InitialSize is the size in bytes of the first underlying fetch.
	InitialSize uint64
	// Multiplier is the growth factor applied to subsequent fetches.
	// Must be >= 1.
	Multiplier float64
}

// CacheOption sets one field of CacheOptions.
type CacheOption func(*CacheOptions)

// WithInitialSize overrides the size of the cache's first underlying fetch.
func WithInitialSize(n uint64) CacheOption {
	return func(o *CacheOptions) { o.InitialSize = n }
}

// WithMultiplier overrides the cache's growth factor.
func WithMultiplier(m float64) CacheOption {
	return func(o *CacheOptions) { o.Multiplier = m }
}

// ReadaheadCache wraps a MetadataFetch with an append-only list of
// contiguous buffers rooted at offset 0, growing the underlying fetch
// exponentially so that many tiny tag-sized reads collapse into a
// handful of large ones. It is the only shared mutable state on the
// metadata read path; a single mutex guards {buffers, length} across the
// await point so concurrent callers never duplicate an overflow fetch.
type ReadaheadCache struct {
	inner MetadataFetch
	opts  CacheOptions

	mu       sync.Mutex
	buffers  [][]byte
	length   uint64
	lastSize uint64

	// haveSize/sourceSize cache the total source size once an
	// EndOfFileError from inner has revealed it, so later grows clamp
	// their request to what actually exists instead of probing past
	// end-of-file (which inner treats as a hard failure per the
	// ByteFetch contract, not a short read).
	haveSize   bool
	sourceSize uint64
}

// NewReadaheadCache wraps inner with default growth parameters
// (32 KiB initial size, 2.0 multiplier), optionally overridden by opts.
func NewReadaheadCache(inner MetadataFetch, opts ...CacheOption) *ReadaheadCache {
	o := CacheOptions{InitialSize: defaultInitialSize, Multiplier: defaultMultiplier}
	for _, fn := range opts {
		fn(&o)
	}
	if o.InitialSize == 0 {
		o.InitialSize = defaultInitialSize
	}
	if o.Multiplier < 1 {
		o.Multiplier = defaultMultiplier
	}
	return &ReadaheadCache{inner: inner, opts: o}
}

// nextStep computes the speculative size of the next underlying fetch,
// growing geometrically off the size of the cache's own most recent
// fetch rather than off the total cumulative length. Chaining off the
// last fetch size (instead of the cumulative length, which can outrun
// it whenever an earlier grow was forced wider by a large one-off need)
// keeps consecutive speculative grows from compounding into a request
// that reaches further past the cached tail than the series actually
// warrants.
func (c *ReadaheadCache) nextStep(lastSize uint64) uint64 {
	if lastSize == 0 {
		return c.opts.InitialSize
	}
	return uint64(float64(lastSize) * c.opts.Multiplier)
}

// Get implements MetadataFetch. It slices cached buffers when r is fully
// covered, growing the cache with one underlying fetch otherwise.
func (c *ReadaheadCache) Get(ctx context.Context, r Range) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.End > c.length {
		if err := c.growLocked(ctx, r.End); err != nil {
			return nil, err
		}
	}
	return c.sliceLocked(r)
}

// growLocked fetches bytes past the current cached length and appends
// them, so the union covers at least [0, end). size is chosen per
// max(next_step(lastSize), need), clamped to the known source size once
// one has been discovered. The cache is only appended to after an inner
// fetch succeeds, so a cancelled or failed fetch leaves
// {buffers, length, lastSize} unchanged.
//
// Growing off lastSize rather than the cumulative length keeps a grow
// that is this cache's first encounter with a tight, nearly-exhausted
// source from reaching past the true end: inner.Get is exact-or-error
// (it fails with *EndOfFileError rather than silently truncating), so
// an avoidable over-reach would otherwise cost a wasted failed fetch
// before the retry. A grow can still overshoot a source this cache has
// not fully explored yet; that first rejection reveals the real size
// via the error's Got field, and growLocked remembers it so later grows
// clamp instead of probing past end-of-file again.
func (c *ReadaheadCache) growLocked(ctx context.Context, end uint64) error {
	need := end - c.length
	size := c.nextStep(c.lastSize)
	if size < need {
		size = need
	}
	if c.haveSize && c.length+size > c.sourceSize {
		size = c.sourceSize - c.length
	}
	if size == 0 {
		return &EndOfFileError{Expected: int64(end), Got: int64(c.length)}
	}

	buf, err := c.inner.Get(ctx, Range{Start: c.length, End: c.length + size})
	if err != nil {
		var eof *EndOfFileError
		if !errors.As(err, &eof) {
			return fmt.Errorf("growing readahead cache to %d bytes: %w", c.length+size, err)
		}
		c.haveSize = true
		c.sourceSize = uint64(eof.Got)
		if c.sourceSize <= c.length {
			return &EndOfFileError{Expected: int64(end), Got: int64(c.length)}
		}
		buf, err = c.inner.Get(ctx, Range{Start: c.length, End: c.sourceSize})
		if err != nil {
			return fmt.Errorf("growing readahead cache to %d bytes: %w", c.sourceSize, err)
		}
	}

	c.buffers = append(c.buffers, buf)
	c.lastSize = uint64(len(buf))
	c.length += c.lastSize

	if c.length < end {
		return &EndOfFileError{Expected: int64(end), Got: int64(c.length)}
	}
	return nil
}

// sliceLocked returns r's bytes out of the cached buffer list. It is
// copy-free when r is contained in a single buffer.
func (c *ReadaheadCache) sliceLocked(r Range) ([]byte, error) {
	if r.End > c.length {
		return nil, &EndOfFileError{Expected: int64(r.End), Got: int64(c.length)}
	}
	start := r.Start
	var bufStart uint64
	for _, buf := range c.buffers {
		bufEnd := bufStart + uint64(len(buf))
		if start >= bufStart && r.End <= bufEnd {
			return buf[start-bufStart : r.End-bufStart], nil
		}
		bufStart = bufEnd
	}

	// r spans multiple buffers; copy into one contiguous allocation.
	out := make([]byte, 0, r.Len())
	bufStart = 0
	for _, buf := range c.buffers {
		bufEnd := bufStart + uint64(len(buf))
		lo := max64(start, bufStart)
		hi := min64(r.End, bufEnd)
		if lo < hi {
			out = append(out, buf[lo-bufStart:hi-bufStart]...)
		}
		bufStart = bufEnd
	}
	return out, nil
}

// Len reports the cache's current cumulative cached length, for tests and
// diagnostics.
func (c *ReadaheadCache) Len() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.length
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
