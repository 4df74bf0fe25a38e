package tiff

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Range is a half-open byte range [Start, End) into a source, zero-based.
type Range struct {
	Start, End uint64
}

// Len returns the number of bytes the range spans.
func (r Range) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// ByteFetch is the polymorphic ranged byte reader both pipelines consume.
// Implementations back onto a local file, an HTTP range-request client, an
// S3 GetObject-with-Range call, or any other ranged byte source; this core
// ships only the minimal reference implementations below ([FileFetch],
// [MemFetch]) needed to exercise and test it.
type ByteFetch interface {
	// Get returns exactly the bytes in r. It returns an *EndOfFileError
	// if the source is shorter than r.End.
	Get(ctx context.Context, r Range) ([]byte, error)

	// GetMany returns one buffer per requested range, index-for-index
	// with ranges. The default behavior (see FetchMany) is to call Get
	// sequentially; concrete implementations may coalesce adjacent
	// ranges or issue concurrent requests instead.
	GetMany(ctx context.Context, ranges []Range) ([][]byte, error)
}

// MetadataFetch is the range-read-only contract the metadata pipeline
// consumes. Any ByteFetch satisfies it; a ReadaheadCache and a pre-filled
// in-memory buffer also do.
type MetadataFetch interface {
	Get(ctx context.Context, r Range) ([]byte, error)
}

// ImageFetch is the contract the tile pipeline consumes for tile bodies.
// It bypasses the metadata cache so large tile payloads never evict small
// cached tag reads.
type ImageFetch interface {
	Get(ctx context.Context, r Range) ([]byte, error)
	GetMany(ctx context.Context, ranges []Range) ([][]byte, error)
}

// FetchMany is the default GetMany behavior: call Get once per range, in
// order. A ByteFetch implementation embeds or calls this when it has no
// cheaper way to batch.
func FetchMany(ctx context.Context, f ByteFetch, ranges []Range) ([][]byte, error) {
	out := make([][]byte, len(ranges))
	for i, r := range ranges {
		b, err := f.Get(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("fetching range %d of %d: %w", i, len(ranges), err)
		}
		out[i] = b
	}
	return out, nil
}

// MemFetch is a ByteFetch over an in-memory buffer, used in tests and for
// callers that already have the whole file resident.
type MemFetch struct {
	Data []byte
}

func NewMemFetch(data []byte) *MemFetch { return &MemFetch{Data: data} }

func (m *MemFetch) Get(_ context.Context, r Range) ([]byte, error) {
	if r.End > uint64(len(m.Data)) {
		return nil, &EndOfFileError{Expected: int64(r.End), Got: int64(len(m.Data))}
	}
	if r.Start > r.End {
		return nil, fmt.Errorf("tiff: invalid range [%d,%d)", r.Start, r.End)
	}
	out := make([]byte, r.Len())
	copy(out, m.Data[r.Start:r.End])
	return out, nil
}

func (m *MemFetch) GetMany(ctx context.Context, ranges []Range) ([][]byte, error) {
	return FetchMany(ctx, m, ranges)
}

// FileFetch is a ByteFetch backed by an *os.File opened for ranged reads
// via ReadAt, so it never needs the whole file resident. It is the
// reference local-filesystem ByteFetch; object-store backed
// implementations (S3, HTTP range requests) are external collaborators
// that satisfy the same interface.
type FileFetch struct {
	f    *os.File
	size int64
}

// OpenFile opens path for ranged reads.
func OpenFile(path string) (*FileFetch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &FileFetch{f: f, size: fi.Size()}, nil
}

// Close releases the underlying file descriptor.
func (ff *FileFetch) Close() error { return ff.f.Close() }

func (ff *FileFetch) Get(_ context.Context, r Range) ([]byte, error) {
	if int64(r.End) > ff.size {
		return nil, &EndOfFileError{Expected: int64(r.End), Got: ff.size}
	}
	buf := make([]byte, r.Len())
	n, err := ff.f.ReadAt(buf, int64(r.Start))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading range [%d,%d): %w", r.Start, r.End, err)
	}
	if uint64(n) != r.Len() {
		return nil, &EndOfFileError{Expected: int64(r.Len()), Got: int64(n)}
	}
	return buf, nil
}

func (ff *FileFetch) GetMany(ctx context.Context, ranges []Range) ([][]byte, error) {
	return FetchMany(ctx, ff, ranges)
}
