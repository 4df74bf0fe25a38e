package tiff

import (
	"context"
	"fmt"
)

const defaultMaxIFDs = 16

// MetadataReaderOption configures a MetadataReader.
type MetadataReaderOption func(*metadataReaderOptions)

type metadataReaderOptions struct {
	maxIFDs int
}

// WithMaxIFDs overrides the IFD-chain loop guard (default 16). It bounds
// how many directories ReadAll will walk before giving up on a
// malformed or cyclic chain.
func WithMaxIFDs(n int) MetadataReaderOption {
	return func(o *metadataReaderOptions) { o.maxIFDs = n }
}

// MetadataReader opens a TIFF stream, detects its header, and walks the
// IFD chain, lowering each directory's raw tags into an IfdRecord.
//
// It implements the S0/S1/S2 progression as plain
// sequential control flow: S0 is the zero value, try_open (OpenMetadataReader)
// transitions to S1 by discovering the first IFD offset, and each
// ReadNext call either advances p within S1 or returns (nil, false) for
// S2 once the chain offset reaches zero.
type MetadataReader struct {
	fetch   MetadataFetch
	opts    metadataReaderOptions
	order   Endianness
	bigTIFF bool
	ifd     *IfdReader

	nextOffset uint64
	done       bool
}

// OpenMetadataReader reads the 8 (classic) or 16 (BigTIFF) header bytes
// and returns a reader positioned at the first IFD.
func OpenMetadataReader(ctx context.Context, fetch MetadataFetch, opts ...MetadataReaderOption) (*MetadataReader, error) {
	o := metadataReaderOptions{maxIFDs: defaultMaxIFDs}
	for _, fn := range opts {
		fn(&o)
	}
	if o.maxIFDs <= 0 {
		o.maxIFDs = defaultMaxIFDs
	}

	head, err := fetch.Get(ctx, Range{Start: 0, End: 4})
	if err != nil {
		return nil, fmt.Errorf("reading TIFF header: %w", err)
	}

	var order Endianness
	switch string(head[0:2]) {
	case "II":
		order = LittleEndian
	case "MM":
		order = BigEndian
	default:
		return nil, ErrBadMagic
	}

	version := order.decodeU16(head[2:4])
	var bigTIFF bool
	switch version {
	case 42:
		bigTIFF = false
	case 43:
		bigTIFF = true
	default:
		return nil, ErrBadMagic
	}

	var firstOffset uint64
	if bigTIFF {
		tail, err := fetch.Get(ctx, Range{Start: 4, End: 16})
		if err != nil {
			return nil, fmt.Errorf("reading BigTIFF header: %w", err)
		}
		offsetSize := order.decodeU16(tail[0:2])
		constant := order.decodeU16(tail[2:4])
		if offsetSize != 8 || constant != 0 {
			return nil, &FormatError{Reason: fmt.Sprintf("invalid BigTIFF header: offset_size=%d constant=%d", offsetSize, constant)}
		}
		firstOffset = order.decodeU64(tail[4:12])
	} else {
		tail, err := fetch.Get(ctx, Range{Start: 4, End: 8})
		if err != nil {
			return nil, fmt.Errorf("reading TIFF header: %w", err)
		}
		firstOffset = uint64(order.decodeU32(tail))
	}

	return &MetadataReader{
		fetch:      fetch,
		opts:       o,
		order:      order,
		bigTIFF:    bigTIFF,
		ifd:        NewIfdReader(fetch, order, bigTIFF),
		nextOffset: firstOffset,
		done:       firstOffset == 0,
	}, nil
}

// Endianness reports the file's declared byte order.
func (r *MetadataReader) Endianness() Endianness { return r.order }

// IsBigTIFF reports whether the file uses the BigTIFF directory layout.
func (r *MetadataReader) IsBigTIFF() bool { return r.bigTIFF }

// ReadNext reads and lowers the next IFD in the chain, advancing
// internal state to S1 ready(p') or S2 done. It returns (nil, false, nil)
// once the chain is exhausted (S2).
func (r *MetadataReader) ReadNext(ctx context.Context) (*IfdRecord, bool, error) {
	if r.done {
		return nil, false, nil
	}

	rawTags, next, err := r.ifd.ReadAt(ctx, r.nextOffset)
	if err != nil {
		return nil, false, fmt.Errorf("reading IFD at offset %d: %w", r.nextOffset, err)
	}

	rec, err := buildIfdRecord(rawTags)
	if err != nil {
		return nil, false, err
	}
	rec.offset = r.nextOffset
	rec.Endianness = r.order
	if next != 0 {
		rec.nextIfdOffset = &next
	}

	r.nextOffset = next
	r.done = next == 0
	return rec, true, nil
}

// ReadAll walks the full IFD chain, bounded by the configured max-IFD
// loop guard, and returns every lowered IfdRecord in file order.
func (r *MetadataReader) ReadAll(ctx context.Context) ([]*IfdRecord, error) {
	var recs []*IfdRecord
	for i := 0; i < r.opts.maxIFDs; i++ {
		rec, ok, err := r.ReadNext(ctx)
		if err != nil {
			return recs, err
		}
		if !ok {
			return recs, nil
		}
		recs = append(recs, rec)
	}
	if r.done {
		return recs, nil
	}
	return recs, fmt.Errorf("tiff: IFD chain did not terminate within %d directories", r.opts.maxIFDs)
}
