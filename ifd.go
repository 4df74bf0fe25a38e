package tiff

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// fieldType is a raw TIFF/BigTIFF directory-entry type code.
type fieldType uint16

const (
	typeByte      fieldType = 1
	typeAscii     fieldType = 2
	typeShort     fieldType = 3
	typeLong      fieldType = 4
	typeRational  fieldType = 5
	typeSByte     fieldType = 6
	typeUndefined fieldType = 7
	typeSShort    fieldType = 8
	typeSLong     fieldType = 9
	typeSRational fieldType = 10
	typeFloat     fieldType = 11
	typeDouble    fieldType = 12
	typeIfd       fieldType = 13
	typeLong8     fieldType = 16
	typeSLong8    fieldType = 17
	typeIfd8      fieldType = 18
)

// typeSize returns the on-disk width of one value of type t, or false if t
// is not a recognized TIFF field type.
func typeSize(t fieldType) (int, bool) {
	switch t {
	case typeByte, typeAscii, typeSByte, typeUndefined:
		return 1, true
	case typeShort, typeSShort:
		return 2, true
	case typeLong, typeSLong, typeFloat, typeIfd:
		return 4, true
	case typeRational, typeSRational, typeDouble, typeLong8, typeSLong8, typeIfd8:
		return 8, true
	default:
		return 0, false
	}
}

// rawEntry is one directory entry before its value bytes are decoded into
// a TagValue, as read off the wire (classic 12-byte or BigTIFF 20-byte).
type rawEntry struct {
	Tag   Tag
	Type  fieldType
	Count uint64
	// Inline holds the entry's value-or-offset field verbatim: 4 bytes for
	// classic TIFF, 8 for BigTIFF.
	Inline []byte
}

// IfdReader parses the tag table of a single Image File Directory: the
// entry count, each entry's tag/type/count/value-or-offset, resolving
// out-of-line values via further reads, and the chained next-IFD offset.
type IfdReader struct {
	fetch   MetadataFetch
	order   Endianness
	bigTIFF bool
}

// NewIfdReader constructs a reader for one TIFF's IFD chain.
func NewIfdReader(fetch MetadataFetch, order Endianness, bigTIFF bool) *IfdReader {
	return &IfdReader{fetch: fetch, order: order, bigTIFF: bigTIFF}
}

func (r *IfdReader) entrySize() uint64 {
	if r.bigTIFF {
		return 20
	}
	return 12
}

func (r *IfdReader) inlineWidth() uint64 {
	if r.bigTIFF {
		return 8
	}
	return 4
}

// ReadAt parses the IFD at offset, returning its decoded tag map and the
// file offset of the next IFD in the chain (0 if this is the last one).
func (r *IfdReader) ReadAt(ctx context.Context, offset uint64) (map[Tag]TagValue, uint64, error) {
	cur := NewEndianCursor(r.fetch, offset, r.order)

	var numEntries uint64
	var err error
	if r.bigTIFF {
		numEntries, err = cur.ReadU64(ctx)
	} else {
		var n16 uint16
		n16, err = cur.ReadU16(ctx)
		numEntries = uint64(n16)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading IFD entry count at offset %d: %w", offset, err)
	}

	raws := make([]rawEntry, numEntries)
	for i := uint64(0); i < numEntries; i++ {
		e, err := r.readOneEntry(ctx, cur)
		if err != nil {
			return nil, 0, fmt.Errorf("reading IFD entry %d at offset %d: %w", i, offset, err)
		}
		raws[i] = e
	}

	var nextOffset uint64
	if r.bigTIFF {
		nextOffset, err = cur.ReadU64(ctx)
	} else {
		var n32 uint32
		n32, err = cur.ReadU32(ctx)
		nextOffset = uint64(n32)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading next-IFD offset at offset %d: %w", offset, err)
	}

	tags := make(map[Tag]TagValue, len(raws))
	for _, e := range raws {
		v, err := r.resolveValue(ctx, e)
		if err != nil {
			return nil, 0, fmt.Errorf("resolving tag %s: %w", e.Tag, err)
		}
		tags[e.Tag] = v
	}

	return tags, nextOffset, nil
}

func (r *IfdReader) readOneEntry(ctx context.Context, cur *EndianCursor) (rawEntry, error) {
	tagCode, err := cur.ReadU16(ctx)
	if err != nil {
		return rawEntry{}, err
	}
	typeCode, err := cur.ReadU16(ctx)
	if err != nil {
		return rawEntry{}, err
	}

	var count uint64
	if r.bigTIFF {
		count, err = cur.ReadU64(ctx)
	} else {
		var c32 uint32
		c32, err = cur.ReadU32(ctx)
		count = uint64(c32)
	}
	if err != nil {
		return rawEntry{}, err
	}

	width := r.inlineWidth()
	inline, err := cur.read(ctx, width)
	if err != nil {
		return rawEntry{}, err
	}
	inlineCopy := make([]byte, len(inline))
	copy(inlineCopy, inline)

	return rawEntry{Tag: Tag(tagCode), Type: fieldType(typeCode), Count: count, Inline: inlineCopy}, nil
}

// resolveValue fetches an entry's value bytes (from the inline field or,
// if too large, from the offset it holds) and decodes them into a
// TagValue per the entry's declared type and count.
func (r *IfdReader) resolveValue(ctx context.Context, e rawEntry) (TagValue, error) {
	elemSize, ok := typeSize(e.Type)
	if !ok {
		return TagValue{}, &FormatError{Tag: e.Tag, Reason: fmt.Sprintf("unknown field type %d", e.Type)}
	}

	total := e.Count * uint64(elemSize)
	var data []byte
	if total <= r.inlineWidth() {
		data = e.Inline[:total]
	} else {
		var offset uint64
		if r.bigTIFF {
			offset = r.order.decodeU64(e.Inline)
		} else {
			offset = uint64(r.order.decodeU32(e.Inline))
		}
		b, err := r.fetch.Get(ctx, Range{Start: offset, End: offset + total})
		if err != nil {
			return TagValue{}, fmt.Errorf("fetching out-of-line value at offset %d (%d bytes): %w", offset, total, err)
		}
		data = b
	}

	return decodeFieldValue(e.Type, e.Count, data, r.order)
}

// decodeFieldValue turns count elements of raw on-disk bytes of type t
// into a TagValue: a bare scalar for count == 1, a List otherwise (ASCII
// is always a single string regardless of count).
func decodeFieldValue(t fieldType, count uint64, data []byte, order Endianness) (TagValue, error) {
	if t == typeAscii {
		// TIFF ASCII values are NUL-terminated (and may contain embedded
		// NUL-separated sub-strings); trim at the first terminator for the
		// common single-string case.
		trimmed := data
		if i := strings.IndexByte(string(data), 0); i >= 0 {
			trimmed = data[:i]
		}
		if !utf8.Valid(trimmed) {
			return TagValue{}, &FormatError{Reason: "ascii value is not valid UTF-8"}
		}
		return AsciiValue(string(trimmed)), nil
	}

	elemSize, ok := typeSize(t)
	if !ok {
		return TagValue{}, &FormatError{Reason: fmt.Sprintf("unsupported field type %d", t)}
	}

	vals := make([]TagValue, count)
	for i := uint64(0); i < count; i++ {
		off := i * uint64(elemSize)
		chunk := data[off : off+uint64(elemSize)]
		v, err := decodeOneScalar(t, chunk, order)
		if err != nil {
			return TagValue{}, err
		}
		vals[i] = v
	}

	if count == 1 {
		return vals[0], nil
	}
	return ListValue(vals), nil
}

func decodeOneScalar(t fieldType, b []byte, order Endianness) (TagValue, error) {
	switch t {
	case typeByte, typeUndefined:
		return ByteValue(b[0]), nil
	case typeSByte:
		return SignedByteValue(int8(b[0])), nil
	case typeShort:
		return ShortValue(order.decodeU16(b)), nil
	case typeSShort:
		return SignedShortValue(int16(order.decodeU16(b))), nil
	case typeLong:
		return LongValue(order.decodeU32(b)), nil
	case typeSLong:
		return SignedLongValue(int32(order.decodeU32(b))), nil
	case typeLong8:
		return Long8Value(order.decodeU64(b)), nil
	case typeSLong8:
		return SignedLong8Value(int64(order.decodeU64(b))), nil
	case typeIfd:
		return IfdValue(order.decodeU32(b)), nil
	case typeIfd8:
		return IfdBigValue(order.decodeU64(b)), nil
	case typeFloat:
		return FloatValue(float32FromBits(order.decodeU32(b))), nil
	case typeDouble:
		return DoubleValue(float64FromBits(order.decodeU64(b))), nil
	case typeRational:
		return RationalValue(Rational{Num: order.decodeU32(b[0:4]), Den: order.decodeU32(b[4:8])}), nil
	case typeSRational:
		return SignedRationalValue(SignedRational{
			Num: int32(order.decodeU32(b[0:4])),
			Den: int32(order.decodeU32(b[4:8])),
		}), nil
	default:
		return TagValue{}, &FormatError{Reason: fmt.Sprintf("unsupported field type %d", t)}
	}
}
