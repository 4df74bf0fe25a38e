package tiff

import (
	"context"
	"encoding/binary"
	"math"
)

// EndianCursor is a seekable cursor over a MetadataFetch that reads
// endian-aware scalars, advancing its offset by the width of each value
// read.
type EndianCursor struct {
	fetch  MetadataFetch
	offset uint64
	order  Endianness
}

// NewEndianCursor creates a cursor starting at offset, interpreting
// multi-byte values with order.
func NewEndianCursor(fetch MetadataFetch, offset uint64, order Endianness) *EndianCursor {
	return &EndianCursor{fetch: fetch, offset: offset, order: order}
}

// Offset returns the cursor's current position.
func (c *EndianCursor) Offset() uint64 { return c.offset }

// Seek repositions the cursor.
func (c *EndianCursor) Seek(offset uint64) { c.offset = offset }

func (c *EndianCursor) byteOrder() binary.ByteOrder {
	return c.order.byteOrder()
}

func (c *EndianCursor) read(ctx context.Context, n uint64) ([]byte, error) {
	b, err := c.fetch.Get(ctx, Range{Start: c.offset, End: c.offset + n})
	if err != nil {
		return nil, err
	}
	c.offset += n
	return b, nil
}

func (c *EndianCursor) ReadU8(ctx context.Context) (uint8, error) {
	b, err := c.read(ctx, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *EndianCursor) ReadI8(ctx context.Context) (int8, error) {
	v, err := c.ReadU8(ctx)
	return int8(v), err
}

func (c *EndianCursor) ReadU16(ctx context.Context) (uint16, error) {
	b, err := c.read(ctx, 2)
	if err != nil {
		return 0, err
	}
	return c.byteOrder().Uint16(b), nil
}

func (c *EndianCursor) ReadI16(ctx context.Context) (int16, error) {
	v, err := c.ReadU16(ctx)
	return int16(v), err
}

func (c *EndianCursor) ReadU32(ctx context.Context) (uint32, error) {
	b, err := c.read(ctx, 4)
	if err != nil {
		return 0, err
	}
	return c.byteOrder().Uint32(b), nil
}

func (c *EndianCursor) ReadI32(ctx context.Context) (int32, error) {
	v, err := c.ReadU32(ctx)
	return int32(v), err
}

func (c *EndianCursor) ReadU64(ctx context.Context) (uint64, error) {
	b, err := c.read(ctx, 8)
	if err != nil {
		return 0, err
	}
	return c.byteOrder().Uint64(b), nil
}

func (c *EndianCursor) ReadI64(ctx context.Context) (int64, error) {
	v, err := c.ReadU64(ctx)
	return int64(v), err
}

func (c *EndianCursor) ReadF32(ctx context.Context) (float32, error) {
	v, err := c.ReadU32(ctx)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (c *EndianCursor) ReadF64(ctx context.Context) (float64, error) {
	v, err := c.ReadU64(ctx)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadU16N reads n uint16 values starting at the cursor, decoding them
// element-by-element in the file's byte order. There is no separate
// host-endian reinterpret path: the same loop runs whether or not the
// file's endianness matches the host.
func (c *EndianCursor) ReadU16N(ctx context.Context, n int) ([]uint16, error) {
	b, err := c.read(ctx, uint64(n)*2)
	if err != nil {
		return nil, err
	}
	return decodeU16Slice(b, c.order), nil
}

// ReadU32N reads n uint32 values starting at the cursor.
func (c *EndianCursor) ReadU32N(ctx context.Context, n int) ([]uint32, error) {
	b, err := c.read(ctx, uint64(n)*4)
	if err != nil {
		return nil, err
	}
	return decodeU32Slice(b, c.order), nil
}

// ReadU64N reads n uint64 values starting at the cursor.
func (c *EndianCursor) ReadU64N(ctx context.Context, n int) ([]uint64, error) {
	b, err := c.read(ctx, uint64(n)*8)
	if err != nil {
		return nil, err
	}
	return decodeU64Slice(b, c.order), nil
}

func orderIsHost(e Endianness) bool {
	return (e == LittleEndian) == hostIsLittleEndian
}

func decodeU16Slice(b []byte, order Endianness) []uint16 {
	n := len(b) / 2
	out := make([]uint16, n)
	bo := binary.ByteOrder(binary.LittleEndian)
	if order == BigEndian {
		bo = binary.BigEndian
	}
	for i := 0; i < n; i++ {
		out[i] = bo.Uint16(b[i*2 : i*2+2])
	}
	return out
}

func decodeU32Slice(b []byte, order Endianness) []uint32 {
	n := len(b) / 4
	out := make([]uint32, n)
	bo := binary.ByteOrder(binary.LittleEndian)
	if order == BigEndian {
		bo = binary.BigEndian
	}
	for i := 0; i < n; i++ {
		out[i] = bo.Uint32(b[i*4 : i*4+4])
	}
	return out
}

func decodeU64Slice(b []byte, order Endianness) []uint64 {
	n := len(b) / 8
	out := make([]uint64, n)
	bo := binary.ByteOrder(binary.LittleEndian)
	if order == BigEndian {
		bo = binary.BigEndian
	}
	for i := 0; i < n; i++ {
		out[i] = bo.Uint64(b[i*8 : i*8+8])
	}
	return out
}
