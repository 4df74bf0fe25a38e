package tiff

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
)

// buildClassicIfd appends one classic little-endian IFD (entry count,
// 12-byte entries, next-IFD offset) to buf and returns the updated
// buffer. entries must already carry correctly sized inline
// value-or-offset fields.
type classicEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32 // inline value, or offset if the value doesn't fit in 4 bytes
}

func buildClassicIfd(buf []byte, entries []classicEntry, next uint32) []byte {
	binary.LittleEndian.PutUint16(extend(&buf, 2), uint16(len(entries)))
	for _, e := range entries {
		rec := make([]byte, 12)
		binary.LittleEndian.PutUint16(rec[0:2], e.tag)
		binary.LittleEndian.PutUint16(rec[2:4], e.typ)
		binary.LittleEndian.PutUint32(rec[4:8], e.count)
		binary.LittleEndian.PutUint32(rec[8:12], e.value)
		buf = append(buf, rec...)
	}
	nextBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(nextBytes, next)
	return append(buf, nextBytes...)
}

// extend grows *buf by n zero bytes and returns the new tail slice for the
// caller to fill in, mirroring how a real encoder streams a header.
func extend(buf *[]byte, n int) []byte {
	*buf = append(*buf, make([]byte, n)...)
	return (*buf)[len(*buf)-n:]
}

func TestIfdReader_ReadAt_MinimalGrayscale(t *testing.T) {
	// Header: "II" + version 42 + first IFD offset 8.
	header := []byte{'I', 'I', 42, 0, 8, 0, 0, 0}

	ifd := buildClassicIfd(nil, []classicEntry{
		{tag: uint16(TagImageWidth), typ: uint16(typeLong), count: 1, value: 256},
		{tag: uint16(TagImageLength), typ: uint16(typeLong), count: 1, value: 256},
		{tag: uint16(TagBitsPerSample), typ: uint16(typeShort), count: 1, value: 8},
		{tag: uint16(TagPhotometricInterpretation), typ: uint16(typeShort), count: 1, value: uint32(PhotometricBlackIsZero)},
	}, 0)

	buf := append(header, ifd...)
	fetch := NewMemFetch(buf)

	r := NewIfdReader(fetch, LittleEndian, false)
	tags, next, err := r.ReadAt(context.Background(), 8)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if next != 0 {
		t.Errorf("next = %d, want 0", next)
	}

	w, err := tags[TagImageWidth].IntoUint32()
	if err != nil || w != 256 {
		t.Errorf("ImageWidth = %d, err=%v, want 256", w, err)
	}
	h, err := tags[TagImageLength].IntoUint32()
	if err != nil || h != 256 {
		t.Errorf("ImageLength = %d, err=%v, want 256", h, err)
	}
}

func TestIfdReader_ReadAt_OutOfLineAsciiValue(t *testing.T) {
	header := []byte{'I', 'I', 42, 0, 8, 0, 0, 0}

	// "GDAL" + NUL = 5 bytes, placed out-of-line after the IFD.
	str := []byte("GDAL\x00")
	strOffset := uint32(8 + 2 + 12 + 4) // after entry-count + one entry + next-ifd ptr

	ifd := buildClassicIfd(nil, []classicEntry{
		{tag: uint16(TagSoftware), typ: uint16(typeAscii), count: uint32(len(str)), value: strOffset},
	}, 0)

	buf := append(header, ifd...)
	buf = append(buf, str...)

	fetch := NewMemFetch(buf)
	r := NewIfdReader(fetch, LittleEndian, false)
	tags, _, err := r.ReadAt(context.Background(), 8)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}

	got, err := tags[TagSoftware].IntoAscii()
	if err != nil {
		t.Fatalf("IntoAscii: %v", err)
	}
	if got != "GDAL" {
		t.Errorf("Software = %q, want %q", got, "GDAL")
	}
}

func TestIfdReader_ReadAt_UnknownFieldTypeFails(t *testing.T) {
	header := []byte{'I', 'I', 42, 0, 8, 0, 0, 0}

	ifd := buildClassicIfd(nil, []classicEntry{
		{tag: uint16(TagImageWidth), typ: 255, count: 1, value: 1},
	}, 0)

	buf := append(header, ifd...)
	fetch := NewMemFetch(buf)

	r := NewIfdReader(fetch, LittleEndian, false)
	_, _, err := r.ReadAt(context.Background(), 8)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("ReadAt() err = %v, want *FormatError", err)
	}
	if fe.Tag != TagImageWidth {
		t.Errorf("FormatError.Tag = %v, want TagImageWidth", fe.Tag)
	}
}

func TestMetadataReader_DetectsBadMagic(t *testing.T) {
	_, err := OpenMetadataReader(context.Background(), NewMemFetch([]byte("XXNotATiffFile..")))
	if err != ErrBadMagic {
		t.Errorf("OpenMetadataReader() err = %v, want ErrBadMagic", err)
	}
}

func TestMetadataReader_ClassicLittleEndian(t *testing.T) {
	header := []byte{'I', 'I', 42, 0, 8, 0, 0, 0}
	ifd := buildClassicIfd(nil, []classicEntry{
		{tag: uint16(TagImageWidth), typ: uint16(typeLong), count: 1, value: 16},
		{tag: uint16(TagImageLength), typ: uint16(typeLong), count: 1, value: 16},
		{tag: uint16(TagPhotometricInterpretation), typ: uint16(typeShort), count: 1, value: uint32(PhotometricBlackIsZero)},
	}, 0)
	buf := append(header, ifd...)

	mr, err := OpenMetadataReader(context.Background(), NewMemFetch(buf))
	if err != nil {
		t.Fatalf("OpenMetadataReader: %v", err)
	}
	if mr.Endianness() != LittleEndian {
		t.Errorf("Endianness() = %v, want LittleEndian", mr.Endianness())
	}
	if mr.IsBigTIFF() {
		t.Error("IsBigTIFF() = true, want false")
	}

	recs, err := mr.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	if recs[0].ImageWidth != 16 || recs[0].ImageLength != 16 {
		t.Errorf("dims = %dx%d, want 16x16", recs[0].ImageWidth, recs[0].ImageLength)
	}
	if recs[0].Endianness != LittleEndian {
		t.Errorf("rec.Endianness = %v, want LittleEndian", recs[0].Endianness)
	}
}

func TestMetadataReader_ChainLoopGuard(t *testing.T) {
	header := []byte{'I', 'I', 42, 0, 8, 0, 0, 0}
	entry := []classicEntry{
		{tag: uint16(TagImageWidth), typ: uint16(typeLong), count: 1, value: 1},
		{tag: uint16(TagImageLength), typ: uint16(typeLong), count: 1, value: 1},
		{tag: uint16(TagPhotometricInterpretation), typ: uint16(typeShort), count: 1, value: uint32(PhotometricBlackIsZero)},
	}
	// Next-IFD offset points right back at itself: an infinite cycle.
	ifd := buildClassicIfd(nil, entry, 8)
	buf := append(header, ifd...)

	mr, err := OpenMetadataReader(context.Background(), NewMemFetch(buf), WithMaxIFDs(4))
	if err != nil {
		t.Fatalf("OpenMetadataReader: %v", err)
	}
	_, err = mr.ReadAll(context.Background())
	if err == nil {
		t.Fatal("ReadAll() on cyclic chain: want error, got nil")
	}
}
