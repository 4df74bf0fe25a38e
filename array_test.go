package tiff

import "testing"

func TestSampleFormatDataType(t *testing.T) {
	tests := []struct {
		format SampleFormat
		bits   uint16
		want   DataType
	}{
		{SampleFormatUint, 8, DataTypeUint8},
		{SampleFormatUint, 16, DataTypeUint16},
		{SampleFormatUint, 32, DataTypeUint32},
		{SampleFormatUint, 1, DataTypeBool},
		{SampleFormatInt, 16, DataTypeInt16},
		{SampleFormatFloat, 32, DataTypeFloat32},
		{SampleFormatFloat, 64, DataTypeFloat64},
		{SampleFormatUndefined, 8, DataTypeUint8},
	}
	for _, tt := range tests {
		got, err := SampleFormatDataType(tt.format, tt.bits)
		if err != nil {
			t.Errorf("SampleFormatDataType(%v,%d): %v", tt.format, tt.bits, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SampleFormatDataType(%v,%d) = %v, want %v", tt.format, tt.bits, got, tt.want)
		}
	}
}

func TestSampleFormatDataType_UnsupportedCombination(t *testing.T) {
	if _, err := SampleFormatDataType(SampleFormatInt, 1); err == nil {
		t.Error("SampleFormatDataType(Int,1): want error, got nil")
	}
}

func TestTypedArray_AsUint16_HostEndianRoundTrip(t *testing.T) {
	raw := make([]byte, 6)
	order := hostEndian().byteOrder()
	order.PutUint16(raw[0:2], 1)
	order.PutUint16(raw[2:4], 2)
	order.PutUint16(raw[4:6], 65535)

	arr, err := NewTypedArray(DataTypeUint16, raw)
	if err != nil {
		t.Fatalf("NewTypedArray: %v", err)
	}
	got, err := arr.AsUint16()
	if err != nil {
		t.Fatalf("AsUint16: %v", err)
	}
	want := []uint16{1, 2, 65535}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTypedArray_AsBool_MSBFirst(t *testing.T) {
	// 0b10110000 -> bits (MSB first): 1,0,1,1,0,0,0,0
	arr, err := NewTypedArray(DataTypeBool, []byte{0b10110000})
	if err != nil {
		t.Fatalf("NewTypedArray: %v", err)
	}
	got, err := arr.AsBool()
	if err != nil {
		t.Fatalf("AsBool: %v", err)
	}
	want := []bool{true, false, true, true, false, false, false, false}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bit %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTypedArray_AsBool_ClampsTrailingPadBits(t *testing.T) {
	// A 5-pixel-wide bilevel row packed into 1 byte has 3 pad bits; the
	// pixel count passed to NewTypedArray should drop them.
	arr, err := NewTypedArray(DataTypeBool, []byte{0b10110000}, 5)
	if err != nil {
		t.Fatalf("NewTypedArray: %v", err)
	}
	if arr.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", arr.Len())
	}
	got, err := arr.AsBool()
	if err != nil {
		t.Fatalf("AsBool: %v", err)
	}
	want := []bool{true, false, true, true, false}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bit %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTypedArray_RejectsUnalignedLength(t *testing.T) {
	if _, err := NewTypedArray(DataTypeUint32, []byte{1, 2, 3}); err == nil {
		t.Error("NewTypedArray() with 3 bytes for uint32: want error, got nil")
	}
}

func TestTypedArray_OffsetBufferDecodesCorrectly(t *testing.T) {
	// A sub-slice starting at a one-byte offset exercises whichever path
	// (zero-copy reinterpret or element-by-element) alignment selects.
	padded := make([]byte, 9)
	order := hostEndian().byteOrder()
	order.PutUint32(padded[1:5], 0xDEADBEEF)
	sub := padded[1:5]

	arr, err := NewTypedArray(DataTypeUint32, sub)
	if err != nil {
		t.Fatalf("NewTypedArray: %v", err)
	}
	got, err := arr.AsUint32()
	if err != nil {
		t.Fatalf("AsUint32: %v", err)
	}
	if got[0] != 0xDEADBEEF {
		t.Errorf("AsUint32()[0] = %#x, want 0xDEADBEEF", got[0])
	}
}

