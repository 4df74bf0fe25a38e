package tiff

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Endianness is the byte order declared in a TIFF header, read once from
// bytes 0..2 ("II" or "MM").
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) String() string {
	if e == BigEndian {
		return "BigEndian"
	}
	return "LittleEndian"
}

// hostIsLittleEndian reports the host's native byte order, used by the
// predictor stage to decide whether decoded samples must be byte-swapped
// and by TypedArray's accessors to decode in host order.
var hostIsLittleEndian = func() bool {
	var x uint16 = 1
	return (*[2]byte)(unsafe.Pointer(&x))[0] == 1
}()

func (e Endianness) byteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (e Endianness) decodeU16(b []byte) uint16 { return e.byteOrder().Uint16(b) }
func (e Endianness) decodeU32(b []byte) uint32 { return e.byteOrder().Uint32(b) }
func (e Endianness) decodeU64(b []byte) uint64 { return e.byteOrder().Uint64(b) }

func float32FromBits(bits uint32) float32 { return math.Float32frombits(bits) }
func float64FromBits(bits uint64) float64 { return math.Float64frombits(bits) }
