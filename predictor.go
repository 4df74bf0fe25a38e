package tiff

import (
	"encoding/binary"
	"fmt"
)

// PredictorInfo carries the parameters PredictorStage needs beyond the
// predictor kind itself: how samples are packed, the file's declared
// endianness, and the tile's nominal vs physical (clipped) size.
type PredictorInfo struct {
	BitsPerSample       []uint16
	SamplesPerPixel     uint16
	Endianness          Endianness
	TileWidth           uint32
	TileHeight          uint32
	ChunkWidth          uint32 // physical width of this chunk (may be < TileWidth on edge tiles)
	ChunkHeight         uint32 // physical height of this chunk
	PlanarConfiguration PlanarConfiguration
}

// ApplyPredictor reverses the TIFF predictor applied at encode time and
// fixes up endianness, returning host-endian sample bytes. data is
// mutated and also returned.
//
// Edge tiles use ChunkWidth/ChunkHeight (the physical, possibly clipped
// dimensions), never TileWidth/TileHeight.
func ApplyPredictor(predictor Predictor, data []byte, info PredictorInfo) ([]byte, error) {
	channels := int(info.SamplesPerPixel)
	if info.PlanarConfiguration == PlanarPlanar {
		channels = 1
	}
	if len(info.BitsPerSample) == 0 {
		return nil, fmt.Errorf("tiff: predictor requires at least one bits_per_sample entry")
	}
	elemBits := info.BitsPerSample[0]
	if elemBits%8 != 0 {
		// Sub-byte samples (e.g. 1-bit masks) are not horizontally
		// predicted by any TIFF writer in practice; pass through
		// untouched.
		return data, nil
	}
	elemSize := int(elemBits / 8)

	switch predictor {
	case PredictorNone, 0:
		fixupEndianness(data, elemSize, info.Endianness)
		return data, nil
	case PredictorHorizontal:
		return applyHorizontalPredictor(data, int(info.ChunkWidth), channels, elemSize, info.Endianness)
	case PredictorFloatingPoint:
		return applyFloatingPointPredictor(data, int(info.ChunkWidth), channels, elemSize)
	default:
		return nil, fmt.Errorf("tiff: unsupported predictor %d", predictor)
	}
}

// fixupEndianness byte-swaps each elemSize-wide element in place when the
// file's declared endianness differs from the host's. It is a no-op on
// host-endian data.
func fixupEndianness(data []byte, elemSize int, order Endianness) {
	if elemSize <= 1 || orderIsHost(order) {
		return
	}
	for off := 0; off+elemSize <= len(data); off += elemSize {
		reverseBytes(data[off : off+elemSize])
	}
}

// decodeElem reads a 1/2/4/8-byte element as an unsigned integer in bo.
func decodeElem(bo binary.ByteOrder, b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(bo.Uint16(b))
	case 4:
		return uint64(bo.Uint32(b))
	case 8:
		return bo.Uint64(b)
	default:
		return 0
	}
}

// encodeElem writes v as a size-byte element in bo.
func encodeElem(bo binary.ByteOrder, dst []byte, v uint64, size int) {
	switch size {
	case 1:
		dst[0] = byte(v)
	case 2:
		bo.PutUint16(dst, uint16(v))
	case 4:
		bo.PutUint32(dst, uint32(v))
	case 8:
		bo.PutUint64(dst, v)
	}
}

func elemMask(size int) uint64 {
	if size >= 8 {
		return ^uint64(0)
	}
	return (uint64(1) << (uint(size) * 8)) - 1
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// applyHorizontalPredictor accumulates per-channel differences along
// each row, reading file-endian integers and writing host-endian ones in
// a single pass: out[i] = out[i-1] + out[i].
func applyHorizontalPredictor(data []byte, width, channels, elemSize int, order Endianness) ([]byte, error) {
	if width <= 0 || channels <= 0 {
		return data, fmt.Errorf("tiff: predictor requires positive width and channel count")
	}
	rowBytes := width * channels * elemSize
	if rowBytes == 0 {
		return data, nil
	}
	bo := order.byteOrder()
	hostBo := hostEndian().byteOrder()

	for rowOff := 0; rowOff+rowBytes <= len(data); rowOff += rowBytes {
		row := data[rowOff : rowOff+rowBytes]
		prev := make([]uint64, channels)
		for x := 0; x < width; x++ {
			for c := 0; c < channels; c++ {
				off := (x*channels + c) * elemSize
				elem := row[off : off+elemSize]
				v := decodeElem(bo, elem)
				if x > 0 {
					v = (v + prev[c]) & elemMask(elemSize)
				}
				prev[c] = v
				encodeElem(hostBo, elem, v, elemSize)
			}
		}
	}
	return data, nil
}

// applyFloatingPointPredictor reverses the TIFF floating-point predictor:
// each row is stored byte-delta coded and byte-plane shuffled (all
// sample byte-0's, then all byte-1's, ...), written big-endian
// byte-plane-major. This undoes the byte delta, reassembles each
// sample's bytes from its plane, and converts to host endianness.
// The byte-plane encoding itself is always big-endian-major per TIFF 6.0,
// regardless of the file's declared scalar endianness.
func applyFloatingPointPredictor(data []byte, width, channels, elemSize int) ([]byte, error) {
	if width <= 0 || channels <= 0 {
		return data, fmt.Errorf("tiff: predictor requires positive width and channel count")
	}
	samplesPerRow := width * channels
	rowBytes := samplesPerRow * elemSize
	if rowBytes == 0 {
		return data, nil
	}

	scratch := make([]byte, rowBytes)
	hostBo := hostEndian().byteOrder()

	for rowOff := 0; rowOff+rowBytes <= len(data); rowOff += rowBytes {
		row := data[rowOff : rowOff+rowBytes]

		// Undo the byte-level horizontal delta across the whole row.
		for i := 1; i < rowBytes; i++ {
			row[i] += row[i-1]
		}

		// Deshuffle: plane p holds byte p of every sample, big-endian
		// major (plane 0 is the most significant byte).
		for s := 0; s < samplesPerRow; s++ {
			sampleBE := make([]byte, elemSize)
			for p := 0; p < elemSize; p++ {
				sampleBE[p] = row[p*samplesPerRow+s]
			}
			v := decodeElem(binary.BigEndian, sampleBE)
			encodeElem(hostBo, scratch[s*elemSize:s*elemSize+elemSize], v, elemSize)
		}
		copy(row, scratch)
	}
	return data, nil
}
