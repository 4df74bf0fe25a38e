package codec

import (
	"fmt"
	"io"

	"github.com/geocog/tiffstream"
)

// TIFF 6.0 uses an LZW variant that differs from the GIF/PDF one Go's
// standard compress/lzw package implements: TIFF widens the code one
// code early ("early change"), as soon as the next free code is one
// short of the current width's limit, where GIF waits until the limit
// itself is reached. Running Go's stdlib decoder against a TIFF stream
// produces "invalid code" errors, so this codec reimplements the TIFF
// variant directly (MSB-first bit packing, early change).
const (
	lzwMaxWidth  = 12
	lzwClearCode = 256
	lzwEOICode   = 257
	lzwFirstCode = 258
	lzwTableSize = 4097
)

type lzwCodec struct{}

func (lzwCodec) Decode(buf []byte, _ Params) ([]byte, error) {
	out, err := decodeTIFFLZW(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tiff.ErrCorruptCodec, err)
	}
	return out, nil
}

type lzwEntry struct {
	prefix int
	suffix byte
	length int
}

type bitReader struct {
	src    []byte
	bitPos int
}

func (r *bitReader) readBits(n int) (int, error) {
	result := 0
	for i := 0; i < n; i++ {
		bytePos := r.bitPos / 8
		if bytePos >= len(r.src) {
			return 0, io.ErrUnexpectedEOF
		}
		bitOff := 7 - (r.bitPos % 8)
		bit := (int(r.src[bytePos]) >> bitOff) & 1
		result = (result << 1) | bit
		r.bitPos++
	}
	return result, nil
}

// decodeTIFFLZW decompresses a TIFF LZW-compressed strip or tile.
func decodeTIFFLZW(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	table := make([]lzwEntry, lzwTableSize)
	for i := 0; i < 256; i++ {
		table[i] = lzwEntry{prefix: -1, suffix: byte(i), length: 1}
	}

	nextCode := lzwFirstCode
	codeWidth := 9
	r := &bitReader{src: data}

	var output []byte
	scratch := make([]byte, 0, 4096)

	getString := func(code int) []byte {
		entry := &table[code]
		scratch = scratch[:entry.length]
		idx := entry.length - 1
		for code >= 0 {
			e := &table[code]
			scratch[idx] = e.suffix
			idx--
			code = e.prefix
		}
		return scratch
	}

	first, err := r.readBits(codeWidth)
	if err != nil {
		return nil, err
	}
	if first != lzwClearCode {
		return nil, fmt.Errorf("lzw: stream does not start with a clear code")
	}

	prevCode := -1
	for {
		code, err := r.readBits(codeWidth)
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				return output, nil
			}
			return nil, err
		}

		switch {
		case code == lzwEOICode:
			return output, nil
		case code == lzwClearCode:
			nextCode = lzwFirstCode
			codeWidth = 9
			prevCode = -1
			continue
		case prevCode == -1:
			if code >= 256 {
				return nil, fmt.Errorf("lzw: first code after clear is not a literal")
			}
			output = append(output, byte(code))
			prevCode = code
			continue
		}

		var emitted []byte
		switch {
		case code < nextCode:
			emitted = getString(code)
			output = append(output, emitted...)
			if nextCode < lzwTableSize {
				table[nextCode] = lzwEntry{prefix: prevCode, suffix: emitted[0], length: table[prevCode].length + 1}
				nextCode++
			}
		case code == nextCode:
			prevStr := getString(prevCode)
			first := prevStr[0]
			output = append(output, prevStr...)
			output = append(output, first)
			if nextCode < lzwTableSize {
				table[nextCode] = lzwEntry{prefix: prevCode, suffix: first, length: table[prevCode].length + 1}
				nextCode++
			}
		default:
			return nil, fmt.Errorf("lzw: invalid code %d (next=%d)", code, nextCode)
		}

		if nextCode+1 >= (1<<codeWidth) && codeWidth < lzwMaxWidth {
			codeWidth++
		}
		prevCode = code
	}
}
