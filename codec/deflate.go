package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"

	"github.com/geocog/tiffstream"
)

// deflateCodec decodes TIFF Compression 8 (Deflate, RFC 1950 zlib
// framing) and its legacy alias 32946 (OldDeflate). TIFF writers
// overwhelmingly emit the zlib-framed form; some older writers omit the
// 2-byte zlib header and write raw DEFLATE, so zlib failure falls back
// to a raw flate reader.
type deflateCodec struct{}

func (deflateCodec) Decode(buf []byte, _ Params) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(buf)); err == nil {
		out, readErr := io.ReadAll(zr)
		zr.Close()
		if readErr == nil {
			return out, nil
		}
	}

	fr := flate.NewReader(bytes.NewReader(buf))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tiff.ErrCorruptCodec, err)
	}
	return out, nil
}
