//go:build lzma

package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/geocog/tiffstream"
)

// lzmaCodec decodes TIFF Compression 34925 (LZMA), an optional
// feature-gated codec not required at compile time; build with -tags
// lzma to register it via RegisterLZMA.
type lzmaCodec struct{}

func (lzmaCodec) Decode(buf []byte, _ Params) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tiff.ErrCorruptCodec, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tiff.ErrCorruptCodec, err)
	}
	return out, nil
}

// RegisterLZMA adds the LZMA codec to r under Compression 34925.
func RegisterLZMA(r *Registry) {
	r.Replace(tiff.CompressionLZMA, lzmaCodec{})
}
