package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/geocog/tiffstream"
)

// zstdCodec decodes TIFF Compression 50000 (Zstd), the libtiff-assigned
// private tag GDAL COGs use.
type zstdCodec struct{}

func (zstdCodec) Decode(buf []byte, _ Params) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("constructing zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(buf, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tiff.ErrCorruptCodec, err)
	}
	return out, nil
}
