package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/geocog/tiffstream"
)

// jpegCodec decodes TIFF-embedded baseline JPEG (Compression 7, and the
// legacy OldJPEG tag 6), stitching a shared JPEGTables blob in front of
// the tile's entropy-coded data when present.
type jpegCodec struct{}

func (jpegCodec) Decode(buf []byte, p Params) ([]byte, error) {
	switch p.Photometric {
	case tiff.PhotometricRGB, tiff.PhotometricBlackIsZero, tiff.PhotometricWhiteIsZero,
		tiff.PhotometricMask, tiff.PhotometricCMYK, tiff.PhotometricYCbCr:
	default:
		return nil, &tiff.UnsupportedInterpretationError{Photometric: uint16(p.Photometric)}
	}

	data := stitchJPEGTables(p.JPEGTables, buf)

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tiff.ErrCorruptCodec, err)
	}
	return jpegImageBytes(img)
}

// stitchJPEGTables concatenates a shared JPEGTables blob with a tile's
// entropy-coded JPEG stream. The tables blob ends with an EOI marker
// (0xFFD9) and the tile begins with an SOI marker (0xFFD8); both are
// dropped at the join so the result is one well-formed JPEG stream.
func stitchJPEGTables(tables, tile []byte) []byte {
	if len(tables) == 0 {
		return tile
	}
	if len(tables) >= 2 && tables[len(tables)-2] == 0xFF && tables[len(tables)-1] == 0xD9 {
		tables = tables[:len(tables)-2]
	}
	if len(tile) >= 2 && tile[0] == 0xFF && tile[1] == 0xD8 {
		tile = tile[2:]
	}
	out := make([]byte, len(tables)+len(tile))
	copy(out, tables)
	copy(out[len(tables):], tile)
	return out
}

// jpegImageBytes extracts raw interleaved sample bytes from a decoded
// JPEG image, matching the handful of color models image/jpeg produces.
func jpegImageBytes(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch px := img.(type) {
	case *image.Gray:
		return px.Pix, nil
	case *image.YCbCr:
		out := make([]byte, 0, w*h*3)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := px.At(x, y).RGBA()
				out = append(out, byte(r>>8), byte(g>>8), byte(b>>8))
			}
		}
		return out, nil
	case *image.CMYK:
		return px.Pix, nil
	default:
		out := make([]byte, 0, w*h*3)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				out = append(out, byte(r>>8), byte(g>>8), byte(b>>8))
			}
		}
		return out, nil
	}
}
