package codec

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gen2brain/webp"

	"github.com/geocog/tiffstream"
)

// webpCodec decodes TIFF Compression 50001 (WebP), a GDAL/COG extension.
// A tile declared with samples_per_pixel = 4 (RGBA) but whose WebP stream
// only carries 3 channels is expanded with a synthesized opaque alpha
// band,; any other samples_per_pixel/channel-count
// mismatch is reported as unsupported rather than guessed at.
type webpCodec struct{}

// RegisterWebP adds the WebP codec to r under Compression 50001. WebP is
// optional — callers opt in explicitly rather than
// getting it from NewRegistry, even though (unlike LZMA, which sits
// behind the lzma build tag) no build tag is needed since gen2brain/webp
// is pure Go.
func RegisterWebP(r *Registry) {
	r.Replace(tiff.CompressionWebP, webpCodec{})
}

func (webpCodec) Decode(buf []byte, p Params) ([]byte, error) {
	img, err := webp.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tiff.ErrCorruptCodec, err)
	}

	rgba, ok := img.(*image.NRGBA)
	if !ok {
		b := img.Bounds()
		conv := image.NewNRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				conv.Set(x, y, img.At(x, y))
			}
		}
		rgba = conv
	}

	bounds := rgba.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch p.SamplesPerPixel {
	case 4:
		return rgba.Pix, nil
	case 3:
		out := make([]byte, 0, w*h*3)
		for y := 0; y < h; y++ {
			row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
			for x := 0; x < w; x++ {
				out = append(out, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
		return out, nil
	default:
		return nil, &tiff.UnsupportedInterpretationError{Photometric: uint16(p.Photometric)}
	}
}
