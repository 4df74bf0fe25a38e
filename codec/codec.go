// Package codec implements the pluggable decompressors the tile pipeline
// dispatches to by TIFF Compression tag.
package codec

import "github.com/geocog/tiffstream"

// Params carries everything a Codec needs beyond the compressed buffer
// itself: the photometric interpretation (drives JPEG color-transform
// selection), a shared JPEGTables blob for TIFF-embedded JPEG, and the
// sample layout needed by codecs whose output depends on it (LERC).
type Params struct {
	Photometric     tiff.Photometric
	JPEGTables      []byte
	SamplesPerPixel uint16
	BitsPerSample   []uint16
	LERCParameters  []uint32
}

// Codec decodes one compressed strip/tile buffer into raw decoded sample
// bytes, in the image's sample byte order — endianness correction and
// predictor reversal happen later, in the predictor stage. Implementations
// must be safe for concurrent use, since callers commonly pool decode
// work across worker goroutines.
type Codec interface {
	Decode(buf []byte, p Params) ([]byte, error)
}
