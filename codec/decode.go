package codec

import (
	"fmt"

	"github.com/geocog/tiffstream"
)

// Decode runs the full tile decode pipeline: DecoderRegistry → PredictorStage
// → TypedArray. It is the single
// entry point callers use once TileAddressing has produced a Tile.
func Decode(t *tiff.Tile, registry *Registry) (*tiff.Array, error) {
	params := Params{
		Photometric:     t.PhotometricInterpretation,
		JPEGTables:      t.JPEGTables,
		SamplesPerPixel: t.SamplesPerPixel,
		BitsPerSample:   t.BitsPerSample,
	}

	info := tiff.PredictorInfo{
		BitsPerSample:       t.BitsPerSample,
		SamplesPerPixel:     t.SamplesPerPixel,
		TileWidth:           t.Width,
		TileHeight:          t.Height,
		ChunkWidth:          t.Width,
		ChunkHeight:         t.Height,
		PlanarConfiguration: t.PlanarConfiguration,
		Endianness:          t.Endianness,
	}

	if t.PlanarConfiguration == tiff.PlanarPlanar && len(t.CompressedBytes.Planar) > 0 {
		bands := make([][]byte, len(t.CompressedBytes.Planar))
		for i, chunk := range t.CompressedBytes.Planar {
			decoded, err := registry.Decode(t.Compression, chunk, params)
			if err != nil {
				return nil, fmt.Errorf("decoding band %d: %w", i, err)
			}
			fixed, err := tiff.ApplyPredictor(t.Predictor, decoded, info)
			if err != nil {
				return nil, fmt.Errorf("applying predictor to band %d: %w", i, err)
			}
			bands[i] = fixed
		}
		var joined []byte
		for _, b := range bands {
			joined = append(joined, b...)
		}
		return assembleArray(joined, t, true)
	}

	decoded, err := registry.Decode(t.Compression, t.CompressedBytes.Chunky, params)
	if err != nil {
		return nil, err
	}
	fixed, err := tiff.ApplyPredictor(t.Predictor, decoded, info)
	if err != nil {
		return nil, fmt.Errorf("applying predictor: %w", err)
	}
	return assembleArray(fixed, t, false)
}

func assembleArray(data []byte, t *tiff.Tile, planar bool) (*tiff.Array, error) {
	if len(t.BitsPerSample) == 0 || len(t.SampleFormat) == 0 {
		return nil, fmt.Errorf("tiff: tile is missing bits_per_sample/sample_format")
	}
	dtype, err := tiff.SampleFormatDataType(t.SampleFormat[0], t.BitsPerSample[0])
	if err != nil {
		return nil, err
	}

	arr, err := tiff.NewTypedArray(dtype, data, int(t.Height)*int(t.Width)*int(t.SamplesPerPixel))
	if err != nil {
		return nil, err
	}

	shape := [3]int{int(t.Height), int(t.Width), int(t.SamplesPerPixel)}
	if planar {
		shape = [3]int{int(t.SamplesPerPixel), int(t.Height), int(t.Width)}
	}

	return &tiff.Array{Data: arr, Shape: shape, Planar: planar, DataType: dtype}, nil
}
