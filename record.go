package tiff

import "fmt"

// Compression identifies the encoding of a strip/tile's stored bytes.
type Compression uint16

const (
	CompressionNone       Compression = 1
	CompressionOldDeflate Compression = 32946
	CompressionDeflate    Compression = 8
	CompressionLZW        Compression = 5
	CompressionOldJPEG    Compression = 6
	CompressionJPEG       Compression = 7
	CompressionZstd       Compression = 50000
	CompressionLZMA       Compression = 34925
	CompressionWebP       Compression = 50001
	CompressionJPEG2000   Compression = 34712
	CompressionLERC       Compression = 34887
)

// Photometric identifies how decoded samples map to color.
type Photometric uint16

const (
	PhotometricWhiteIsZero Photometric = 0
	PhotometricBlackIsZero Photometric = 1
	PhotometricRGB         Photometric = 2
	PhotometricPalette     Photometric = 3
	PhotometricMask        Photometric = 4
	PhotometricCMYK        Photometric = 5
	PhotometricYCbCr       Photometric = 6
)

// PlanarConfiguration selects chunky (interleaved) vs planar (band
// sequential) sample layout.
type PlanarConfiguration uint16

const (
	PlanarChunky PlanarConfiguration = 1
	PlanarPlanar PlanarConfiguration = 2
)

// Predictor identifies the de-prediction transform a tile's decoded
// bytes must be run through before they are valid sample data.
type Predictor uint16

const (
	PredictorNone          Predictor = 1
	PredictorHorizontal    Predictor = 2
	PredictorFloatingPoint Predictor = 3
)

// SampleFormat identifies the numeric interpretation of a sample.
type SampleFormat uint16

const (
	SampleFormatUint      SampleFormat = 1
	SampleFormatInt       SampleFormat = 2
	SampleFormatFloat     SampleFormat = 3
	SampleFormatUndefined SampleFormat = 4
)

// IfdRecord is one materialized Image File Directory: named mandatory and
// optional fields plus an other_tags catch-all for everything this
// reader does not give a dedicated field to.
type IfdRecord struct {
	// Mandatory fields.
	ImageWidth                uint32
	ImageLength               uint32
	BitsPerSample             []uint16
	Compression               Compression
	PhotometricInterpretation Photometric
	SamplesPerPixel           uint16
	PlanarConfiguration       PlanarConfiguration
	SampleFormat              []SampleFormat

	// Optional fields.
	NewSubfileType  uint32
	StripOffsets    []uint64
	StripByteCounts []uint64
	RowsPerStrip    uint32
	TileWidth       uint32
	TileLength      uint32
	TileOffsets     []uint64
	TileByteCounts  []uint64
	Predictor       Predictor
	ExtraSamples    []uint16
	JPEGTables      []byte
	ColorMap        []uint16

	XResolution, YResolution *Rational
	ResolutionUnit           uint16
	DateTime                 string
	Software                 string
	Artist                   string
	Copyright                string
	DocumentName             string

	Endianness Endianness

	GeoKeys *GeoKeyDirectory

	GDALMetadata string
	GDALNoData   string

	OtherTags map[Tag]TagValue

	offset        uint64
	nextIfdOffset *uint64
}

// Offset returns the file offset this IFD was read from.
func (r *IfdRecord) Offset() uint64 { return r.offset }

// NextIfdOffset returns the chained next-IFD offset, or nil if this was
// the last directory.
func (r *IfdRecord) NextIfdOffset() *uint64 { return r.nextIfdOffset }

// IsTiled reports whether this IFD declares a tiled layout.
func (r *IfdRecord) IsTiled() bool { return r.TileWidth > 0 && r.TileLength > 0 }

// TilesAcross returns ceil(ImageWidth / TileWidth) for a tiled IFD, or 0.
func (r *IfdRecord) TilesAcross() uint32 {
	if r.TileWidth == 0 {
		return 0
	}
	return ceilDiv(r.ImageWidth, r.TileWidth)
}

// TilesDown returns ceil(ImageLength / TileLength) for a tiled IFD, or 0.
func (r *IfdRecord) TilesDown() uint32 {
	if r.TileLength == 0 {
		return 0
	}
	return ceilDiv(r.ImageLength, r.TileLength)
}

func ceilDiv(a, b uint32) uint32 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// buildIfdRecord lowers a raw {Tag: TagValue} map into an IfdRecord,
// applying the defaulting and consistency rules.
func buildIfdRecord(tags map[Tag]TagValue) (*IfdRecord, error) {
	rec := &IfdRecord{
		PlanarConfiguration: PlanarChunky,
		Compression:         CompressionNone,
		OtherTags:           make(map[Tag]TagValue),
	}

	known := map[Tag]bool{
		TagNewSubfileType: true, TagImageWidth: true, TagImageLength: true,
		TagBitsPerSample: true, TagCompression: true, TagPhotometricInterpretation: true,
		TagSamplesPerPixel: true, TagPlanarConfiguration: true, TagSampleFormat: true,
		TagStripOffsets: true, TagStripByteCounts: true, TagRowsPerStrip: true,
		TagTileWidth: true, TagTileLength: true, TagTileOffsets: true, TagTileByteCounts: true,
		TagPredictor: true, TagExtraSamples: true, TagJPEGTables: true, TagColorMap: true,
		TagXResolution: true, TagYResolution: true, TagResolutionUnit: true,
		TagDateTime: true, TagSoftware: true, TagArtist: true, TagCopyright: true,
		TagDocumentName: true, TagGeoKeyDirectory: true, TagGeoDoubleParams: true,
		TagGeoAsciiParams: true, TagGDALMetadata: true, TagGDALNoData: true,
	}

	if v, ok := tags[TagImageWidth]; ok {
		n, err := v.IntoUint32()
		if err != nil {
			return nil, &FormatError{Tag: TagImageWidth, Reason: err.Error()}
		}
		rec.ImageWidth = n
	} else {
		return nil, &FormatError{Tag: TagImageWidth, Reason: "mandatory tag missing"}
	}

	if v, ok := tags[TagImageLength]; ok {
		n, err := v.IntoUint32()
		if err != nil {
			return nil, &FormatError{Tag: TagImageLength, Reason: err.Error()}
		}
		rec.ImageLength = n
	} else {
		return nil, &FormatError{Tag: TagImageLength, Reason: "mandatory tag missing"}
	}

	rec.SamplesPerPixel = 1
	if v, ok := tags[TagSamplesPerPixel]; ok {
		n, err := v.IntoUint16()
		if err != nil {
			return nil, &FormatError{Tag: TagSamplesPerPixel, Reason: err.Error()}
		}
		rec.SamplesPerPixel = n
	}

	if v, ok := tags[TagBitsPerSample]; ok {
		bps, err := v.IntoUint16Slice()
		if err != nil {
			return nil, &FormatError{Tag: TagBitsPerSample, Reason: err.Error()}
		}
		rec.BitsPerSample = bps
	} else {
		rec.BitsPerSample = make([]uint16, rec.SamplesPerPixel)
		for i := range rec.BitsPerSample {
			rec.BitsPerSample[i] = 1
		}
	}
	if len(rec.BitsPerSample) != int(rec.SamplesPerPixel) {
		return nil, &FormatError{Tag: TagBitsPerSample, Reason: fmt.Sprintf(
			"bits_per_sample has %d entries, want samples_per_pixel=%d", len(rec.BitsPerSample), rec.SamplesPerPixel)}
	}

	if v, ok := tags[TagCompression]; ok {
		n, err := v.IntoUint16()
		if err != nil {
			return nil, &FormatError{Tag: TagCompression, Reason: err.Error()}
		}
		rec.Compression = Compression(n)
	}

	if v, ok := tags[TagPhotometricInterpretation]; ok {
		n, err := v.IntoUint16()
		if err != nil {
			return nil, &FormatError{Tag: TagPhotometricInterpretation, Reason: err.Error()}
		}
		rec.PhotometricInterpretation = Photometric(n)
	} else {
		return nil, &FormatError{Tag: TagPhotometricInterpretation, Reason: "mandatory tag missing"}
	}

	if v, ok := tags[TagPlanarConfiguration]; ok && rec.SamplesPerPixel > 1 {
		n, err := v.IntoUint16()
		if err != nil {
			return nil, &FormatError{Tag: TagPlanarConfiguration, Reason: err.Error()}
		}
		rec.PlanarConfiguration = PlanarConfiguration(n)
	}

	if v, ok := tags[TagSampleFormat]; ok {
		sf, err := v.IntoUint16Slice()
		if err != nil {
			return nil, &FormatError{Tag: TagSampleFormat, Reason: err.Error()}
		}
		rec.SampleFormat = make([]SampleFormat, len(sf))
		for i, s := range sf {
			rec.SampleFormat[i] = SampleFormat(s)
		}
	} else {
		rec.SampleFormat = make([]SampleFormat, rec.SamplesPerPixel)
		for i := range rec.SampleFormat {
			rec.SampleFormat[i] = SampleFormatUint
		}
	}

	if v, ok := tags[TagNewSubfileType]; ok {
		rec.NewSubfileType, _ = v.IntoUint32()
	}
	if v, ok := tags[TagStripOffsets]; ok {
		rec.StripOffsets, _ = v.IntoUint64Slice()
	}
	if v, ok := tags[TagStripByteCounts]; ok {
		rec.StripByteCounts, _ = v.IntoUint64Slice()
	}
	if v, ok := tags[TagRowsPerStrip]; ok {
		rec.RowsPerStrip, _ = v.IntoUint32()
	}
	if v, ok := tags[TagTileWidth]; ok {
		rec.TileWidth, _ = v.IntoUint32()
	}
	if v, ok := tags[TagTileLength]; ok {
		rec.TileLength, _ = v.IntoUint32()
	}
	if v, ok := tags[TagTileOffsets]; ok {
		rec.TileOffsets, _ = v.IntoUint64Slice()
	}
	if v, ok := tags[TagTileByteCounts]; ok {
		rec.TileByteCounts, _ = v.IntoUint64Slice()
	}
	if rec.IsTiled() {
		if len(rec.TileOffsets) == 0 || len(rec.TileByteCounts) == 0 {
			return nil, ErrNotTiled
		}
		if len(rec.TileOffsets) != len(rec.TileByteCounts) {
			return nil, &CorruptError{Reason: "tile_offsets and tile_byte_counts have unequal length"}
		}
		wantLen := int(rec.TilesAcross() * rec.TilesDown())
		if rec.PlanarConfiguration == PlanarPlanar {
			wantLen *= int(rec.SamplesPerPixel)
		}
		if len(rec.TileOffsets) != wantLen {
			return nil, &CorruptError{Reason: fmt.Sprintf(
				"tile_offsets has %d entries, want %d", len(rec.TileOffsets), wantLen)}
		}
	}

	rec.Predictor = PredictorNone
	if v, ok := tags[TagPredictor]; ok {
		n, err := v.IntoUint16()
		if err != nil {
			return nil, &FormatError{Tag: TagPredictor, Reason: err.Error()}
		}
		rec.Predictor = Predictor(n)
	}
	if v, ok := tags[TagExtraSamples]; ok {
		rec.ExtraSamples, _ = v.IntoUint16Slice()
	}
	if v, ok := tags[TagJPEGTables]; ok {
		if s := v.Ascii(); s != "" {
			rec.JPEGTables = []byte(s)
		} else if lst := v.List(); lst != nil {
			rec.JPEGTables = make([]byte, len(lst))
			for i, e := range lst {
				b, _ := e.IntoUint16()
				rec.JPEGTables[i] = byte(b)
			}
		}
	}
	if v, ok := tags[TagColorMap]; ok {
		rec.ColorMap, _ = v.IntoUint16Slice()
	}
	if v, ok := tags[TagXResolution]; ok {
		if r, ok2 := rationalOf(v); ok2 {
			rec.XResolution = &r
		}
	}
	if v, ok := tags[TagYResolution]; ok {
		if r, ok2 := rationalOf(v); ok2 {
			rec.YResolution = &r
		}
	}
	if v, ok := tags[TagResolutionUnit]; ok {
		rec.ResolutionUnit, _ = v.IntoUint16()
	}
	if v, ok := tags[TagDateTime]; ok {
		rec.DateTime, _ = v.IntoAscii()
	}
	if v, ok := tags[TagSoftware]; ok {
		rec.Software, _ = v.IntoAscii()
	}
	if v, ok := tags[TagArtist]; ok {
		rec.Artist, _ = v.IntoAscii()
	}
	if v, ok := tags[TagCopyright]; ok {
		rec.Copyright, _ = v.IntoAscii()
	}
	if v, ok := tags[TagDocumentName]; ok {
		rec.DocumentName, _ = v.IntoAscii()
	}
	if v, ok := tags[TagGDALMetadata]; ok {
		rec.GDALMetadata, _ = v.IntoAscii()
	}
	if v, ok := tags[TagGDALNoData]; ok {
		rec.GDALNoData, _ = v.IntoAscii()
	}

	if _, hasDir := tags[TagGeoKeyDirectory]; hasDir {
		gk, err := parseGeoKeyDirectory(tags)
		if err != nil {
			return nil, err
		}
		rec.GeoKeys = gk
	}

	for tag, v := range tags {
		if !known[tag] {
			rec.OtherTags[tag] = v
		}
	}

	return rec, nil
}

func rationalOf(v TagValue) (Rational, bool) {
	v = v.unwrapSingleton()
	if v.Kind != KindRational {
		return Rational{}, false
	}
	return v.ratVal, true
}
