package tiff

import "fmt"

// Tag is a TIFF/BigTIFF/GeoTIFF/GDAL tag identifier. Known tags have a
// named constant below; any other tag is carried as its raw numeric
// value, which String renders as Unknown(n) and callers recover with
// Tag.Code. TagUnknown (0) stands for "no tag".
type Tag uint16

const (
	TagUnknown Tag = 0

	TagNewSubfileType            Tag = 254
	TagImageWidth                Tag = 256
	TagImageLength               Tag = 257
	TagBitsPerSample             Tag = 258
	TagCompression               Tag = 259
	TagPhotometricInterpretation Tag = 262
	TagDocumentName              Tag = 269
	TagStripOffsets              Tag = 273
	TagSamplesPerPixel           Tag = 277
	TagRowsPerStrip              Tag = 278
	TagStripByteCounts           Tag = 279
	TagXResolution               Tag = 282
	TagYResolution               Tag = 283
	TagPlanarConfiguration       Tag = 284
	TagResolutionUnit            Tag = 296
	TagSoftware                  Tag = 305
	TagDateTime                  Tag = 306
	TagArtist                    Tag = 315
	TagPredictor                 Tag = 317
	TagColorMap                  Tag = 320
	TagTileWidth                 Tag = 322
	TagTileLength                Tag = 323
	TagTileOffsets               Tag = 324
	TagTileByteCounts            Tag = 325
	TagExtraSamples              Tag = 338
	TagSampleFormat              Tag = 339
	TagJPEGTables                Tag = 347
	TagCopyright                 Tag = 33432

	TagModelPixelScale     Tag = 33550
	TagModelTiepoint       Tag = 33922
	TagModelTransformation Tag = 34264
	TagGeoKeyDirectory     Tag = 34735
	TagGeoDoubleParams     Tag = 34736
	TagGeoAsciiParams      Tag = 34737

	TagGDALMetadata Tag = 42112
	TagGDALNoData   Tag = 42113

	TagLERCParameters  Tag = 50674
	TagRPCCoefficients Tag = 50844
)

var tagNames = map[Tag]string{
	TagNewSubfileType:            "NewSubfileType",
	TagImageWidth:                "ImageWidth",
	TagImageLength:               "ImageLength",
	TagBitsPerSample:             "BitsPerSample",
	TagCompression:               "Compression",
	TagPhotometricInterpretation: "PhotometricInterpretation",
	TagDocumentName:              "DocumentName",
	TagStripOffsets:              "StripOffsets",
	TagSamplesPerPixel:           "SamplesPerPixel",
	TagRowsPerStrip:              "RowsPerStrip",
	TagStripByteCounts:           "StripByteCounts",
	TagXResolution:               "XResolution",
	TagYResolution:               "YResolution",
	TagPlanarConfiguration:       "PlanarConfiguration",
	TagResolutionUnit:            "ResolutionUnit",
	TagSoftware:                  "Software",
	TagDateTime:                  "DateTime",
	TagArtist:                    "Artist",
	TagPredictor:                 "Predictor",
	TagColorMap:                  "ColorMap",
	TagTileWidth:                 "TileWidth",
	TagTileLength:                "TileLength",
	TagTileOffsets:               "TileOffsets",
	TagTileByteCounts:            "TileByteCounts",
	TagExtraSamples:              "ExtraSamples",
	TagSampleFormat:              "SampleFormat",
	TagJPEGTables:                "JPEGTables",
	TagCopyright:                 "Copyright",
	TagModelPixelScale:           "ModelPixelScaleTag",
	TagModelTiepoint:             "ModelTiepointTag",
	TagModelTransformation:       "ModelTransformationTag",
	TagGeoKeyDirectory:           "GeoKeyDirectoryTag",
	TagGeoDoubleParams:           "GeoDoubleParamsTag",
	TagGeoAsciiParams:            "GeoAsciiParamsTag",
	TagGDALMetadata:              "GDAL_METADATA",
	TagGDALNoData:                "GDAL_NODATA",
	TagLERCParameters:            "LercParameters",
	TagRPCCoefficients:           "RPCCoefficientTag",
}

// String implements fmt.Stringer, naming the tag if known.
func (t Tag) String() string {
	if t == TagUnknown {
		return "Unknown(0)"
	}
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// Code returns the numeric tag identifier.
func (t Tag) Code() uint16 { return uint16(t) }
