package codec

// JPEG2000 (Compression 34712) and LERC (Compression 34887) are
// registrable compression tags with no built-in codec: no maintained
// pure-Go or cgo decoder for either format ships with this module.
// Callers that need them register their own Codec via
// Registry.Add/Replace under tiff.CompressionJPEG2000 /
// tiff.CompressionLERC; an unregistered tile of either compression
// reports *tiff.UnsupportedCompressionError like any other unregistered
// tag.
