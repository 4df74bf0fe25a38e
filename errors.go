package tiff

import (
	"errors"
	"fmt"
)

// ErrBadMagic is returned when the first four header bytes are not a
// recognized TIFF or BigTIFF signature.
var ErrBadMagic = errors.New("tiff: bad magic")

// ErrNotTiled is returned by TileAddressing when an IFD has neither tile
// tags nor strip tags to address.
var ErrNotTiled = errors.New("tiff: ifd has no tile or strip layout")

// ErrCorruptCodec is returned by a codec when the compressed payload is
// structurally invalid for the codec that was asked to decode it.
var ErrCorruptCodec = errors.New("tiff: corrupt compressed data")

// EndOfFileError reports that a ByteFetch returned fewer bytes than a
// range requested.
type EndOfFileError struct {
	Expected int64
	Got      int64
}

func (e *EndOfFileError) Error() string {
	return fmt.Sprintf("tiff: unexpected end of file: expected %d bytes, got %d", e.Expected, e.Got)
}

// FormatError reports that an IFD violates the TIFF structure the parser
// expects: an unrepresentable tag type, inconsistent array lengths, or
// invalid ASCII.
type FormatError struct {
	Tag    Tag
	Reason string
}

func (e *FormatError) Error() string {
	if e.Tag == TagUnknown {
		return fmt.Sprintf("tiff: format error: %s", e.Reason)
	}
	return fmt.Sprintf("tiff: format error on tag %s: %s", e.Tag, e.Reason)
}

// ValueConversionError reports that a TagValue variant could not be
// narrowed or widened to the primitive type a caller requested.
type ValueConversionError struct {
	From string
	To   string
}

func (e *ValueConversionError) Error() string {
	return fmt.Sprintf("tiff: cannot convert %s to %s", e.From, e.To)
}

// UnsupportedCompressionError reports that no codec is registered for a
// compression tag.
type UnsupportedCompressionError struct {
	Compression uint16
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("tiff: unsupported compression %d", e.Compression)
}

// UnsupportedInterpretationError reports that a codec has no color
// transform defined for a photometric interpretation value.
type UnsupportedInterpretationError struct {
	Photometric uint16
}

func (e *UnsupportedInterpretationError) Error() string {
	return fmt.Sprintf("tiff: unsupported photometric interpretation %d", e.Photometric)
}

// OutOfBoundsError reports a tile coordinate or index outside the bounds
// TileAddressing computed for an IFD.
type OutOfBoundsError struct {
	X, Y        int
	TilesAcross int
	TilesDown   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("tiff: tile (%d,%d) out of range (%dx%d)", e.X, e.Y, e.TilesAcross, e.TilesDown)
}

// CorruptError reports that an addressing structure (tile offsets vs.
// byte counts) is internally inconsistent.
type CorruptError struct {
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("tiff: corrupt: %s", e.Reason)
}
