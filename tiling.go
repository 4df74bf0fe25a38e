package tiff

import (
	"context"
	"fmt"
)

const defaultMinVirtualTileHeight = 256

// TileBytes holds a tile's still-compressed payload: one contiguous
// buffer for chunky layout, or one buffer per band for planar.
type TileBytes struct {
	Chunky []byte
	Planar [][]byte
}

// Tile is an unopened decode request: compressed bytes plus every
// parameter a codec and the predictor stage need to turn them into
// samples.
type Tile struct {
	X, Y                      uint32
	Width, Height             uint32 // physical (clipped) dimensions
	SamplesPerPixel           uint16
	BitsPerSample             []uint16
	SampleFormat              []SampleFormat
	PlanarConfiguration       PlanarConfiguration
	Predictor                 Predictor
	Compression               Compression
	PhotometricInterpretation Photometric
	JPEGTables                []byte
	Endianness                Endianness

	CompressedBytes TileBytes
}

// virtualStripLayout groups consecutive strips of a striped (non-tiled)
// IFD into virtual tiles at least defaultMinVirtualTileHeight rows tall,
// so that batch fetches over strip-only files are not one tiny request
// per row.
type virtualStripLayout struct {
	stripOffsets    []uint64
	stripByteCounts []uint64
	rowsPerStrip    uint32
	stripsPerTile   int
	virtualHeight   uint32
}

// TileAddressing maps (x, y) tile coordinates to byte ranges over an
// ImageFetch, for both natively tiled IFDs and striped IFDs promoted to
// a virtual tile grid.
type TileAddressing struct {
	rec   *IfdRecord
	fetch ImageFetch

	tileWidth, tileHeight uint32
	strip                 *virtualStripLayout
}

// NewTileAddressing builds a TileAddressing for rec, promoting a striped
// layout (no tile_* tags) into virtual tiles of width image_width and
// height a multiple of rows_per_strip.
func NewTileAddressing(rec *IfdRecord, fetch ImageFetch) (*TileAddressing, error) {
	if rec.IsTiled() {
		return &TileAddressing{rec: rec, fetch: fetch, tileWidth: rec.TileWidth, tileHeight: rec.TileLength}, nil
	}

	if len(rec.StripOffsets) == 0 || len(rec.StripByteCounts) == 0 {
		return nil, ErrNotTiled
	}
	if len(rec.StripOffsets) != len(rec.StripByteCounts) {
		return nil, &CorruptError{Reason: "strip_offsets and strip_byte_counts have unequal length"}
	}

	rps := rec.RowsPerStrip
	if rps == 0 {
		rps = rec.ImageLength
	}
	if rps == 0 {
		return nil, &CorruptError{Reason: "rows_per_strip and image_length are both zero"}
	}

	stripsPerTile := 1
	if rps < defaultMinVirtualTileHeight {
		stripsPerTile = int((defaultMinVirtualTileHeight + rps - 1) / rps)
	}

	strip := &virtualStripLayout{
		stripOffsets:    rec.StripOffsets,
		stripByteCounts: rec.StripByteCounts,
		rowsPerStrip:    rps,
		stripsPerTile:   stripsPerTile,
		virtualHeight:   rps * uint32(stripsPerTile),
	}

	return &TileAddressing{
		rec:        rec,
		fetch:      fetch,
		tileWidth:  rec.ImageWidth,
		tileHeight: strip.virtualHeight,
		strip:      strip,
	}, nil
}

// TilesAcross returns the number of tile columns in the (possibly
// virtual) tile grid.
func (a *TileAddressing) TilesAcross() uint32 {
	return ceilDiv(a.rec.ImageWidth, a.tileWidth)
}

// TilesDown returns the number of tile rows in the (possibly virtual)
// tile grid.
func (a *TileAddressing) TilesDown() uint32 {
	return ceilDiv(a.rec.ImageLength, a.tileHeight)
}

func (a *TileAddressing) checkBounds(x, y uint32) error {
	across, down := a.TilesAcross(), a.TilesDown()
	if x >= across || y >= down {
		return &OutOfBoundsError{X: int(x), Y: int(y), TilesAcross: int(across), TilesDown: int(down)}
	}
	return nil
}

// physicalSize returns the clipped width/height of the tile at (x, y):
// the nominal tile size, except along the last row/column where the
// image dimensions may cut it short.
func (a *TileAddressing) physicalSize(x, y uint32) (width, height uint32) {
	width = a.tileWidth
	if rem := a.rec.ImageWidth - x*a.tileWidth; rem < width {
		width = rem
	}
	height = a.tileHeight
	if rem := a.rec.ImageLength - y*a.tileHeight; rem < height {
		height = rem
	}
	return width, height
}

// chunkyIndex computes the flat index into tile_offsets/tile_byte_counts
// for a chunky tile at (x, y).
func (a *TileAddressing) chunkyIndex(x, y uint32) uint32 {
	return y*a.TilesAcross() + x
}

// planarIndex computes the flat index for band's chunk of the tile at
// (x, y) in a planar-configuration IFD.
func (a *TileAddressing) planarIndex(band, x, y uint32) uint32 {
	across, down := a.TilesAcross(), a.TilesDown()
	return band*across*down + y*across + x
}

// rangeFor returns the byte range(s) for the tile at (x, y): a single
// range for chunky layout, or one per band for planar.
func (a *TileAddressing) rangeFor(x, y uint32) ([]Range, error) {
	if err := a.checkBounds(x, y); err != nil {
		return nil, err
	}

	if a.strip != nil {
		return a.stripRanges(y)
	}

	if a.rec.PlanarConfiguration == PlanarPlanar && a.rec.SamplesPerPixel > 1 {
		ranges := make([]Range, a.rec.SamplesPerPixel)
		for band := uint32(0); band < uint32(a.rec.SamplesPerPixel); band++ {
			i := a.planarIndex(band, x, y)
			if int(i) >= len(a.rec.TileOffsets) {
				return nil, &CorruptError{Reason: fmt.Sprintf("planar tile index %d out of range", i)}
			}
			ranges[band] = Range{Start: a.rec.TileOffsets[i], End: a.rec.TileOffsets[i] + a.rec.TileByteCounts[i]}
		}
		return ranges, nil
	}

	i := a.chunkyIndex(x, y)
	if int(i) >= len(a.rec.TileOffsets) {
		return nil, &CorruptError{Reason: fmt.Sprintf("tile index %d out of range", i)}
	}
	return []Range{{Start: a.rec.TileOffsets[i], End: a.rec.TileOffsets[i] + a.rec.TileByteCounts[i]}}, nil
}

// stripRanges returns one range per strip composing virtual tile row y;
// the caller concatenates the returned buffers in order to recover the
// virtual tile's bytes.
func (a *TileAddressing) stripRanges(y uint32) ([]Range, error) {
	s := a.strip
	start := int(y) * s.stripsPerTile
	end := start + s.stripsPerTile
	if end > len(s.stripOffsets) {
		end = len(s.stripOffsets)
	}
	if start >= len(s.stripOffsets) {
		return nil, &OutOfBoundsError{Y: int(y)}
	}
	ranges := make([]Range, 0, end-start)
	for i := start; i < end; i++ {
		ranges = append(ranges, Range{Start: s.stripOffsets[i], End: s.stripOffsets[i] + s.stripByteCounts[i]})
	}
	return ranges, nil
}

// FetchTile fetches and assembles the single tile at (x, y).
func (a *TileAddressing) FetchTile(ctx context.Context, x, y uint32) (*Tile, error) {
	ranges, err := a.rangeFor(x, y)
	if err != nil {
		return nil, err
	}
	bufs, err := a.fetch.GetMany(ctx, ranges)
	if err != nil {
		return nil, fmt.Errorf("fetching tile (%d,%d): %w", x, y, err)
	}
	return a.assembleTile(x, y, bufs)
}

// FetchTiles fetches a batch of tiles in one multi-range call, then
// re-associates the returned buffers with their (x, y) coordinates by
// index.
func (a *TileAddressing) FetchTiles(ctx context.Context, coords [][2]uint32) ([]*Tile, error) {
	var allRanges []Range
	spans := make([]int, len(coords))
	for i, c := range coords {
		ranges, err := a.rangeFor(c[0], c[1])
		if err != nil {
			return nil, err
		}
		spans[i] = len(ranges)
		allRanges = append(allRanges, ranges...)
	}

	allBufs, err := a.fetch.GetMany(ctx, allRanges)
	if err != nil {
		return nil, fmt.Errorf("fetching tile batch of %d: %w", len(coords), err)
	}

	tiles := make([]*Tile, len(coords))
	cursor := 0
	for i, c := range coords {
		n := spans[i]
		tile, err := a.assembleTile(c[0], c[1], allBufs[cursor:cursor+n])
		if err != nil {
			return nil, err
		}
		tiles[i] = tile
		cursor += n
	}
	return tiles, nil
}

func (a *TileAddressing) assembleTile(x, y uint32, bufs [][]byte) (*Tile, error) {
	width, height := a.physicalSize(x, y)
	t := &Tile{
		X: x, Y: y,
		Width: width, Height: height,
		SamplesPerPixel:           a.rec.SamplesPerPixel,
		BitsPerSample:             a.rec.BitsPerSample,
		SampleFormat:              a.rec.SampleFormat,
		PlanarConfiguration:       a.rec.PlanarConfiguration,
		Predictor:                 a.rec.Predictor,
		Compression:               a.rec.Compression,
		PhotometricInterpretation: a.rec.PhotometricInterpretation,
		JPEGTables:                a.rec.JPEGTables,
		Endianness:                a.rec.Endianness,
	}

	if a.strip != nil {
		var joined []byte
		for _, b := range bufs {
			joined = append(joined, b...)
		}
		t.CompressedBytes = TileBytes{Chunky: joined}
		return t, nil
	}

	if a.rec.PlanarConfiguration == PlanarPlanar && a.rec.SamplesPerPixel > 1 {
		t.CompressedBytes = TileBytes{Planar: bufs}
		return t, nil
	}

	t.CompressedBytes = TileBytes{Chunky: bufs[0]}
	return t, nil
}
