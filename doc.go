// Package tiff reads the TIFF family of raster container formats —
// classic TIFF, BigTIFF, Cloud-Optimized GeoTIFF and OME-TIFF — over an
// abstract ranged byte fetcher, so callers can pull image tiles out of
// local files or remote object stores without downloading whole files.
//
// The read path has three pieces: a [ByteFetch] supplied by the caller,
// wrapped in a [ReadaheadCache]; a [MetadataReader] that walks the IFD
// chain into a slice of [IfdRecord]; and [TileAddressing], which maps
// (x, y) tile coordinates into byte ranges whose fetched bytes become a
// [Tile], decoded by codec.Decode in the sibling codec package.
//
// Writing TIFFs, rendering, reprojection and GPU decoding are out of
// scope; this package only reads.
package tiff
