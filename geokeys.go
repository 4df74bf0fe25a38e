package tiff

import "fmt"

// GeoKey is a GeoTIFF GeoKeyDirectory key identifier.
type GeoKey uint16

const (
	GeoKeyGTModelType  GeoKey = 1024
	GeoKeyGTRasterType GeoKey = 1025
	GeoKeyGTCitation   GeoKey = 1026

	GeoKeyGeodeticCRS   GeoKey = 2048
	GeoKeyGeogCitation  GeoKey = 2049
	GeoKeyGeodeticDatum GeoKey = 2050
	GeoKeyLinearUnits   GeoKey = 2052
	GeoKeyAngularUnits  GeoKey = 2054
	GeoKeyEllipsoid     GeoKey = 2056

	GeoKeyProjectedCRS GeoKey = 3072
	GeoKeyPCSCitation  GeoKey = 3073
	GeoKeyProjection   GeoKey = 3074
	GeoKeyProjMethod   GeoKey = 3075

	GeoKeyVertical      GeoKey = 4096
	GeoKeyVerticalDatum GeoKey = 4098
	GeoKeyVerticalUnits GeoKey = 4099
)

// GeoKeyEntry is one raw (key_id, tag_location, count, value_or_offset)
// record from the GeoKeyDirectory. Every key gets one, including keys
// that are also resolved into one of the typed maps below; keys with an
// unrecognized tag_location appear only here.
type GeoKeyEntry struct {
	KeyID       GeoKey
	TagLocation uint16
	Count       uint16
	ValueOffset uint16
}

// GeoKeyDirectory is the parsed GeoTIFF GeoKeyDirectory sub-block: the
// raw key list plus each key's value, resolved by tag_location into one
// of three typed maps.
type GeoKeyDirectory struct {
	Version  uint16
	Revision uint16
	Minor    uint16

	Entries []GeoKeyEntry
	Short   map[GeoKey]uint16
	Double  map[GeoKey]float64
	Ascii   map[GeoKey]string
}

// parseGeoKeyDirectory post-processes the four linked GeoTIFF tags into a
// GeoKeyDirectory.
func parseGeoKeyDirectory(tags map[Tag]TagValue) (*GeoKeyDirectory, error) {
	dirVal, ok := tags[TagGeoKeyDirectory]
	if !ok {
		return nil, nil
	}
	dir, err := dirVal.IntoUint16Slice()
	if err != nil {
		return nil, &FormatError{Tag: TagGeoKeyDirectory, Reason: err.Error()}
	}
	if len(dir) < 4 {
		return nil, &FormatError{Tag: TagGeoKeyDirectory, Reason: "directory shorter than its header"}
	}

	version, revision, minor, numKeys := dir[0], dir[1], dir[2], dir[3]
	if version != 1 || revision != 1 {
		return nil, &FormatError{Tag: TagGeoKeyDirectory, Reason: fmt.Sprintf(
			"unsupported GeoKeyDirectory version %d.%d", version, revision)}
	}
	if len(dir) != 4+4*int(numKeys) {
		return nil, &FormatError{Tag: TagGeoKeyDirectory, Reason: fmt.Sprintf(
			"num_keys=%d does not match directory length %d", numKeys, len(dir))}
	}

	var doubles []float64
	if v, ok := tags[TagGeoDoubleParams]; ok {
		doubles, err = v.IntoFloat64Slice()
		if err != nil {
			return nil, &FormatError{Tag: TagGeoDoubleParams, Reason: err.Error()}
		}
	}
	var ascii string
	if v, ok := tags[TagGeoAsciiParams]; ok {
		ascii, _ = v.IntoAscii()
		if ascii == "" {
			// IntoAscii unwraps a List/singleton but GeoAsciiParams is
			// stored as a single packed string in practice; fall back to
			// the raw List-of-bytes form some writers use.
			if lst := v.List(); lst != nil {
				b := make([]byte, len(lst))
				for i, e := range lst {
					n, _ := e.IntoUint16()
					b[i] = byte(n)
				}
				ascii = string(b)
			}
		}
	}

	gk := &GeoKeyDirectory{
		Version: version, Revision: revision, Minor: minor,
		Short:  make(map[GeoKey]uint16),
		Double: make(map[GeoKey]float64),
		Ascii:  make(map[GeoKey]string),
	}

	asciiTagCode := TagGeoAsciiParams.Code()
	doubleTagCode := TagGeoDoubleParams.Code()

	for i := 0; i < int(numKeys); i++ {
		base := 4 + i*4
		entry := GeoKeyEntry{
			KeyID:       GeoKey(dir[base]),
			TagLocation: dir[base+1],
			Count:       dir[base+2],
			ValueOffset: dir[base+3],
		}
		gk.Entries = append(gk.Entries, entry)

		switch entry.TagLocation {
		case 0:
			gk.Short[entry.KeyID] = entry.ValueOffset
		case asciiTagCode:
			start := int(entry.ValueOffset)
			end := start + int(entry.Count)
			if start < 0 || end > len(ascii) {
				return nil, &FormatError{Tag: TagGeoAsciiParams, Reason: fmt.Sprintf(
					"key %d: ascii substring [%d,%d) out of range (len=%d)", entry.KeyID, start, end, len(ascii))}
			}
			s := ascii[start:end]
			if len(s) > 0 && s[len(s)-1] == '|' {
				s = s[:len(s)-1]
			}
			gk.Ascii[entry.KeyID] = s
		case doubleTagCode:
			idx := int(entry.ValueOffset)
			if idx < 0 || idx+int(entry.Count) > len(doubles) {
				return nil, &FormatError{Tag: TagGeoDoubleParams, Reason: fmt.Sprintf(
					"key %d: double index %d (count %d) out of range (len=%d)", entry.KeyID, idx, entry.Count, len(doubles))}
			}
			// Multi-value double keys do not occur in the GeoTIFF key
			// registry today; Double holds the first (and normally only)
			// value, Entries.Count still records the run length.
			gk.Double[entry.KeyID] = doubles[idx]
		default:
			// Unknown tag_location: preserve as a raw entry without
			// failing the parse.
		}
	}

	return gk, nil
}
