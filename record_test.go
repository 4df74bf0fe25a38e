package tiff

import "testing"

func minimalTags() map[Tag]TagValue {
	return map[Tag]TagValue{
		TagImageWidth:                LongValue(64),
		TagImageLength:                LongValue(64),
		TagPhotometricInterpretation: ShortValue(uint16(PhotometricBlackIsZero)),
	}
}

func TestBuildIfdRecord_DefaultsWhenTagsMissing(t *testing.T) {
	rec, err := buildIfdRecord(minimalTags())
	if err != nil {
		t.Fatalf("buildIfdRecord: %v", err)
	}

	if rec.SamplesPerPixel != 1 {
		t.Errorf("SamplesPerPixel = %d, want 1", rec.SamplesPerPixel)
	}
	if len(rec.BitsPerSample) != 1 || rec.BitsPerSample[0] != 1 {
		t.Errorf("BitsPerSample = %v, want [1]", rec.BitsPerSample)
	}
	if rec.PlanarConfiguration != PlanarChunky {
		t.Errorf("PlanarConfiguration = %v, want Chunky", rec.PlanarConfiguration)
	}
	if rec.Compression != CompressionNone {
		t.Errorf("Compression = %v, want None", rec.Compression)
	}
	if len(rec.SampleFormat) != 1 || rec.SampleFormat[0] != SampleFormatUint {
		t.Errorf("SampleFormat = %v, want [Uint]", rec.SampleFormat)
	}
}

func TestBuildIfdRecord_MandatoryTagMissingFails(t *testing.T) {
	tags := minimalTags()
	delete(tags, TagImageWidth)
	if _, err := buildIfdRecord(tags); err == nil {
		t.Error("buildIfdRecord() with missing ImageWidth: want error, got nil")
	}
}

func TestBuildIfdRecord_BitsPerSampleLengthMismatch(t *testing.T) {
	tags := minimalTags()
	tags[TagSamplesPerPixel] = ShortValue(3)
	tags[TagBitsPerSample] = ListValue([]TagValue{ShortValue(8), ShortValue(8)}) // only 2, want 3
	if _, err := buildIfdRecord(tags); err == nil {
		t.Error("buildIfdRecord() with mismatched bits_per_sample length: want error, got nil")
	}
}

func TestBuildIfdRecord_UnknownTagsFallIntoOtherTags(t *testing.T) {
	tags := minimalTags()
	tags[Tag(60001)] = LongValue(99)
	rec, err := buildIfdRecord(tags)
	if err != nil {
		t.Fatalf("buildIfdRecord: %v", err)
	}
	v, ok := rec.OtherTags[Tag(60001)]
	if !ok {
		t.Fatal("OtherTags missing unrecognized tag 60001")
	}
	n, _ := v.IntoUint32()
	if n != 99 {
		t.Errorf("OtherTags[60001] = %d, want 99", n)
	}
}

func TestBuildIfdRecord_TiledConsistency(t *testing.T) {
	tags := minimalTags()
	tags[TagImageWidth] = LongValue(512)
	tags[TagImageLength] = LongValue(512)
	tags[TagTileWidth] = LongValue(256)
	tags[TagTileLength] = LongValue(256)
	// 2x2 tile grid needs 4 offsets/byte_counts; only give 3.
	tags[TagTileOffsets] = ListValue([]TagValue{LongValue(1), LongValue(2), LongValue(3)})
	tags[TagTileByteCounts] = ListValue([]TagValue{LongValue(1), LongValue(2), LongValue(3)})

	if _, err := buildIfdRecord(tags); err == nil {
		t.Error("buildIfdRecord() with too few tile offsets: want error, got nil")
	}
}

func TestBuildIfdRecord_TiledConsistency_CorrectCount(t *testing.T) {
	tags := minimalTags()
	tags[TagImageWidth] = LongValue(512)
	tags[TagImageLength] = LongValue(512)
	tags[TagTileWidth] = LongValue(256)
	tags[TagTileLength] = LongValue(256)
	offs := []TagValue{LongValue(1), LongValue(2), LongValue(3), LongValue(4)}
	tags[TagTileOffsets] = ListValue(offs)
	tags[TagTileByteCounts] = ListValue(offs)

	rec, err := buildIfdRecord(tags)
	if err != nil {
		t.Fatalf("buildIfdRecord: %v", err)
	}
	if rec.TilesAcross() != 2 || rec.TilesDown() != 2 {
		t.Errorf("tiles across/down = %d/%d, want 2/2", rec.TilesAcross(), rec.TilesDown())
	}
}
