package codec

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func TestDeflateCodec_DecodesZlibFramed(t *testing.T) {
	want := []byte("GeoTIFF raster payload, repeated repeated repeated for compression")
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(want)
	w.Close()

	got, err := (deflateCodec{}).Decode(buf.Bytes(), Params{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Decode() = %q, want %q", got, want)
	}
}

func TestDeflateCodec_RejectsGarbage(t *testing.T) {
	if _, err := (deflateCodec{}).Decode([]byte("not deflate data at all"), Params{}); err == nil {
		t.Error("Decode() on garbage input: want error, got nil")
	}
}
