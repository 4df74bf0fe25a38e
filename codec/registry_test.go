package codec

import (
	"errors"
	"testing"

	"github.com/geocog/tiffstream"
)

func TestNewRegistry_HasBuiltins(t *testing.T) {
	r := NewRegistry()
	for _, tag := range []tiff.Compression{
		tiff.CompressionNone, tiff.CompressionDeflate, tiff.CompressionOldDeflate,
		tiff.CompressionLZW, tiff.CompressionJPEG, tiff.CompressionOldJPEG, tiff.CompressionZstd,
	} {
		if _, ok := r.Get(tag); !ok {
			t.Errorf("Get(%d): want a registered built-in codec, got none", tag)
		}
	}
}

func TestRegistry_DecodeUnregisteredReturnsUnsupported(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(tiff.CompressionJPEG2000, nil, Params{})
	var unsupported *tiff.UnsupportedCompressionError
	if !errors.As(err, &unsupported) {
		t.Errorf("Decode() err = %v, want *tiff.UnsupportedCompressionError", err)
	}
}

func TestRegistry_AddFailsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(tiff.CompressionNone, noneCodec{}); err == nil {
		t.Error("Add() over an existing registration: want error, got nil")
	}
}

func TestRegistry_Replace(t *testing.T) {
	r := NewRegistry()
	r.Replace(tiff.CompressionNone, noneCodec{})
	if _, ok := r.Get(tiff.CompressionNone); !ok {
		t.Error("Get() after Replace: want codec present")
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.Remove(tiff.CompressionLZW)
	if _, ok := r.Get(tiff.CompressionLZW); ok {
		t.Error("Get() after Remove: want no codec registered")
	}
}

func TestNoneCodec_Passthrough(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	out, err := (noneCodec{}).Decode(in, Params{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], in[i])
		}
	}
}
