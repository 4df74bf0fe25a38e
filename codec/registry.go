package codec

import (
	"fmt"
	"sync"

	"github.com/geocog/tiffstream"
)

// Registry maps a TIFF Compression tag to the Codec that decodes it.
// It is safe for concurrent reads once built; Add/Replace/Remove take a
// write lock so a registry can still be tuned at startup from multiple
// goroutines, but callers should treat a Registry as immutable once
// handed to concurrent decode work.
type Registry struct {
	mu     sync.RWMutex
	codecs map[tiff.Compression]Codec
}

// NewRegistry builds a Registry with the built-in codecs that must be
// present at compile time: None, Deflate (plus its OldDeflate alias),
// LZW, baseline JPEG, and Zstd.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[tiff.Compression]Codec)}
	r.codecs[tiff.CompressionNone] = noneCodec{}
	r.codecs[tiff.CompressionDeflate] = deflateCodec{}
	r.codecs[tiff.CompressionOldDeflate] = deflateCodec{}
	r.codecs[tiff.CompressionLZW] = lzwCodec{}
	r.codecs[tiff.CompressionJPEG] = jpegCodec{}
	r.codecs[tiff.CompressionOldJPEG] = jpegCodec{}
	r.codecs[tiff.CompressionZstd] = zstdCodec{}
	return r
}

// Add registers codec for tag, failing if one is already registered.
func (r *Registry) Add(tag tiff.Compression, codec Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codecs[tag]; exists {
		return fmt.Errorf("codec: compression tag %d already registered", tag)
	}
	r.codecs[tag] = codec
	return nil
}

// Replace registers codec for tag unconditionally, overwriting a
// previous registration (built-in or not).
func (r *Registry) Replace(tag tiff.Compression, codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[tag] = codec
}

// Remove unregisters the codec for tag, if any.
func (r *Registry) Remove(tag tiff.Compression) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codecs, tag)
}

// Get returns the codec registered for tag.
func (r *Registry) Get(tag tiff.Compression) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[tag]
	return c, ok
}

// Decode dispatches buf to the codec registered for tag, returning
// *tiff.UnsupportedCompressionError if none is registered.
func (r *Registry) Decode(tag tiff.Compression, buf []byte, p Params) ([]byte, error) {
	c, ok := r.Get(tag)
	if !ok {
		return nil, &tiff.UnsupportedCompressionError{Compression: uint16(tag)}
	}
	out, err := c.Decode(buf, p)
	if err != nil {
		return nil, fmt.Errorf("decoding compression tag %d: %w", tag, err)
	}
	return out, nil
}
