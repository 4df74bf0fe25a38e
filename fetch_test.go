package tiff

import (
	"context"
	"errors"
	"testing"
)

func TestMemFetch_ExactRange(t *testing.T) {
	data := []byte("0123456789")
	f := NewMemFetch(data)

	got, err := f.Get(context.Background(), Range{Start: 2, End: 5})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "234" {
		t.Errorf("Get() = %q, want %q", got, "234")
	}
}

func TestMemFetch_PastEndReturnsEOF(t *testing.T) {
	f := NewMemFetch([]byte("short"))
	_, err := f.Get(context.Background(), Range{Start: 0, End: 100})
	var eof *EndOfFileError
	if !errors.As(err, &eof) {
		t.Errorf("Get() error = %v, want *EndOfFileError", err)
	}
}

func TestFetchMany_PreservesOrder(t *testing.T) {
	f := NewMemFetch([]byte("abcdefghij"))
	ranges := []Range{{Start: 0, End: 2}, {Start: 5, End: 8}, {Start: 2, End: 3}}
	got, err := f.GetMany(context.Background(), ranges)
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	want := []string{"ab", "fgh", "c"}
	for i, w := range want {
		if string(got[i]) != w {
			t.Errorf("got[%d] = %q, want %q", i, got[i], w)
		}
	}
}

