package gelf

import (
	"bytes"
	"testing"
)

func TestIsChunked(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want bool
	}{
		{"full header", append([]byte{0x1e, 0x0f}, make([]byte, 10)...), true},
		{"short but has magic", []byte{0x1e, 0x0f, 0x00}, false},
		{"no magic", []byte{0x00, 0x00, 0x00}, false},
		{"empty", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsChunked(tc.data); got != tc.want {
				t.Fatalf("IsChunked(%x) = %v, want %v", tc.data, got, tc.want)
			}
		})
	}
}

func TestWriteAndParseChunkHeader(t *testing.T) {
	dg := WriteChunkHeader(nil, 0x0102030405060708, 2, 5)
	dg = append(dg, []byte("payload")...)

	if !IsChunked(dg) {
		t.Fatalf("expected chunked datagram")
	}
	hdr, err := ParseChunkHeader(dg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if hdr.MessageID != 0x0102030405060708 || hdr.Sequence != 2 || hdr.TotalCount != 5 {
		t.Fatalf("unexpected header: %+v", hdr)
	}
	if !bytes.Equal(Payload(dg), []byte("payload")) {
		t.Fatalf("unexpected payload: %q", Payload(dg))
	}
}

func TestParseChunkHeaderTooShort(t *testing.T) {
	if _, err := ParseChunkHeader([]byte{0x1e, 0x0f, 0x00}); err == nil {
		t.Fatalf("expected error for undersized header")
	}
}
