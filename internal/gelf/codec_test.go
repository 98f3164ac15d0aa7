package gelf

import (
	"bytes"
	"testing"
)

func TestConcatChunksPreservesOrder(t *testing.T) {
	got := ConcatChunks([][]byte{[]byte("ab"), []byte("cd"), []byte("ef")})
	if !bytes.Equal(got, []byte("abcdef")) {
		t.Fatalf("unexpected concat result: %q", got)
	}
}

func TestEncodeDecodeBodyNoGzip(t *testing.T) {
	p := &Payload{Version: "1.1", Host: "h", ShortMessage: "hi"}
	body, err := EncodeBody(p, false)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if isGzip(body) {
		t.Fatalf("expected uncompressed body")
	}
	back, err := DecodeBody(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Host != "h" || back.ShortMessage != "hi" {
		t.Fatalf("unexpected decoded payload: %+v", back)
	}
}

func TestEncodeDecodeBodyGzip(t *testing.T) {
	p := &Payload{Version: "1.1", Host: "h", ShortMessage: "compressed"}
	body, err := EncodeBody(p, true)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !isGzip(body) {
		t.Fatalf("expected gzip magic")
	}
	back, err := DecodeBody(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.ShortMessage != "compressed" {
		t.Fatalf("unexpected decoded payload: %+v", back)
	}
}

func TestDecodeBodyMalformedJSON(t *testing.T) {
	if _, err := DecodeBody([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
