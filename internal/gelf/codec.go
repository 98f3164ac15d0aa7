package gelf

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"

	gelflberrors "github.com/alxayo/gelflb/internal/errors"
)

// ConcatChunks joins chunk payload fragments in the order given (no sort by
// sequence number; the reassembly table keeps fragments in arrival order).
func ConcatChunks(fragments [][]byte) []byte {
	total := 0
	for _, f := range fragments {
		total += len(f)
	}
	out := make([]byte, 0, total)
	for _, f := range fragments {
		out = append(out, f...)
	}
	return out
}

// DecodeBody gunzips body if it carries the GZip magic, then JSON-decodes it
// into a Payload.
func DecodeBody(body []byte) (*Payload, error) {
	raw := body
	if isGzip(body) {
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, gelflberrors.NewCodecError("decode.gzip", err)
		}
		defer zr.Close()
		decompressed, err := io.ReadAll(zr)
		if err != nil {
			return nil, gelflberrors.NewCodecError("decode.gzip", err)
		}
		raw = decompressed
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, gelflberrors.NewCodecError("decode.json", err)
	}
	return &p, nil
}

// EncodeBody JSON-serializes p and, if useGzip, compresses at best
// compression, returning the logical payload bytes ready for chunking.
func EncodeBody(p *Payload, useGzip bool) ([]byte, error) {
	jb, err := json.Marshal(p)
	if err != nil {
		return nil, gelflberrors.NewCodecError("encode.json", err)
	}
	if !useGzip {
		return jb, nil
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, gelflberrors.NewCodecError("encode.gzip", err)
	}
	if _, err := zw.Write(jb); err != nil {
		zw.Close()
		return nil, gelflberrors.NewCodecError("encode.gzip", err)
	}
	if err := zw.Close(); err != nil {
		return nil, gelflberrors.NewCodecError("encode.gzip", err)
	}
	return buf.Bytes(), nil
}
