// Package gelf implements the GELF chunk wire format and payload codec: chunk
// header parsing and emission, GZip detection, JSON (de)serialization of the
// logical payload, and re-chunking of a mutated payload into outbound
// datagrams.
package gelf

import (
	"encoding/binary"

	gelflberrors "github.com/alxayo/gelflb/internal/errors"
)

// HeaderLen is the size in bytes of a GELF chunk header: 2-byte magic,
// 8-byte big-endian message id, 1-byte sequence number, 1-byte total count.
const HeaderLen = 12

// MaxChunks is the protocol ceiling on chunks per message (total is a single byte).
const MaxChunks = 128

var magicChunked = [2]byte{0x1e, 0x0f}
var magicGzip = [2]byte{0x1f, 0x8b}

// ChunkHeader is the parsed 12-byte GELF chunk header.
type ChunkHeader struct {
	MessageID  uint64
	Sequence   uint8
	TotalCount uint8
}

// IsChunked reports whether datagram begins with the GELF chunk magic and is
// long enough to contain a full 12-byte header. Datagrams with the magic but
// fewer than HeaderLen bytes are reported as not chunked, so the receiver
// handles them as simple messages; hasMagic checks only the two magic bytes.
func IsChunked(datagram []byte) bool {
	return hasMagic(datagram) && len(datagram) >= HeaderLen
}

func hasMagic(datagram []byte) bool {
	return len(datagram) >= 2 && datagram[0] == magicChunked[0] && datagram[1] == magicChunked[1]
}

// ParseChunkHeader extracts the chunk header from the front of datagram. It
// requires at least HeaderLen bytes; callers must check IsChunked (or
// equivalent length) first.
func ParseChunkHeader(datagram []byte) (ChunkHeader, error) {
	if len(datagram) < HeaderLen {
		return ChunkHeader{}, gelflberrors.NewCodecError("header.parse", nil)
	}
	return ChunkHeader{
		MessageID:  binary.BigEndian.Uint64(datagram[2:10]),
		Sequence:   datagram[10],
		TotalCount: datagram[11],
	}, nil
}

// Payload returns the fragment of datagram following the chunk header.
func Payload(datagram []byte) []byte {
	if len(datagram) <= HeaderLen {
		return nil
	}
	return datagram[HeaderLen:]
}

// WriteChunkHeader appends a 12-byte chunk header to dst and returns the
// extended slice.
func WriteChunkHeader(dst []byte, id uint64, seq, total uint8) []byte {
	dst = append(dst, magicChunked[0], magicChunked[1])
	var idBuf [8]byte
	binary.BigEndian.PutUint64(idBuf[:], id)
	dst = append(dst, idBuf[:]...)
	dst = append(dst, seq, total)
	return dst
}

// isGzip reports whether body is GZip-compressed (magic 0x1F 0x8B).
func isGzip(body []byte) bool {
	return len(body) >= 2 && body[0] == magicGzip[0] && body[1] == magicGzip[1]
}
