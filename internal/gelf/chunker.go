package gelf

import gelflberrors "github.com/alxayo/gelflb/internal/errors"

// ipUDPOverhead is the worst-case byte allowance for an outer IPv4 (options,
// up to 60 bytes) + UDP (8 bytes) header wrapping an outbound datagram.
const ipUDPOverhead = 68

// Outbound is the result of re-chunking a logical payload: either a single
// datagram with no GELF chunk header (Datagrams has length 1 and Chunked is
// false), or a series of chunk datagrams sharing one message id.
type Outbound struct {
	Chunked   bool
	Datagrams [][]byte
}

// Rechunk partitions payload into outbound datagrams bounded by chunkSize
// (the configured target, inclusive of IP/UDP and GELF chunk headers). If the
// payload fits as a single datagram once the IP/UDP allowance is accounted
// for, it is emitted unchunked. newID supplies a fresh message id for
// multi-chunk output.
//
// A payload that would need more than MaxChunks (128, the protocol ceiling:
// total count is a single byte and GELF caps it at 128) is rejected rather
// than silently capped: capping the chunk count while still walking the
// same fixed-size stride would dump the remainder into one oversized final
// chunk far past chunkSize, which would likely exceed the path MTU and fail
// to send at all. The caller drops the message and logs the error, the same
// policy already used for JSON/GZip decode and encode failures.
func Rechunk(payload []byte, chunkSize int, newID func() uint64) (Outbound, error) {
	if len(payload)+ipUDPOverhead <= chunkSize {
		return Outbound{Chunked: false, Datagrams: [][]byte{payload}}, nil
	}

	maxFragment := chunkSize - ipUDPOverhead - HeaderLen
	if maxFragment < 1 {
		maxFragment = 1
	}

	total := (len(payload) + maxFragment - 1) / maxFragment
	if total > MaxChunks {
		return Outbound{}, gelflberrors.NewCodecError("rechunk.too_many_chunks", nil)
	}
	id := newID()

	datagrams := make([][]byte, 0, total)
	off := 0
	for seq := 0; seq < total; seq++ {
		end := off + maxFragment
		if end > len(payload) {
			end = len(payload)
		}
		dg := WriteChunkHeader(make([]byte, 0, HeaderLen+(end-off)), id, uint8(seq), uint8(total))
		dg = append(dg, payload[off:end]...)
		datagrams = append(datagrams, dg)
		off = end
	}
	return Outbound{Chunked: true, Datagrams: datagrams}, nil
}
