// Package balancer implements the single-consumer dispatch loop: conditional
// reassembly, per-message backend selection, optional payload mutation, and
// forwarding to a transparent raw sender or a plain UDP socket.
package balancer

import (
	"net"
	"time"

	"github.com/alxayo/gelflb/internal/gelf"
)

// Packet is one wire datagram plus the metadata extracted from it.
type Packet struct {
	Data        []byte
	Src         net.Addr
	Chunked     bool
	MessageID   uint64
	Sequence    uint8
	TotalChunks uint8
}

// ChunkedMessage is an in-progress or completed reassembly as seen by the
// dispatcher: it carries the full Packet of every chunk observed, in arrival
// order. NewChunked builds one holding a single chunk.
type ChunkedMessage struct {
	ID            uint64
	ArrivalTime   time.Time
	ExpectedTotal uint8
	Src           net.Addr
	Chunks        []Packet
}

// Wrapper is the tagged union the dispatcher operates on uniformly: either a
// single Simple packet or a (possibly still partial) Chunked message.
type Wrapper struct {
	IsChunked bool
	Simple    Packet
	Chunked   ChunkedMessage
}

// NewSimple wraps a non-chunked packet.
func NewSimple(p Packet) Wrapper {
	return Wrapper{IsChunked: false, Simple: p}
}

// NewChunked wraps a single received chunk as a one-element ChunkedMessage,
// ready to be inserted into or merged with the reassembly table.
func NewChunked(p Packet) Wrapper {
	return Wrapper{
		IsChunked: true,
		Chunked: ChunkedMessage{
			ID:            p.MessageID,
			ArrivalTime:   time.Now(),
			ExpectedTotal: p.TotalChunks,
			Src:           p.Src,
			Chunks:        []Packet{p},
		},
	}
}

// fragments extracts the header-stripped payload of each chunk, in order.
func (c *ChunkedMessage) fragments() [][]byte {
	out := make([][]byte, len(c.Chunks))
	for i, p := range c.Chunks {
		out[i] = gelf.Payload(p.Data)
	}
	return out
}
