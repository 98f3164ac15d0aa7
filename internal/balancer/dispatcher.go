package balancer

import (
	"log/slog"
	"net"

	"github.com/alxayo/gelflb/internal/errors"
	"github.com/alxayo/gelflb/internal/gelf"
	"github.com/alxayo/gelflb/internal/logger"
	"github.com/alxayo/gelflb/internal/reassembly"
)

// PacketBuilder constructs a full IP+UDP datagram spoofing src as the
// outbound packet's source address, for transparent forwarding.
type PacketBuilder interface {
	Build(src, dst net.Addr, payload []byte) ([]byte, error)
}

// RawSender transmits an already-built IP+UDP datagram via a raw socket.
type RawSender interface {
	SendRaw(datagram []byte, dst net.Addr) error
}

// PlainSender transmits a UDP payload through a regular bound socket of the
// matching address family.
type PlainSender interface {
	Send(payload []byte, dst net.Addr) error
}

// Dispatcher is the single-writer consumer of the inbound queue.
type Dispatcher struct {
	Backends      []net.Addr
	Mutation      MutationConfig
	Table         *reassembly.Table
	Counters      *Counters
	RawSender     RawSender
	PacketBuilder PacketBuilder
	PlainSender   PlainSender
	Log           *slog.Logger

	roundRobin *RoundRobin
}

// NewDispatcher wires a Dispatcher ready to run. roundRobin state is
// private so Run can be called repeatedly against the same instance.
func NewDispatcher(d *Dispatcher) *Dispatcher {
	d.roundRobin = NewRoundRobin(d.Backends)
	if d.Log == nil {
		d.Log = logger.Logger()
	}
	return d
}

// Run drains queue until it is closed. It is infallible by design: decode
// and send errors are logged and the loop continues.
func (d *Dispatcher) Run(queue <-chan Wrapper) {
	for w := range queue {
		d.handle(w)
	}
}

func (d *Dispatcher) handle(w Wrapper) {
	if d.Mutation.Required() {
		d.handleWithReassembly(w)
		return
	}
	d.handlePassthrough(w)
}

// handlePassthrough implements the fast path: each inbound chunk becomes one
// outbound datagram immediately, with no reassembly state.
func (d *Dispatcher) handlePassthrough(w Wrapper) {
	if !w.IsChunked {
		p := w.Simple
		backend := d.roundRobin.Next()
		if err := d.forwardRaw(p, backend); err != nil {
			d.Log.Error("forward failed", "error", err)
		}
		d.Counters.IncForwarded()
		return
	}

	p := w.Chunked.Chunks[0]
	backend := SelectBackend(d.Backends, p.MessageID)
	if err := d.forwardRaw(p, backend); err != nil {
		d.Log.Error("forward failed", "error", err, "message_id", p.MessageID)
	}
	// A datagram counts as a forwarded message only if its sequence number
	// is 0, so one multi-chunk logical message counts exactly once.
	if p.Sequence == 0 {
		d.Counters.IncForwarded()
	}
}

// handleWithReassembly implements the mutation-required path: reassemble,
// decode, mutate, re-encode, re-chunk, then forward every resulting chunk
// under one logical-message count.
func (d *Dispatcher) handleWithReassembly(w Wrapper) {
	if !w.IsChunked {
		backend := d.roundRobin.Next()
		d.forwardSimpleWithMutation(w.Simple, backend)
		return
	}

	incoming := w.Chunked
	first := incoming.Chunks[0]

	// A chunked message legitimately declaring total_chunks<=1 is already
	// complete on arrival; short-circuit to the forward path instead of
	// inserting it into the reassembly table, where it would never see a
	// second chunk and would sit until the supervisor evicts it.
	if incoming.ExpectedTotal <= 1 {
		backend := SelectBackend(d.Backends, incoming.ID)
		body := gelf.ConcatChunks(incoming.fragments())
		d.decodeMutateForward(body, incoming.Src, backend)
		return
	}

	existing, err := d.Table.AppendChunk(incoming.ID, gelf.Payload(first.Data))
	if err != nil {
		// No entry yet: this is the first chunk seen for this id.
		msg := &reassembly.Message{
			ID:            incoming.ID,
			ArrivalTime:   incoming.ArrivalTime,
			ExpectedTotal: incoming.ExpectedTotal,
			Source:        incoming.Src,
			Chunks:        [][]byte{gelf.Payload(first.Data)},
		}
		if insertErr := d.Table.InsertFirst(msg); insertErr != nil {
			d.Log.Error("reassembly insert failed", "error", insertErr, "message_id", incoming.ID)
		}
		return
	}
	if !existing {
		return
	}

	completed, err := d.Table.Remove(incoming.ID)
	if err != nil {
		d.Log.Error("reassembly remove failed", "error", err, "message_id", incoming.ID)
		return
	}

	// Backend is selected on the completed message's own id before
	// mutation re-chunks it under a fresh id, matching the upstream
	// balancer's select-then-massage order.
	backend := SelectBackend(d.Backends, completed.ID)
	body := gelf.ConcatChunks(completed.Chunks)
	d.decodeMutateForward(body, completed.Source, backend)
}

func (d *Dispatcher) forwardSimpleWithMutation(p Packet, backend net.Addr) {
	d.decodeMutateForward(p.Data, p.Src, backend)
}

func (d *Dispatcher) decodeMutateForward(body []byte, src net.Addr, backend net.Addr) {
	payload, err := gelf.DecodeBody(body)
	if err != nil {
		d.Log.Error("payload decode failed", "error", err)
		return
	}

	applyMutations(d.Mutation, payload, hostOf(src))

	encoded, err := gelf.EncodeBody(payload, d.Mutation.UseGzip)
	if err != nil {
		d.Log.Error("payload encode failed", "error", err)
		return
	}

	out, err := gelf.Rechunk(encoded, d.Mutation.ChunkSize, gelf.NewMessageID)
	if err != nil {
		d.Log.Error("payload rechunk failed", "error", err)
		return
	}

	for _, datagram := range out.Datagrams {
		if err := d.forwardDatagram(datagram, src, backend); err != nil {
			d.Log.Error("forward failed", "error", err, "backend", backend)
		}
	}
	d.Counters.IncForwarded()
}

func (d *Dispatcher) forwardRaw(p Packet, backend net.Addr) error {
	return d.forwardDatagram(p.Data, p.Src, backend)
}

func (d *Dispatcher) forwardDatagram(datagram []byte, src net.Addr, backend net.Addr) error {
	if d.Mutation.Transparent {
		built, err := d.PacketBuilder.Build(src, backend, datagram)
		if err != nil {
			return errors.NewForwardError("build.packet", err)
		}
		if err := d.RawSender.SendRaw(built, backend); err != nil {
			return errors.NewForwardError("send.raw", err)
		}
		return nil
	}
	if err := d.PlainSender.Send(datagram, backend); err != nil {
		return errors.NewForwardError("send.plain", err)
	}
	return nil
}

func hostOf(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
