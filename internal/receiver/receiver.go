// Package receiver owns the bound UDP listener: it reads datagrams,
// enforces the source-IP allow-list, classifies chunked vs simple, and
// enqueues onto the dispatcher's bounded channel.
package receiver

import (
	"log/slog"
	"net"

	"github.com/alxayo/gelflb/internal/balancer"
	"github.com/alxayo/gelflb/internal/gelf"
	"github.com/alxayo/gelflb/internal/logger"
)

// bufferSize is the per-read buffer. It is smaller than the largest IPv4 UDP
// payload (65,507 bytes), so a datagram longer than 65,000 bytes is
// truncated to its first 65,000 bytes.
const bufferSize = 65000

// Receiver reads from one bound UDP socket and feeds the dispatcher queue.
type Receiver struct {
	conn      *net.UDPConn
	allowList map[string]struct{} // empty/nil = allow all
	queue     chan<- balancer.Wrapper
	counters  *balancer.Counters
	log       *slog.Logger
}

// New binds listenAddr and returns a Receiver. allowedIPs, if non-empty,
// restricts accepted datagrams to the listed source IPs.
func New(listenAddr *net.UDPAddr, allowedIPs []string, queue chan<- balancer.Wrapper, counters *balancer.Counters) (*Receiver, error) {
	conn, err := net.ListenUDP(udpNetwork(listenAddr), listenAddr)
	if err != nil {
		return nil, err
	}
	var allow map[string]struct{}
	if len(allowedIPs) > 0 {
		allow = make(map[string]struct{}, len(allowedIPs))
		for _, ip := range allowedIPs {
			allow[ip] = struct{}{}
		}
	}
	return &Receiver{
		conn:      conn,
		allowList: allow,
		queue:     queue,
		counters:  counters,
		log:       logger.Logger(),
	}, nil
}

func udpNetwork(addr *net.UDPAddr) string {
	if addr.IP.To4() != nil {
		return "udp4"
	}
	return "udp6"
}

// Run loops reading datagrams until the socket is closed. A full queue
// blocks the receiver (backpressure by design); the channel is never closed
// by the receiver itself.
func (r *Receiver) Run() {
	buf := make([]byte, bufferSize)
	for {
		n, src, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			r.log.Error("receive failed, stopping", "error", err)
			return
		}
		r.counters.IncHandled()

		if r.allowList != nil {
			if _, ok := r.allowList[src.IP.String()]; !ok {
				r.log.Debug("dropped by allow-list", "source", src.IP.String())
				continue
			}
		}

		datagram := make([]byte, n)
		copy(datagram, buf[:n])

		w := classify(datagram, src)
		r.queue <- w
	}
}

func classify(datagram []byte, src *net.UDPAddr) balancer.Wrapper {
	if !gelf.IsChunked(datagram) {
		return balancer.NewSimple(balancer.Packet{Data: datagram, Src: src})
	}
	// IsChunked already guarantees len(datagram) >= HeaderLen, so parsing
	// cannot fail here.
	hdr, _ := gelf.ParseChunkHeader(datagram)
	p := balancer.Packet{
		Data:        datagram,
		Src:         src,
		Chunked:     true,
		MessageID:   hdr.MessageID,
		Sequence:    hdr.Sequence,
		TotalChunks: hdr.TotalCount,
	}
	return balancer.NewChunked(p)
}

// Close releases the listening socket.
func (r *Receiver) Close() error {
	return r.conn.Close()
}
