package rawsock

import (
	"net"

	gelflberrors "github.com/alxayo/gelflb/internal/errors"
)

// PlainSender wraps one bound UDP socket of a fixed address family, shared
// by the dispatcher with no locking needed (single writer).
type PlainSender struct {
	conn *net.UDPConn
}

// NewPlainSender binds a UDP socket on network ("udp4" or "udp6") using an
// ephemeral local port.
func NewPlainSender(network string) (*PlainSender, error) {
	conn, err := net.ListenUDP(network, nil)
	if err != nil {
		return nil, gelflberrors.NewForwardError("bind."+network, err)
	}
	return &PlainSender{conn: conn}, nil
}

// Send transmits payload to dst. A short write is reported as an error.
func (p *PlainSender) Send(payload []byte, dst net.Addr) error {
	udpAddr, ok := dst.(*net.UDPAddr)
	if !ok {
		resolved, err := net.ResolveUDPAddr("udp", dst.String())
		if err != nil {
			return gelflberrors.NewForwardError("resolve_dst", err)
		}
		udpAddr = resolved
	}
	n, err := p.conn.WriteToUDP(payload, udpAddr)
	if err != nil {
		return gelflberrors.NewForwardError("send", err)
	}
	if n != len(payload) {
		return gelflberrors.NewForwardError("short_write", nil)
	}
	return nil
}

// Close releases the underlying socket.
func (p *PlainSender) Close() error {
	return p.conn.Close()
}
