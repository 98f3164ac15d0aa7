// Package rawsock provides a platform-abstracted raw UDP sender used for
// transparent forwarding: the caller supplies an already-built IP+UDP
// datagram (see internal/rawsock/packet) and a destination; the
// implementation opens a raw socket of the matching address family, issues
// one send, and closes the socket.
package rawsock

import "net"

// Sender transmits a fully-formed IP+UDP datagram via a raw socket.
type Sender interface {
	SendRaw(datagram []byte, dst net.Addr) error
}
