package balancer

import "sync/atomic"

// Counters tracks the two monotonic counters shared between the dispatcher,
// the receiver, and the reporting supervisor / status endpoint.
type Counters struct {
	handledPackets    uint64
	forwardedMessages uint64
}

// IncHandled records one accepted inbound datagram.
func (c *Counters) IncHandled() {
	atomic.AddUint64(&c.handledPackets, 1)
}

// IncForwarded records one logical message fully forwarded.
func (c *Counters) IncForwarded() {
	atomic.AddUint64(&c.forwardedMessages, 1)
}

// Snapshot returns the current (handled, forwarded) values.
func (c *Counters) Snapshot() (handled, forwarded uint64) {
	return atomic.LoadUint64(&c.handledPackets), atomic.LoadUint64(&c.forwardedMessages)
}
