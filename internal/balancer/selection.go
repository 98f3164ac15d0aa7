package balancer

import (
	"net"
	"sync/atomic"
)

// SelectBackend picks a backend deterministically from the low byte of id.
// segment = 255/N, index = id/segment, clamped to N-1. This divides 255 (not
// 256) by N and indexes with the full id, so only the low byte meaningfully
// contributes and distribution across backends is mildly skewed; preserved
// exactly for behavior compatibility rather than switched to id % N. The
// division and clamp stay in uint64: id routinely has its high bit set
// (sender-assigned GELF ids are arbitrary 64-bit values), and converting
// that to a signed int before dividing would produce a negative index that
// panics on the slice subscript below.
func SelectBackend(backends []net.Addr, id uint64) net.Addr {
	n := uint64(len(backends))
	segment := uint64(255) / n
	index := id / segment
	if index > n-1 {
		index = n - 1
	}
	return backends[index]
}

// RoundRobin hands out backends in rotation for non-chunked messages. Safe
// for concurrent use, though the dispatcher is single-threaded in practice.
type RoundRobin struct {
	backends []net.Addr
	cursor   uint64
}

// NewRoundRobin builds a cursor over the given backend list.
func NewRoundRobin(backends []net.Addr) *RoundRobin {
	return &RoundRobin{backends: backends}
}

// Next advances the cursor and returns the next backend.
func (r *RoundRobin) Next() net.Addr {
	i := atomic.AddUint64(&r.cursor, 1) - 1
	return r.backends[int(i)%len(r.backends)]
}
