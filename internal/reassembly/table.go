// Package reassembly implements the mutex-guarded map from GELF message id
// to in-progress chunked message, with age-based eviction.
package reassembly

import (
	"net"
	"sync"
	"time"

	gelflberrors "github.com/alxayo/gelflb/internal/errors"
)

// Message is an in-progress or completed reassembly.
type Message struct {
	ID            uint64
	ArrivalTime   time.Time
	ExpectedTotal uint8
	Source        net.Addr // sender of the first chunk observed
	Chunks        [][]byte // raw chunk fragments (header already stripped), in arrival order
}

// Table is a thread-safe mapping from message id to Message.
type Table struct {
	mu      sync.Mutex
	entries map[uint64]*Message
}

// New returns an empty reassembly table.
func New() *Table {
	return &Table{entries: make(map[uint64]*Message)}
}

// InsertFirst places msg under its id. It fails if an entry already exists.
func (t *Table) InsertFirst(msg *Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[msg.ID]; exists {
		return gelflberrors.NewReassemblyError("insert_first", nil)
	}
	t.entries[msg.ID] = msg
	return nil
}

// AppendChunk adds fragment to the existing entry's chunks and reports
// whether the message is now complete (chunks collected == expectedTotal).
func (t *Table) AppendChunk(id uint64, fragment []byte) (complete bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg, ok := t.entries[id]
	if !ok {
		return false, gelflberrors.NewReassemblyError("append_chunk.missing", nil)
	}
	msg.Chunks = append(msg.Chunks, fragment)
	return len(msg.Chunks) >= int(msg.ExpectedTotal), nil
}

// Remove takes the entry with id out of the table and returns it. It fails
// if the id is absent.
func (t *Table) Remove(id uint64) (*Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg, ok := t.entries[id]
	if !ok {
		return nil, gelflberrors.NewReassemblyError("remove.absent", nil)
	}
	delete(t.entries, id)
	return msg, nil
}

// EvictOlderThan drops all entries whose ArrivalTime is before threshold and
// returns the count removed. It only inspects and deletes map entries; no I/O
// happens while the lock is held.
func (t *Table) EvictOlderThan(threshold time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	var evicted int
	for id, msg := range t.entries {
		if msg.ArrivalTime.Before(threshold) {
			delete(t.entries, id)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of in-progress entries (used by tests; not part of
// the core operation set).
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
