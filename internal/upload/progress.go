package upload

import (
	"sync"
	"sync/atomic"
)

// Snapshot is a point-in-time view of an upload.
type Snapshot struct {
	BytesSent   int64
	TotalBytes  int64
	ChunksSent  int
	TotalChunks int
}

// Fraction returns the completed share of the upload, between 0 and 1.
func (s Snapshot) Fraction() float64 {
	if s.TotalBytes > 0 {
		return float64(s.BytesSent) / float64(s.TotalBytes)
	}
	if s.TotalChunks > 0 {
		return float64(s.ChunksSent) / float64(s.TotalChunks)
	}
	return 0
}

type observer struct {
	callback func(Snapshot)
	active   atomic.Bool
}

// Tracker accumulates progress across the files of a transfer and reports
// each change to its observers. Observers are never called after their
// unsubscribe function has returned.
type Tracker struct {
	// emit serializes updates so observers see snapshots in increasing order.
	emit  sync.Mutex
	state Snapshot

	mu     sync.RWMutex
	subs   map[uint64]*observer
	nextID atomic.Uint64
}

// NewTracker creates a tracker for an upload of the given size.
func NewTracker(totalBytes int64, totalChunks int) *Tracker {
	return &Tracker{
		state: Snapshot{TotalBytes: totalBytes, TotalChunks: totalChunks},
		subs:  make(map[uint64]*observer),
	}
}

// Subscribe registers callback for progress updates. Callbacks run
// synchronously on the uploading goroutine and must not block.
// Returns an unsubscribe function that is safe to call multiple times.
func (t *Tracker) Subscribe(callback func(Snapshot)) func() {
	id := t.nextID.Add(1)
	o := &observer{callback: callback}
	o.active.Store(true)

	t.mu.Lock()
	t.subs[id] = o
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if o, ok := t.subs[id]; ok {
			o.active.Store(false)
			delete(t.subs, id)
		}
	}
}

// Snapshot returns the current progress.
func (t *Tracker) Snapshot() Snapshot {
	t.emit.Lock()
	defer t.emit.Unlock()
	return t.state
}

// chunkDone records one stored chunk of n bytes and notifies observers.
func (t *Tracker) chunkDone(n int64) {
	t.emit.Lock()
	defer t.emit.Unlock()

	t.state.BytesSent += n
	t.state.ChunksSent++
	t.notify(t.state)
}

// notify calls observers outside the subscription lock. The active flag is
// checked before invoking to prevent calls after unsubscribe.
func (t *Tracker) notify(s Snapshot) {
	t.mu.RLock()
	if len(t.subs) == 0 {
		t.mu.RUnlock()
		return
	}
	subs := make([]*observer, 0, len(t.subs))
	for _, o := range t.subs {
		subs = append(subs, o)
	}
	t.mu.RUnlock()

	for _, o := range subs {
		if o.active.Load() {
			o.callback(s)
		}
	}
}
