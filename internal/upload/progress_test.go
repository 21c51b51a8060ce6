package upload

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Fraction(t *testing.T) {
	assert.Equal(t, 0.5, Snapshot{BytesSent: 5, TotalBytes: 10}.Fraction())
	assert.Equal(t, 0.25, Snapshot{ChunksSent: 1, TotalChunks: 4}.Fraction())
	assert.Equal(t, 0.0, Snapshot{}.Fraction())
}

func TestTracker_NotifiesObservers(t *testing.T) {
	tr := NewTracker(30, 3)

	var got []Snapshot
	unsubscribe := tr.Subscribe(func(s Snapshot) { got = append(got, s) })

	tr.chunkDone(10)
	tr.chunkDone(10)
	unsubscribe()
	unsubscribe()
	tr.chunkDone(10)

	assert.Equal(t, []Snapshot{
		{BytesSent: 10, TotalBytes: 30, ChunksSent: 1, TotalChunks: 3},
		{BytesSent: 20, TotalBytes: 30, ChunksSent: 2, TotalChunks: 3},
	}, got)
	assert.Equal(t, Snapshot{BytesSent: 30, TotalBytes: 30, ChunksSent: 3, TotalChunks: 3}, tr.Snapshot())
}

func TestTracker_ConcurrentUpdatesAreOrdered(t *testing.T) {
	const chunks = 200
	tr := NewTracker(chunks, chunks)

	var mu sync.Mutex
	var seen []int64
	tr.Subscribe(func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s.BytesSent)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < chunks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.chunkDone(1)
		}()
	}
	wg.Wait()

	assert.Len(t, seen, chunks)
	for i, v := range seen {
		assert.Equal(t, int64(i+1), v)
	}
}
