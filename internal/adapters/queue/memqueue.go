package queue

import (
	"sync"

	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// MemQueue is a bounded in-memory record queue that preserves FIFO ordering.
// Consumers wait on Ready instead of polling.
type MemQueue struct {
	mu    sync.Mutex
	data  []domain.Record
	cap   int
	ready chan struct{}
}

func NewMemQueue(capacity int) *MemQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemQueue{
		data:  make([]domain.Record, 0, capacity),
		cap:   capacity,
		ready: make(chan struct{}, 1),
	}
}

// Ready receives a value after an enqueue into the queue. A receive does not
// guarantee the records are still there when another consumer drains first.
func (q *MemQueue) Ready() <-chan struct{} { return q.ready }

func (q *MemQueue) Enqueue(r domain.Record) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) >= q.cap {
		return false
	}
	q.data = append(q.data, r)
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

func (q *MemQueue) DequeueBatch(max int) []domain.Record {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return nil
	}
	if max <= 0 || max > len(q.data) {
		max = len(q.data)
	}
	out := make([]domain.Record, max)
	copy(out, q.data[:max])
	q.data = append(q.data[:0], q.data[max:]...)
	return out
}

func (q *MemQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}

var _ ports.RecordQueue = (*MemQueue)(nil)
