package ports

import "github.com/ghalamif/MineFlow/internal/domain"

// RecordQueue buffers records pushed by external producers until the driver drains them.
type RecordQueue interface {
	Enqueue(r domain.Record) bool
	DequeueBatch(max int) []domain.Record
	Len() int
	Ready() <-chan struct{}
}
