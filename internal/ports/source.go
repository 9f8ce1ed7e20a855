package ports

import (
	"context"

	"github.com/ghalamif/MineFlow/internal/domain"
)

// RecordSource produces finite batches of records; it is pulled once per cycle.
type RecordSource interface {
	NextBatch(ctx context.Context, size int) ([]domain.Record, error)
	Name() string
}
