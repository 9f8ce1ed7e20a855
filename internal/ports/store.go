package ports

import "github.com/ghalamif/MineFlow/internal/domain"

// TelemetryStore is the append-only record collection the dashboard aggregates over.
type TelemetryStore interface {
	Append(batch []domain.Record)
	Snapshot() []domain.Record
	Len() int
}
