package ports

import "github.com/ghalamif/MineFlow/internal/domain"

// ViewSink receives every aggregate view once per cycle.
type ViewSink interface {
	Render(view domain.View) error
	Name() string
}
