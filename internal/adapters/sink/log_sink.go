package sink

import (
	"log/slog"

	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/logging"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// LogSink writes one structured entry per view, with the rows as a group.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink() *LogSink {
	return &LogSink{log: logging.Component("views")}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Render(v domain.View) error {
	rows := make([]any, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, slog.Float64(r.KeyString(), r.Value))
	}
	s.log.Info("view",
		"name", v.Name,
		"cycle", v.Cycle,
		"store_len", v.StoreLen,
		slog.Group("rows", rows...),
	)
	return nil
}

var _ ports.ViewSink = (*LogSink)(nil)
