package source

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ghalamif/MineFlow/internal/adapters/csvfile"
	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// ErrReplayDone is returned once a non-looping replay has emitted every row.
// It wraps io.EOF so the driver treats it as the end of the stream.
var ErrReplayDone = fmt.Errorf("csv replay: no rows left: %w", io.EOF)

// CSVReplay replays a recorded snapshot in batches. With Loop set it rewinds
// to the first row at the end of the file; otherwise it reports
// ErrReplayDone once every row has been emitted.
type CSVReplay struct {
	mu   sync.Mutex
	path string
	rows []domain.Record
	pos  int
	loop bool
}

// NewCSVReplay loads the snapshot eagerly so malformed files fail at startup.
func NewCSVReplay(path string, loop bool) (*CSVReplay, error) {
	rows, err := csvfile.Load(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv replay %s: no rows", path)
	}
	return &CSVReplay{path: path, rows: rows, loop: loop}, nil
}

func (c *CSVReplay) Name() string { return "csv:" + c.path }

// NextBatch returns up to size rows. A partial batch is returned at the end
// of a non-looping file.
func (c *CSVReplay) NextBatch(ctx context.Context, size int) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("csv replay: batch size %d must be > 0", size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Record, 0, size)
	for len(out) < size {
		if c.pos >= len(c.rows) {
			if !c.loop {
				break
			}
			c.pos = 0
		}
		out = append(out, c.rows[c.pos])
		c.pos++
	}
	if len(out) == 0 {
		return nil, ErrReplayDone
	}
	return out, nil
}

var _ ports.RecordSource = (*CSVReplay)(nil)
