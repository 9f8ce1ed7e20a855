package pipeline

import (
	"context"
	"errors"
	"io"

	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// pull asks the source for one batch, retrying failed attempts with a
// doubling backoff. io.EOF and context errors are returned as-is.
func (d *Driver) pull(ctx context.Context) ([]domain.Record, error) {
	attempts := d.pol.SourceRetries + 1
	backoff := d.pol.RetryBackoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		batch, err := d.src.NextBatch(ctx, d.pol.BatchSize)
		if err == nil {
			return batch, nil
		}
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		d.obs.IncCounter("mine_source_retries_total", 1)
		d.obs.LogError("source_pull_retry", err,
			ports.Field{Key: "source", Value: d.src.Name()},
			ports.Field{Key: "attempt", Value: attempt},
			ports.Field{Key: "backoff", Value: backoff.String()})
		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, &domain.SourceExhaustionError{Attempts: attempts, Err: lastErr}
}
