package mineflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghalamif/MineFlow/internal/adapters/observability"
	"github.com/ghalamif/MineFlow/internal/adapters/queue"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// ErrQueueFull indicates the in-memory queue rejected the record according to policy.
var ErrQueueFull = errors.New("mineflow: queue full")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("mineflow: publisher closed")

// ExternalPublisherConfig configures the bounded queue behind the publisher.
type ExternalPublisherConfig struct {
	Policy QueuePolicy
}

// applyDefaults fills in sane thresholds so callers only override what they need.
func (c *ExternalPublisherConfig) applyDefaults() {
	if c.Policy.MaxQueueLen == 0 {
		c.Policy.MaxQueueLen = 10_000
	}
	if c.Policy.IdleSleep == 0 {
		c.Policy.IdleSleep = 5 * time.Millisecond
	}
	if c.Policy.OnQueueFull == "" {
		c.Policy.OnQueueFull = "block"
	}
}

func (c *ExternalPublisherConfig) validate() error {
	if c.Policy.MaxQueueLen <= 0 {
		return fmt.Errorf("policy.max_queue_len must be > 0")
	}
	switch c.Policy.OnQueueFull {
	case "block", "reject":
		return nil
	default:
		return fmt.Errorf("policy.on_queue_full %q: expected block or reject", c.Policy.OnQueueFull)
	}
}

// ExternalPublisher lets producers outside the process loop push records into
// the dashboard. It is a RecordSource: each update cycle drains up to one
// batch from its queue, waiting for the first record when the queue is empty.
// After Close the remaining records are drained and NextBatch reports io.EOF.
type ExternalPublisher struct {
	policy QueuePolicy
	queue  ports.RecordQueue
	obs    ports.Observability

	closed    chan struct{}
	closeOnce sync.Once
}

// NewExternalPublisher builds a publisher with its own bounded queue. Pass it
// to WithSource (or StreamInSource) and call Publish from any goroutine.
func NewExternalPublisher(cfg *ExternalPublisherConfig) (*ExternalPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &ExternalPublisher{
		policy: cfg.Policy,
		queue:  queue.NewMemQueue(cfg.Policy.MaxQueueLen),
		obs:    observability.NewPromObs(prometheus.NewRegistry()),
		closed: make(chan struct{}),
	}, nil
}

func (p *ExternalPublisher) Name() string { return "external" }

// Len reports how many records wait for the next cycle.
func (p *ExternalPublisher) Len() int { return p.queue.Len() }

// Publish validates the record and enqueues it according to the queue policy:
// "block" waits for room (or ctx), "reject" returns ErrQueueFull.
func (p *ExternalPublisher) Publish(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("mineflow: invalid record: %w", err)
	}

	sleep := p.policy.IdleSleep
	if sleep <= 0 {
		sleep = 5 * time.Millisecond
	}

	for {
		select {
		case <-p.closed:
			return ErrPublisherClosed
		default:
		}

		if ok := p.queue.Enqueue(r); ok {
			return nil
		}

		switch p.policy.OnQueueFull {
		case "block":
			t := time.NewTimer(sleep)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-p.closed:
				t.Stop()
				return ErrPublisherClosed
			case <-t.C:
			}
		case "reject":
			p.obs.LogError("queue_full_reject", fmt.Errorf("queue length exceeded capacity %d", p.policy.MaxQueueLen))
			return ErrQueueFull
		default:
			p.obs.LogError("queue_policy_invalid", fmt.Errorf("policy=%s", p.policy.OnQueueFull))
			return fmt.Errorf("mineflow: invalid queue policy %q", p.policy.OnQueueFull)
		}
	}
}

// NextBatch returns up to size queued records, blocking until at least one
// is available, ctx is done, or the publisher is closed and drained.
func (p *ExternalPublisher) NextBatch(ctx context.Context, size int) ([]Record, error) {
	for {
		if batch := p.queue.DequeueBatch(size); len(batch) > 0 {
			return batch, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.closed:
			if batch := p.queue.DequeueBatch(size); len(batch) > 0 {
				return batch, nil
			}
			return nil, io.EOF
		case <-p.queue.Ready():
		}
	}
}

// Close stops accepting records. Records already queued are still delivered.
func (p *ExternalPublisher) Close() error {
	p.closeOnce.Do(func() {
		close(p.closed)
	})
	return nil
}

var _ ports.RecordSource = (*ExternalPublisher)(nil)
