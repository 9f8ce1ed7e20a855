// Package pipeline runs the dashboard's update loop: pull a batch, append it
// to the store, recompute every view and hand the views to the sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/ghalamif/MineFlow/internal/aggregate"
	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ErrDriverStarted is returned by Run on a driver that already ran.
var ErrDriverStarted = errors.New("pipeline: driver already started")

// Report summarizes a finished Run.
type Report struct {
	Cycles          int // cycles that completed every step
	FailedCycles    int
	RecordsAppended int
	StoreLen        int
}

// Driver owns the update loop. It is the only writer of its store and runs
// cycles strictly one after another on the caller's goroutine.
type Driver struct {
	store ports.TelemetryStore
	src   ports.RecordSource
	sink  ports.ViewSink
	pol   ports.DriverPolicy
	obs   ports.Observability
	agg   aggregate.Options
	state atomic.Int32
}

func NewDriver(store ports.TelemetryStore, src ports.RecordSource, sink ports.ViewSink, pol ports.DriverPolicy, obs ports.Observability, agg aggregate.Options) *Driver {
	if pol.BatchSize <= 0 {
		pol.BatchSize = 100
	}
	if pol.Interval < 0 {
		pol.Interval = 0
	}
	if pol.SourceRetries < 0 {
		pol.SourceRetries = 0
	}
	if pol.RetryBackoff <= 0 {
		pol.RetryBackoff = 200 * time.Millisecond
	}
	return &Driver{store: store, src: src, sink: sink, pol: pol, obs: obs, agg: agg}
}

func (d *Driver) State() State { return State(d.state.Load()) }

// Run renders the bootstrap views as cycle 0, then runs pol.Cycles update
// cycles (forever when zero) separated by pol.Interval. It returns ctx.Err()
// on cancellation, a *domain.SourceExhaustionError when the source fails on
// every attempt, and nil when the cycles are done or the source reports
// io.EOF. Aggregation and sink errors fail only the cycle they occur in.
func (d *Driver) Run(ctx context.Context) (Report, error) {
	if !d.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return Report{}, ErrDriverStarted
	}
	defer d.state.Store(int32(StateStopped))

	var rep Report
	finish := func(err error) (Report, error) {
		rep.StoreLen = d.store.Len()
		d.obs.LogInfo("driver_stopped",
			ports.Field{Key: "cycles", Value: rep.Cycles},
			ports.Field{Key: "failed_cycles", Value: rep.FailedCycles},
			ports.Field{Key: "records_appended", Value: rep.RecordsAppended},
			ports.Field{Key: "store_len", Value: rep.StoreLen})
		return rep, err
	}

	d.obs.LogInfo("driver_started",
		ports.Field{Key: "source", Value: d.src.Name()},
		ports.Field{Key: "sink", Value: d.sink.Name()},
		ports.Field{Key: "batch_size", Value: d.pol.BatchSize},
		ports.Field{Key: "cycles", Value: d.pol.Cycles},
		ports.Field{Key: "interval", Value: d.pol.Interval.String()})

	d.obs.SetGauge("mine_store_records", float64(d.store.Len()))
	if err := d.refresh(0); err != nil {
		d.logCycleError(0, err)
	}

	for cycle := 1; d.pol.Cycles == 0 || cycle <= d.pol.Cycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		n, err := d.runCycle(ctx, cycle)
		rep.RecordsAppended += n
		switch {
		case err == nil:
			rep.Cycles++
			d.obs.IncCounter("mine_cycles_total", 1)
		case errors.Is(err, io.EOF):
			d.obs.LogInfo("source_drained",
				ports.Field{Key: "source", Value: d.src.Name()},
				ports.Field{Key: "cycle", Value: cycle})
			return finish(nil)
		case ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
			return finish(ctx.Err())
		case errors.Is(err, domain.ErrSourceExhausted):
			rep.FailedCycles++
			d.obs.IncCounter("mine_cycle_failures_total", 1)
			d.obs.LogCritical("source_exhausted", err, ports.Field{Key: "cycle", Value: cycle})
			return finish(err)
		default:
			rep.FailedCycles++
			d.obs.IncCounter("mine_cycle_failures_total", 1)
			d.logCycleError(cycle, err)
		}

		if d.pol.Cycles != 0 && cycle == d.pol.Cycles {
			break
		}
		if err := sleepCtx(ctx, d.pol.Interval); err != nil {
			return finish(err)
		}
	}
	return finish(nil)
}

func (d *Driver) runCycle(ctx context.Context, cycle int) (int, error) {
	start := time.Now()

	batch, err := d.pull(ctx)
	if err != nil {
		return 0, err
	}

	d.store.Append(batch)
	d.obs.IncCounter("mine_records_appended_total", float64(len(batch)))
	d.obs.SetGauge("mine_store_records", float64(d.store.Len()))

	if err := d.refresh(cycle); err != nil {
		return len(batch), err
	}
	d.obs.ObserveLatency("mine_cycle_seconds", time.Since(start).Seconds())
	return len(batch), nil
}

// refresh recomputes every view over the current snapshot and renders them
// in order. The first sink error skips the remaining views.
func (d *Driver) refresh(cycle int) error {
	snap := d.store.Snapshot()

	start := time.Now()
	views, err := aggregate.Compute(snap, d.agg)
	d.obs.ObserveLatency("mine_aggregation_seconds", time.Since(start).Seconds())
	if err != nil {
		return err
	}

	for _, v := range views {
		v.Cycle = cycle
		if err := d.sink.Render(v); err != nil {
			return fmt.Errorf("render %s to %s: %w", v.Name, d.sink.Name(), err)
		}
		d.obs.IncCounter("mine_views_rendered_total", 1)
	}
	return nil
}

func (d *Driver) logCycleError(cycle int, err error) {
	field := ports.Field{Key: "cycle", Value: cycle}
	if errors.Is(err, domain.ErrAggregation) {
		d.obs.LogCritical("aggregation_failed", err, field)
		return
	}
	d.obs.LogError("render_failed", err, field)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
