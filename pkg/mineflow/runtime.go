package mineflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/ghalamif/MineFlow/internal/adapters/csvfile"
	"github.com/ghalamif/MineFlow/internal/adapters/observability"
	"github.com/ghalamif/MineFlow/internal/adapters/sink"
	"github.com/ghalamif/MineFlow/internal/adapters/source"
	"github.com/ghalamif/MineFlow/internal/adapters/store"
	"github.com/ghalamif/MineFlow/internal/aggregate"
	"github.com/ghalamif/MineFlow/internal/app/pipeline"
	"github.com/ghalamif/MineFlow/internal/logging"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	source        RecordSource
	store         TelemetryStore
	sinks         []ViewSink
	observability Observability
	bootstrap     []Record
	hasBootstrap  bool
}

// WithSource injects a custom record source (a replay, a broker consumer, an ExternalPublisher).
func WithSource(src RecordSource) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.source = src
	}
}

// WithStore injects an already seeded store. The bootstrap file is not read.
func WithStore(st TelemetryStore) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.store = st
	}
}

// WithSink adds a view sink. Any WithSink replaces the sinks enabled in the
// config; the latest-view sink behind /views is always installed.
func WithSink(s ViewSink) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.sinks = append(o.sinks, s)
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithBootstrap seeds the store from records instead of the bootstrap CSV.
func WithBootstrap(records []Record) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.bootstrap = records
		o.hasBootstrap = true
	}
}

// Runtime wires bootstrap -> store -> driver -> sinks and serves the
// metrics, health and latest-view endpoints next to the update loop.
type Runtime struct {
	cfg        *Config
	obs        ports.Observability
	registry   *prometheus.Registry
	store      ports.TelemetryStore
	source     ports.RecordSource
	sink       ports.ViewSink
	latest     *sink.Latest
	driver     *pipeline.Driver
	db         *sql.DB
	handler    http.Handler
	metricsSrv *http.Server
	log        *slog.Logger
}

// NewRuntime loads the bootstrap snapshot and builds the default adapters
// (synthetic or CSV source, in-memory store, configured sinks, Prometheus
// observability). RuntimeOption values override any of them. A missing or
// malformed bootstrap file is returned as a *BootstrapLoadError.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	var reg *prometheus.Registry
	obs := overrides.observability
	if obs == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		obs = observability.NewPromObs(reg)
	}

	st := overrides.store
	if st == nil {
		seed := overrides.bootstrap
		if !overrides.hasBootstrap {
			var err error
			seed, err = csvfile.Load(cfg.Bootstrap.Path)
			if err != nil {
				return nil, err
			}
		}
		st = store.NewMemStore(seed)
	}
	obs.LogInfo("store_ready", ports.Field{Key: "records", Value: st.Len()})

	src := overrides.source
	if src == nil {
		var err error
		src, err = newSource(cfg.Source)
		if err != nil {
			return nil, err
		}
	}

	latest := sink.NewLatest()
	sinks := sink.Multi{latest}
	var db *sql.DB
	if len(overrides.sinks) > 0 {
		for _, s := range overrides.sinks {
			if s != nil {
				sinks = append(sinks, s)
			}
		}
	} else {
		configured, opened, err := newConfiguredSinks(cfg.Sinks)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, configured...)
		db = opened
	}

	agg := aggregate.Options{
		IdleQuantiles:  cfg.Aggregation.IdleQuantiles,
		SketchAccuracy: cfg.Aggregation.SketchAccuracy,
	}

	rt := &Runtime{
		cfg:      cfg,
		obs:      obs,
		registry: reg,
		store:    st,
		source:   src,
		sink:     sinks,
		latest:   latest,
		driver:   pipeline.NewDriver(st, src, sinks, cfg.Policy(), obs, agg),
		db:       db,
		log:      logging.Component("runtime"),
	}
	rt.handler = rt.newMux()
	if addr := cfg.Metrics.Addr; addr != "" && addr != "off" {
		rt.metricsSrv = &http.Server{
			Addr:              addr,
			Handler:           rt.handler,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return rt, nil
}

func newSource(cfg SourceConfig) (ports.RecordSource, error) {
	switch cfg.Kind {
	case "", "synthetic":
		return source.NewSynthetic(cfg.SyntheticConfig), nil
	case "csv":
		return source.NewCSVReplay(cfg.CSVPath, cfg.Loop)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

func newConfiguredSinks(cfg SinksConfig) ([]ports.ViewSink, *sql.DB, error) {
	var out []ports.ViewSink
	if cfg.Terminal.Enabled {
		out = append(out, sink.NewTerminalSink(os.Stdout, cfg.Terminal.Width))
	}
	if cfg.Log.Enabled {
		out = append(out, sink.NewLogSink())
	}
	if cfg.SQL.ConnString == "" {
		return out, nil, nil
	}

	driver := cfg.SQL.Driver
	if driver == "" {
		driver = "postgres"
	}
	db, err := sql.Open(driver, cfg.SQL.ConnString)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}
	table := cfg.SQL.Table
	if table == "" {
		table = "dashboard_views"
	}
	sqlSink := sink.NewSQLSink(db, table)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlSink.EnsureTable(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return append(out, sqlSink), db, nil
}

func (r *Runtime) newMux() http.Handler {
	mux := http.NewServeMux()
	if r.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry}))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if r.driver.State() == pipeline.StateStopped {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(r.driver.State().String()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/views", r.latest)
	return mux
}

// Handler returns the HTTP handler serving /metrics, /healthz and /views.
func (r *Runtime) Handler() http.Handler { return r.handler }

// Views returns the most recent view of each kind, in render order.
func (r *Runtime) Views() []View { return r.latest.Views() }

// Store exposes the runtime's telemetry store.
func (r *Runtime) Store() TelemetryStore { return r.store }

// Run executes the update loop and, when configured, the HTTP server until
// the loop finishes or ctx is cancelled. A failing server stops the loop.
func (r *Runtime) Run(ctx context.Context) (Report, error) {
	if r == nil {
		return Report{}, fmt.Errorf("runtime is nil")
	}

	g, gctx := errgroup.WithContext(ctx)
	driverDone := make(chan struct{})

	var rep Report
	g.Go(func() error {
		defer close(driverDone)
		var err error
		rep, err = r.driver.Run(gctx)
		return err
	})

	g.Go(func() error {
		r.recordStoreGauge(gctx, driverDone, time.Second)
		return nil
	})

	if r.metricsSrv != nil {
		g.Go(func() error {
			r.log.Info("http server listening", "addr", r.metricsSrv.Addr)
			if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-driverDone:
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return r.metricsSrv.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	if closeErr := r.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return rep, err
}

// Close releases the SQL connection pool opened for the view table.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runtime) recordStoreGauge(ctx context.Context, done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			r.obs.SetGauge(observability.StoreRecords, float64(r.store.Len()))
		}
	}
}
