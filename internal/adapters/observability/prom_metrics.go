package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghalamif/MineFlow/internal/logging"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// Metric names exported by the dashboard runtime.
const (
	RecordsAppended  = "mine_records_appended_total"
	CyclesCompleted  = "mine_cycles_total"
	CycleFailures    = "mine_cycle_failures_total"
	ViewsRendered    = "mine_views_rendered_total"
	StoreRecords     = "mine_store_records"
	AggregationTime  = "mine_aggregation_seconds"
	CycleTime        = "mine_cycle_seconds"
	SourceRetryCount = "mine_source_retries_total"
)

type PromObs struct {
	log      *slog.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers the runtime metrics on reg and logs through the
// "pipeline" component logger.
func NewPromObs(reg prometheus.Registerer) *PromObs {
	appended := prometheus.NewCounter(prometheus.CounterOpts{
		Name: RecordsAppended,
		Help: "Total records appended to the telemetry store after bootstrap.",
	})
	cycles := prometheus.NewCounter(prometheus.CounterOpts{
		Name: CyclesCompleted,
		Help: "Update cycles that completed every step.",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: CycleFailures,
		Help: "Update cycles aborted by a source, aggregation or sink error.",
	})
	rendered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ViewsRendered,
		Help: "Aggregate views delivered to the sink.",
	})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: SourceRetryCount,
		Help: "Batch pulls retried after a source error.",
	})
	storeGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: StoreRecords,
		Help: "Current number of records held by the telemetry store.",
	})
	aggLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    AggregationTime,
		Help:    "Time spent recomputing every aggregate view over the store.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	})
	cycleLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    CycleTime,
		Help:    "Time from batch pull to last view rendered, excluding the inter-cycle wait.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	reg.MustRegister(appended, cycles, failures, rendered, retries, storeGauge, aggLatency, cycleLatency)

	return &PromObs{
		log: logging.Component("pipeline"),
		counters: map[string]prometheus.Counter{
			RecordsAppended:  appended,
			CyclesCompleted:  cycles,
			CycleFailures:    failures,
			ViewsRendered:    rendered,
			SourceRetryCount: retries,
		},
		gauges: map[string]prometheus.Gauge{
			StoreRecords: storeGauge,
		},
		histos: map[string]prometheus.Observer{
			AggregationTime: aggLatency,
			CycleTime:       cycleLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.log.Info(msg, attrs(fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	p.log.Error(msg, append(attrs(fields), "error", err)...)
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	p.log.Error(msg, append(attrs(fields), "error", err, "critical", true)...)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func attrs(fields []ports.Field) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
