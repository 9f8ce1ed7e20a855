package mineflow

import (
	"github.com/ghalamif/MineFlow/internal/app/pipeline"
	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// Record is one haul-truck telemetry observation.
type Record = domain.Record

type (
	Month        = domain.Month
	Crew         = domain.Crew
	MaterialType = domain.MaterialType
)

// View is one aggregate (tonnage per day, idle time per crew, ...) as
// delivered to sinks.
type View = domain.View

// Row is one group of a View.
type Row = domain.Row

// RecordSource produces the batch appended on each update cycle.
type RecordSource = ports.RecordSource

// TelemetryStore is the append-only collection every view is computed over.
type TelemetryStore = ports.TelemetryStore

// ViewSink receives every view once per cycle.
type ViewSink = ports.ViewSink

// Observability emits logs and metrics about cycles, appends and failures.
type Observability = ports.Observability

// Field is a structured log/metric field used by Observability implementations.
type Field = ports.Field

// Report summarizes a finished run.
type Report = pipeline.Report

// Typed errors callers can match with errors.As.
type (
	BootstrapLoadError    = domain.BootstrapLoadError
	SourceExhaustionError = domain.SourceExhaustionError
	AggregationError      = domain.AggregationError
)

// View names.
const (
	ViewTonnagePerDay       = domain.ViewTonnagePerDay
	ViewIdleTimePerCrew     = domain.ViewIdleTimePerCrew
	ViewDistancePerMaterial = domain.ViewDistancePerMaterial
)

// Sentinels matched by the typed errors via errors.Is.
var (
	ErrBootstrapLoad   = domain.ErrBootstrapLoad
	ErrSourceExhausted = domain.ErrSourceExhausted
	ErrAggregation     = domain.ErrAggregation
	ErrDriverStarted   = pipeline.ErrDriverStarted
)
