package mineflow

import (
	base "github.com/ghalamif/MineFlow/pkg/mineflow"
)

// Re-exported errors for convenience.
var (
	ErrQueueFull         = base.ErrQueueFull
	ErrPublisherClosed   = base.ErrPublisherClosed
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
	ErrBootstrapLoad     = base.ErrBootstrapLoad
	ErrSourceExhausted   = base.ErrSourceExhausted
	ErrAggregation       = base.ErrAggregation
	ErrDriverStarted     = base.ErrDriverStarted
)

// View names.
const (
	ViewTonnagePerDay       = base.ViewTonnagePerDay
	ViewIdleTimePerCrew     = base.ViewIdleTimePerCrew
	ViewDistancePerMaterial = base.ViewDistancePerMaterial
)

// Type aliases so consumers can import github.com/ghalamif/MineFlow directly.
type (
	Config                  = base.Config
	DriverPolicy            = base.DriverPolicy
	QueuePolicy             = base.QueuePolicy
	SourceConfig            = base.SourceConfig
	SyntheticConfig         = base.SyntheticConfig
	SinksConfig             = base.SinksConfig
	MetricsConfig           = base.MetricsConfig
	LoggingConfig           = base.LoggingConfig
	Flow                    = base.Flow
	FlowOption              = base.FlowOption
	StreamInOption          = base.StreamInOption
	StreamOutOption         = base.StreamOutOption
	Runtime                 = base.Runtime
	RuntimeOption           = base.RuntimeOption
	Report                  = base.Report
	Record                  = base.Record
	View                    = base.View
	Row                     = base.Row
	ViewHandler             = base.ViewHandler
	RecordSource            = base.RecordSource
	TelemetryStore          = base.TelemetryStore
	ViewSink                = base.ViewSink
	Observability           = base.Observability
	Field                   = base.Field
	BootstrapLoadError      = base.BootstrapLoadError
	SourceExhaustionError   = base.SourceExhaustionError
	AggregationError        = base.AggregationError
	ExternalPublisher       = base.ExternalPublisher
	ExternalPublisherConfig = base.ExternalPublisherConfig
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

func InitLogging(cfg LoggingConfig) error {
	return base.InitLogging(cfg)
}

// Bootstrap data helpers.
func LoadBootstrap(path string) ([]Record, error) {
	return base.LoadBootstrap(path)
}

func WriteBootstrap(path string, records []Record) error {
	return base.WriteBootstrap(path, records)
}

func GenerateRecords(cfg SyntheticConfig, n int) ([]Record, error) {
	return base.GenerateRecords(cfg, n)
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInSource(src RecordSource) StreamInOption {
	return base.StreamInSource(src)
}

func StreamInStore(st TelemetryStore) StreamInOption {
	return base.StreamInStore(st)
}

func StreamInBootstrap(records []Record) StreamInOption {
	return base.StreamInBootstrap(records)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutSink(s ViewSink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

func StreamOutCallback(name string, fn ViewHandler) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithSource(src RecordSource) RuntimeOption {
	return base.WithSource(src)
}

func WithStore(st TelemetryStore) RuntimeOption {
	return base.WithStore(st)
}

func WithSink(s ViewSink) RuntimeOption {
	return base.WithSink(s)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithBootstrap(records []Record) RuntimeOption {
	return base.WithBootstrap(records)
}

// Sources.
func NewSyntheticSource(cfg SyntheticConfig) RecordSource {
	return base.NewSyntheticSource(cfg)
}

func NewCSVReplaySource(path string, loop bool) (RecordSource, error) {
	return base.NewCSVReplaySource(path, loop)
}

// Sink adapters.
func NewCallbackSink(name string, fn ViewHandler) ViewSink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (ViewSink, <-chan View, func()) {
	return base.NewChannelSink(name, buffer)
}

// External publisher.
func NewExternalPublisher(cfg *ExternalPublisherConfig) (*ExternalPublisher, error) {
	return base.NewExternalPublisher(cfg)
}
