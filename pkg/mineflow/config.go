package mineflow

import (
	"github.com/ghalamif/MineFlow/internal/adapters/source"
	"github.com/ghalamif/MineFlow/internal/app/config"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// DriverPolicy controls batch size, cycle count, pacing and retries.
	DriverPolicy = ports.DriverPolicy
	// QueuePolicy controls the ExternalPublisher's bounded queue.
	QueuePolicy = ports.QueuePolicy
	// BootstrapConfig points at the startup snapshot.
	BootstrapConfig = config.BootstrapConfig
	// DriverConfig is the YAML form of DriverPolicy.
	DriverConfig = config.DriverConfig
	// SourceConfig selects the record source.
	SourceConfig = config.SourceConfig
	// SyntheticConfig shapes the simulated records.
	SyntheticConfig = source.SyntheticConfig
	// AggregationConfig enables the optional quantile views.
	AggregationConfig = config.AggregationConfig
	// SinksConfig toggles the built-in view sinks.
	SinksConfig = config.SinksConfig
	// TerminalConfig configures the bar-chart sink.
	TerminalConfig = config.TerminalConfig
	// SQLConfig configures the view table sink.
	SQLConfig = config.SQLConfig
	// LogSinkConfig configures the structured-log sink.
	LogSinkConfig = config.LogSinkConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// LoggingConfig configures the process logger.
	LoggingConfig = config.LoggingConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	return config.Default()
}
