package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ghalamif/MineFlow/internal/adapters/source"
	"github.com/ghalamif/MineFlow/internal/logging"
	"github.com/ghalamif/MineFlow/internal/ports"
)

type Config struct {
	Bootstrap   BootstrapConfig   `yaml:"bootstrap"`
	Driver      DriverConfig      `yaml:"driver"`
	Source      SourceConfig      `yaml:"source"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	Sinks       SinksConfig       `yaml:"sinks"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type BootstrapConfig struct {
	Path string `yaml:"path"`
}

type DriverConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	Cycles        *int          `yaml:"cycles"` // nil -> default, 0 -> run until stopped
	Interval      time.Duration `yaml:"interval"`
	SourceRetries *int          `yaml:"source_retries"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
}

type SourceConfig struct {
	Kind                   string `yaml:"kind"` // "synthetic", "csv"
	source.SyntheticConfig `yaml:",inline"`
	CSVPath                string `yaml:"csv_path"`
	Loop                   bool   `yaml:"loop"`
}

type AggregationConfig struct {
	IdleQuantiles  []float64 `yaml:"idle_quantiles"`
	SketchAccuracy float64   `yaml:"sketch_accuracy"`
}

type SinksConfig struct {
	Terminal TerminalConfig `yaml:"terminal"`
	SQL      SQLConfig      `yaml:"sql"`
	Log      LogSinkConfig  `yaml:"log"`
}

type TerminalConfig struct {
	Enabled bool `yaml:"enabled"`
	Width   int  `yaml:"width"`
}

type SQLConfig struct {
	Driver     string `yaml:"driver"` // "postgres" (lib/pq) or "pgx"
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type LogSinkConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // "off" disables the HTTP server
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a config with every default applied, as an empty file would load.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

func (c *Config) ApplyDefaults() {
	if c.Bootstrap.Path == "" {
		c.Bootstrap.Path = "./data/datos_simulados.csv"
	}
	if c.Driver.BatchSize == 0 {
		c.Driver.BatchSize = 100
	}
	if c.Driver.Cycles == nil {
		c.Driver.Cycles = intPtr(5)
	}
	if c.Driver.Interval == 0 {
		c.Driver.Interval = 5 * time.Second
	}
	if c.Driver.SourceRetries == nil {
		c.Driver.SourceRetries = intPtr(3)
	}
	if c.Driver.RetryBackoff == 0 {
		c.Driver.RetryBackoff = 200 * time.Millisecond
	}
	if c.Source.Kind == "" {
		c.Source.Kind = "synthetic"
	}
	c.Source.SyntheticConfig.ApplyDefaults()
	if c.Aggregation.SketchAccuracy == 0 {
		c.Aggregation.SketchAccuracy = 0.01
	}
	if c.Sinks.Terminal.Width == 0 {
		c.Sinks.Terminal.Width = 40
	}
	if c.Sinks.SQL.Driver == "" {
		c.Sinks.SQL.Driver = "postgres"
	}
	if c.Sinks.SQL.Table == "" {
		c.Sinks.SQL.Table = "dashboard_views"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Bootstrap.Path == "" {
		return fmt.Errorf("bootstrap.path is required")
	}
	if c.Driver.BatchSize <= 0 {
		return fmt.Errorf("driver.batch_size must be > 0")
	}
	if c.Driver.Cycles != nil && *c.Driver.Cycles < 0 {
		return fmt.Errorf("driver.cycles must be >= 0")
	}
	if c.Driver.Interval < 0 {
		return fmt.Errorf("driver.interval must be >= 0")
	}
	if c.Driver.SourceRetries != nil && *c.Driver.SourceRetries < 0 {
		return fmt.Errorf("driver.source_retries must be >= 0")
	}
	switch c.Source.Kind {
	case "synthetic":
	case "csv":
		if c.Source.CSVPath == "" {
			return fmt.Errorf("source.csv_path is required for source.kind=csv")
		}
	default:
		return fmt.Errorf("source.kind %q: expected synthetic or csv", c.Source.Kind)
	}
	for _, q := range c.Aggregation.IdleQuantiles {
		if q < 0 || q > 1 {
			return fmt.Errorf("aggregation.idle_quantiles: %v outside [0,1]", q)
		}
	}
	if c.Aggregation.SketchAccuracy <= 0 || c.Aggregation.SketchAccuracy >= 1 {
		return fmt.Errorf("aggregation.sketch_accuracy must be in (0,1)")
	}
	switch c.Sinks.SQL.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("sinks.sql.driver %q: expected postgres or pgx", c.Sinks.SQL.Driver)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// CycleCount returns the configured cycle count, 0 meaning unbounded.
func (c *Config) CycleCount() int {
	if c.Driver.Cycles == nil {
		return 5
	}
	return *c.Driver.Cycles
}

// RetryCount returns the configured number of source retries.
func (c *Config) RetryCount() int {
	if c.Driver.SourceRetries == nil {
		return 3
	}
	return *c.Driver.SourceRetries
}

// Policy converts the driver section into the policy the update loop runs with.
func (c *Config) Policy() ports.DriverPolicy {
	return ports.DriverPolicy{
		BatchSize:     c.Driver.BatchSize,
		Cycles:        c.CycleCount(),
		Interval:      c.Driver.Interval,
		SourceRetries: c.RetryCount(),
		RetryBackoff:  c.Driver.RetryBackoff,
	}
}

func intPtr(v int) *int { return &v }
