package mineflow

import (
	"context"
	"fmt"

	"github.com/ghalamif/MineFlow/internal/adapters/csvfile"
	"github.com/ghalamif/MineFlow/internal/adapters/source"
	"github.com/ghalamif/MineFlow/internal/logging"
)

// LoadBootstrap reads a bootstrap CSV. Errors are *BootstrapLoadError.
func LoadBootstrap(path string) ([]Record, error) {
	return csvfile.Load(path)
}

// WriteBootstrap writes records as a CSV with the dashboard's Spanish headers.
func WriteBootstrap(path string, records []Record) error {
	return csvfile.WriteFile(path, records)
}

// NewSyntheticSource returns the simulated haul-truck source used by default.
func NewSyntheticSource(cfg SyntheticConfig) RecordSource {
	return source.NewSynthetic(cfg)
}

// NewCSVReplaySource replays a recorded CSV in batches; without loop it
// reports end of stream once every row was emitted.
func NewCSVReplaySource(path string, loop bool) (RecordSource, error) {
	return source.NewCSVReplay(path, loop)
}

// GenerateRecords draws n simulated records, e.g. to seed a bootstrap file.
func GenerateRecords(cfg SyntheticConfig, n int) ([]Record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("record count %d must be > 0", n)
	}
	return source.NewSynthetic(cfg).NextBatch(context.Background(), n)
}

// InitLogging configures the process logger from the logging section.
func InitLogging(cfg LoggingConfig) error {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	logging.Init(level, cfg.JSON)
	return nil
}
