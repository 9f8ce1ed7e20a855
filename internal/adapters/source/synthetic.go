package source

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// SyntheticConfig shapes the simulated haul-truck records.
type SyntheticConfig struct {
	Seed      uint64 `yaml:"seed"` // 0 seeds from the clock
	Year      int    `yaml:"year"`
	Operators int    `yaml:"operators"`
}

func (c *SyntheticConfig) ApplyDefaults() {
	if c.Year == 0 {
		c.Year = 2024
	}
	if c.Operators <= 0 {
		c.Operators = 15
	}
}

// Synthetic draws uniformly distributed records in the ranges the mine's
// dispatch data shows: idle 0-1000, empty travel 0-500, distance
// 500-10000, tonnage 300-400, day 1-28.
type Synthetic struct {
	mu  sync.Mutex
	cfg SyntheticConfig
	rng *rand.Rand
}

func NewSynthetic(cfg SyntheticConfig) *Synthetic {
	cfg.ApplyDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Synthetic{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *Synthetic) Name() string { return "synthetic" }

func (s *Synthetic) NextBatch(ctx context.Context, size int) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("synthetic: batch size %d must be > 0", size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Record, size)
	for i := range out {
		out[i] = s.record()
	}
	return out, nil
}

func (s *Synthetic) record() domain.Record {
	return domain.Record{
		Year:                s.cfg.Year,
		Month:               domain.Months[s.rng.IntN(len(domain.Months))],
		Day:                 s.rng.IntN(28) + 1,
		Crew:                domain.Crews[s.rng.IntN(len(domain.Crews))],
		EmptyTravelDuration: s.uniform(0, 500),
		TotalDistance:       s.uniform(500, 10000),
		TruckIdleTime:       s.uniform(0, 1000),
		Tonnage:             s.uniform(300, 400),
		MaterialType:        domain.MaterialTypes[s.rng.IntN(len(domain.MaterialTypes))],
		OperatorName:        fmt.Sprintf("chofer_%d", s.rng.IntN(s.cfg.Operators)+1),
	}
}

func (s *Synthetic) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

var _ ports.RecordSource = (*Synthetic)(nil)
