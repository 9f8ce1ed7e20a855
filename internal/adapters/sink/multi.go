package sink

import (
	"fmt"

	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// Multi renders each view on every sink in order and stops at the first failure.
type Multi []ports.ViewSink

func (m Multi) Name() string { return "multi" }

func (m Multi) Render(v domain.View) error {
	for _, s := range m {
		if err := s.Render(v); err != nil {
			return fmt.Errorf("sink %s: %w", s.Name(), err)
		}
	}
	return nil
}

var _ ports.ViewSink = Multi(nil)
