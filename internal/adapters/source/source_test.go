package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ghalamif/MineFlow/internal/adapters/csvfile"
	"github.com/ghalamif/MineFlow/internal/domain"
)

func TestSyntheticBatchShape(t *testing.T) {
	src := NewSynthetic(SyntheticConfig{Seed: 7})

	batch, err := src.NextBatch(context.Background(), 100)
	if err != nil {
		t.Fatalf("next batch: %v", err)
	}
	if len(batch) != 100 {
		t.Fatalf("expected 100 records, got %d", len(batch))
	}
	for i, r := range batch {
		if err := r.Validate(); err != nil {
			t.Fatalf("record %d invalid: %v", i, err)
		}
		if r.Year != 2024 || r.Day > 28 {
			t.Fatalf("record %d outside generator range: %+v", i, r)
		}
		if r.Tonnage < 300 || r.Tonnage > 400 || r.TotalDistance < 500 || r.TruckIdleTime > 1000 {
			t.Fatalf("record %d measures out of range: %+v", i, r)
		}
	}
}

func TestSyntheticSeedIsDeterministic(t *testing.T) {
	a, _ := NewSynthetic(SyntheticConfig{Seed: 42}).NextBatch(context.Background(), 20)
	b, _ := NewSynthetic(SyntheticConfig{Seed: 42}).NextBatch(context.Background(), 20)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical batches for identical seeds")
	}
}

func TestSyntheticHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSynthetic(SyntheticConfig{Seed: 1}).NextBatch(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func writeReplay(t *testing.T, n int) string {
	t.Helper()
	records, err := NewSynthetic(SyntheticConfig{Seed: 3}).NextBatch(context.Background(), n)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	path := filepath.Join(t.TempDir(), "replay.csv")
	if err := csvfile.WriteFile(path, records); err != nil {
		t.Fatalf("write replay: %v", err)
	}
	return path
}

func TestCSVReplayWithoutLoopDrains(t *testing.T) {
	src, err := NewCSVReplay(writeReplay(t, 5), false)
	if err != nil {
		t.Fatalf("new replay: %v", err)
	}
	ctx := context.Background()

	first, err := src.NextBatch(ctx, 3)
	if err != nil || len(first) != 3 {
		t.Fatalf("first batch: len=%d err=%v", len(first), err)
	}
	second, err := src.NextBatch(ctx, 3)
	if err != nil || len(second) != 2 {
		t.Fatalf("expected partial batch of 2, got len=%d err=%v", len(second), err)
	}
	if _, err := src.NextBatch(ctx, 3); !errors.Is(err, ErrReplayDone) {
		t.Fatalf("expected ErrReplayDone, got %v", err)
	}
}

func TestCSVReplayLoopRewinds(t *testing.T) {
	src, err := NewCSVReplay(writeReplay(t, 4), true)
	if err != nil {
		t.Fatalf("new replay: %v", err)
	}
	batch, err := src.NextBatch(context.Background(), 10)
	if err != nil || len(batch) != 10 {
		t.Fatalf("expected full looping batch, got len=%d err=%v", len(batch), err)
	}
	if batch[0] != batch[4] || batch[1] != batch[5] {
		t.Fatalf("expected rows to repeat after rewind")
	}
}

func TestCSVReplayMissingFile(t *testing.T) {
	_, err := NewCSVReplay(filepath.Join(t.TempDir(), "nope.csv"), false)
	if !errors.Is(err, domain.ErrBootstrapLoad) {
		t.Fatalf("expected bootstrap load error, got %v", err)
	}
}

func TestCSVReplayEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := csvfile.WriteFile(path, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
	if _, err := NewCSVReplay(path, true); err == nil {
		t.Fatalf("expected error for header-only file")
	}
}
