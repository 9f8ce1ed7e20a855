package store

import (
	"testing"

	"github.com/ghalamif/MineFlow/internal/domain"
)

func TestMemStoreAppendPreservesOrder(t *testing.T) {
	s := NewMemStore([]domain.Record{{OperatorName: "seed"}})

	s.Append([]domain.Record{{OperatorName: "a"}, {OperatorName: "b"}})
	s.Append([]domain.Record{{OperatorName: "c"}})

	snap := s.Snapshot()
	want := []string{"seed", "a", "b", "c"}
	if len(snap) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(snap))
	}
	for i, name := range want {
		if snap[i].OperatorName != name {
			t.Fatalf("record %d: expected %s, got %s", i, name, snap[i].OperatorName)
		}
	}
}

func TestMemStoreLengthGrowsByBatchSize(t *testing.T) {
	seed := make([]domain.Record, 3)
	s := NewMemStore(seed)

	const batches, size = 4, 100
	for i := 0; i < batches; i++ {
		s.Append(make([]domain.Record, size))
	}
	if got := s.Len(); got != len(seed)+batches*size {
		t.Fatalf("expected len %d, got %d", len(seed)+batches*size, got)
	}
}

func TestMemStoreKeepsDuplicates(t *testing.T) {
	s := NewMemStore(nil)
	r := domain.Record{OperatorName: "dup", Tonnage: 1}
	s.Append([]domain.Record{r, r})
	s.Append([]domain.Record{r})
	if s.Len() != 3 {
		t.Fatalf("expected duplicates to be kept, got len %d", s.Len())
	}
}

func TestMemStoreSnapshotIsolatedFromLaterAppends(t *testing.T) {
	s := NewMemStore(nil)
	s.Append([]domain.Record{{OperatorName: "a"}})

	snap := s.Snapshot()
	s.Append([]domain.Record{{OperatorName: "b"}})

	if len(snap) != 1 {
		t.Fatalf("snapshot should keep its length, got %d", len(snap))
	}

	grown := append(snap, domain.Record{OperatorName: "caller"})
	if grown[0].OperatorName != "a" {
		t.Fatalf("unexpected first record %q", grown[0].OperatorName)
	}
	if got := s.Snapshot()[1].OperatorName; got != "b" {
		t.Fatalf("caller append leaked into the store: %q", got)
	}
}

func TestMemStoreSeedIsCopied(t *testing.T) {
	seed := []domain.Record{{OperatorName: "orig"}}
	s := NewMemStore(seed)
	seed[0].OperatorName = "mutated"
	if got := s.Snapshot()[0].OperatorName; got != "orig" {
		t.Fatalf("store should own its seed copy, got %q", got)
	}
}
