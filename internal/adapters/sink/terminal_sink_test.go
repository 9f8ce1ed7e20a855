package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ghalamif/MineFlow/internal/domain"
)

func TestTerminalSinkRendersBars(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTerminalSink(&buf, 10)

	err := sink.Render(domain.View{
		Name:     domain.ViewIdleTimePerCrew,
		Cycle:    1,
		StoreLen: 3,
		Rows: []domain.Row{
			{Key: []string{"Grupo 1"}, Value: 15, Members: 2},
			{Key: []string{"Grupo 2"}, Value: 5, Members: 1},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Tiempo de Inactividad por Grupo", "(cycle 1, 3 records)", "Grupo 1", "15.00", "5.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected title + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if got := strings.Count(lines[1], "█"); got != 10 {
		t.Fatalf("largest value should fill the bar width, got %d", got)
	}
	if got := strings.Count(lines[2], "█"); got != 3 {
		t.Fatalf("expected a third-length bar, got %d", got)
	}
}

func TestTerminalSinkEmptyView(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTerminalSink(&buf, 0)

	if err := sink.Render(domain.View{Name: "idle_time_p90_per_crew"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "idle_time_p90_per_crew") || !strings.Contains(out, "no data") {
		t.Fatalf("unexpected empty view output:\n%s", out)
	}
}
