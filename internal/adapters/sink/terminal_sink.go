package sink

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

var viewTitles = map[string]string{
	domain.ViewTonnagePerDay:       "Tonelaje Total por Día",
	domain.ViewIdleTimePerCrew:     "Tiempo de Inactividad por Grupo",
	domain.ViewDistancePerMaterial: "Distancia Total Recorrida por Tipo de Material",
}

// TerminalSink draws each view as a horizontal bar chart.
type TerminalSink struct {
	mu       sync.Mutex
	w        io.Writer
	barWidth int

	title lipgloss.Style
	meta  lipgloss.Style
	label lipgloss.Style
	bar   lipgloss.Style
}

// NewTerminalSink renders to w; barWidth is the length of the longest bar.
// Colors are only emitted when w is a terminal.
func NewTerminalSink(w io.Writer, barWidth int) *TerminalSink {
	if barWidth <= 0 {
		barWidth = 40
	}
	r := lipgloss.NewRenderer(w)
	return &TerminalSink{
		w:        w,
		barWidth: barWidth,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		meta:     r.NewStyle().Faint(true),
		label:    r.NewStyle().Foreground(lipgloss.Color("252")),
		bar:      r.NewStyle().Foreground(lipgloss.Color("39")),
	}
}

func (s *TerminalSink) Name() string { return "terminal" }

func (s *TerminalSink) Render(v domain.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := viewTitles[v.Name]
	if title == "" {
		title = v.Name
	}

	lines := []string{
		s.title.Render(title) + " " + s.meta.Render(fmt.Sprintf("(cycle %d, %d records)", v.Cycle, v.StoreLen)),
	}
	if len(v.Rows) == 0 {
		lines = append(lines, s.meta.Render("  no data"))
	}

	var (
		maxValue float64
		labelW   int
	)
	for _, r := range v.Rows {
		maxValue = math.Max(maxValue, r.Value)
		labelW = max(labelW, lipgloss.Width(r.KeyString()))
	}
	for _, r := range v.Rows {
		key := r.KeyString()
		pad := strings.Repeat(" ", labelW-lipgloss.Width(key))
		n := 0
		if maxValue > 0 && r.Value > 0 {
			n = max(1, int(math.Round(r.Value/maxValue*float64(s.barWidth))))
		}
		lines = append(lines, fmt.Sprintf("  %s%s %s %s",
			s.label.Render(key), pad,
			s.bar.Render(strings.Repeat("█", n)),
			formatValue(r.Value)))
	}

	_, err := fmt.Fprintln(s.w, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return err
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

var _ ports.ViewSink = (*TerminalSink)(nil)
