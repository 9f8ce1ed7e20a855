package aggregate

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/DataDog/sketches-go/ddsketch"

	"github.com/ghalamif/MineFlow/internal/domain"
)

const defaultSketchAccuracy = 0.01

// QuantileViewName names the view for quantile q, e.g. 0.9 -> idle_time_p90_per_crew.
func QuantileViewName(q float64) string {
	pct := math.Round(q*100*1000) / 1000
	return "idle_time_p" + strconv.FormatFloat(pct, 'f', -1, 64) + "_per_crew"
}

// IdleTimeQuantilesPerCrew estimates idle-time quantiles per crew with one
// DDSketch per crew. It returns one view per requested quantile.
func IdleTimeQuantilesPerCrew(records []domain.Record, quantiles []float64, accuracy float64) ([]domain.View, error) {
	for _, q := range quantiles {
		if q < 0 || q > 1 {
			return nil, fmt.Errorf("quantile %v out of range [0,1]", q)
		}
	}
	if accuracy <= 0 || accuracy >= 1 {
		accuracy = defaultSketchAccuracy
	}

	type crewSketch struct {
		crew   domain.Crew
		sketch *ddsketch.DDSketch
		count  int
	}
	index := make(map[domain.Crew]*crewSketch)
	var order []*crewSketch
	for _, r := range records {
		cs, ok := index[r.Crew]
		if !ok {
			sk, err := ddsketch.NewDefaultDDSketch(accuracy)
			if err != nil {
				return nil, fmt.Errorf("new sketch: %w", err)
			}
			cs = &crewSketch{crew: r.Crew, sketch: sk}
			index[r.Crew] = cs
			order = append(order, cs)
		}
		if err := cs.sketch.Add(r.TruckIdleTime); err != nil {
			return nil, fmt.Errorf("sketch add crew %s: %w", r.Crew, err)
		}
		cs.count++
	}
	slices.SortStableFunc(order, func(a, b *crewSketch) int {
		return crewRank(a.crew) - crewRank(b.crew)
	})

	views := make([]domain.View, 0, len(quantiles))
	for _, q := range quantiles {
		rows := make([]domain.Row, 0, len(order))
		for _, cs := range order {
			v, err := cs.sketch.GetValueAtQuantile(q)
			if err != nil {
				return nil, fmt.Errorf("quantile %v crew %s: %w", q, cs.crew, err)
			}
			rows = append(rows, domain.Row{Key: []string{string(cs.crew)}, Value: v, Members: cs.count})
		}
		views = append(views, domain.View{Name: QuantileViewName(q), Rows: rows, StoreLen: len(records)})
	}
	return views, nil
}
