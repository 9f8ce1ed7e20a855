// Package aggregate computes the dashboard's grouped reductions. Every
// function is a pure function of the snapshot it is given: views are
// recomputed from scratch on each call and never cached.
package aggregate

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ghalamif/MineFlow/internal/domain"
)

// Options enables the optional views computed alongside the three core ones.
type Options struct {
	// IdleQuantiles lists the idle-time quantiles (0..1) to compute per crew.
	IdleQuantiles []float64
	// SketchAccuracy is the relative accuracy of the quantile sketches. Defaults to 0.01.
	SketchAccuracy float64
	// Now stamps ComputedAt; defaults to time.Now.
	Now func() time.Time
}

// Compute runs every enabled reduction over records and returns the views in
// a fixed order: tonnage per day, idle time per crew, distance per material,
// then one view per configured idle-time quantile.
func Compute(records []domain.Record, opts Options) ([]domain.View, error) {
	views := []domain.View{
		TonnagePerDay(records),
		IdleTimePerCrew(records),
		DistancePerMaterial(records),
	}

	if len(opts.IdleQuantiles) > 0 {
		qviews, err := IdleTimeQuantilesPerCrew(records, opts.IdleQuantiles, opts.SketchAccuracy)
		if err != nil {
			return nil, err
		}
		views = append(views, qviews...)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	ts := now()
	for i := range views {
		if err := checkFinite(views[i]); err != nil {
			return nil, err
		}
		views[i].ComputedAt = ts
	}
	return views, nil
}

// TonnagePerDay sums tonnage per (month, day), ordered by calendar month then day.
func TonnagePerDay(records []domain.Record) domain.View {
	groups := reduce(records,
		func(r domain.Record) []string { return []string{string(r.Month), strconv.Itoa(r.Day)} },
		func(r domain.Record) float64 { return r.Tonnage },
	)
	slices.SortStableFunc(groups, func(a, b *accumulator) int {
		if c := cmp.Compare(a.first.Month.Ordinal(), b.first.Month.Ordinal()); c != 0 {
			return c
		}
		return cmp.Compare(a.first.Day, b.first.Day)
	})
	return view(domain.ViewTonnagePerDay, records, groups, sum)
}

// IdleTimePerCrew averages truck idle time per crew.
func IdleTimePerCrew(records []domain.Record) domain.View {
	groups := reduce(records,
		func(r domain.Record) []string { return []string{string(r.Crew)} },
		func(r domain.Record) float64 { return r.TruckIdleTime },
	)
	slices.SortStableFunc(groups, func(a, b *accumulator) int {
		return cmp.Compare(crewRank(a.first.Crew), crewRank(b.first.Crew))
	})
	return view(domain.ViewIdleTimePerCrew, records, groups, mean)
}

// DistancePerMaterial sums total distance per material code, ordered by code.
func DistancePerMaterial(records []domain.Record) domain.View {
	groups := reduce(records,
		func(r domain.Record) []string { return []string{string(r.MaterialType)} },
		func(r domain.Record) float64 { return r.TotalDistance },
	)
	slices.SortStableFunc(groups, func(a, b *accumulator) int {
		return strings.Compare(string(a.first.MaterialType), string(b.first.MaterialType))
	})
	return view(domain.ViewDistancePerMaterial, records, groups, sum)
}

type accumulator struct {
	key   []string
	first domain.Record
	sum   float64
	count int
}

// reduce groups records in first-seen order. A group only exists once it
// has a member, so count is never zero.
func reduce(records []domain.Record, key func(domain.Record) []string, value func(domain.Record) float64) []*accumulator {
	index := make(map[string]*accumulator)
	var groups []*accumulator
	for _, r := range records {
		k := key(r)
		id := strings.Join(k, "\x00")
		acc, ok := index[id]
		if !ok {
			acc = &accumulator{key: k, first: r}
			index[id] = acc
			groups = append(groups, acc)
		}
		acc.sum += value(r)
		acc.count++
	}
	return groups
}

func sum(a *accumulator) float64  { return a.sum }
func mean(a *accumulator) float64 { return a.sum / float64(a.count) }

func view(name string, records []domain.Record, groups []*accumulator, fn func(*accumulator) float64) domain.View {
	rows := make([]domain.Row, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, domain.Row{Key: g.key, Value: fn(g), Members: g.count})
	}
	return domain.View{Name: name, Rows: rows, StoreLen: len(records)}
}

func crewRank(c domain.Crew) int {
	if i := slices.Index(domain.Crews, c); i >= 0 {
		return i
	}
	return len(domain.Crews)
}

func checkFinite(v domain.View) error {
	for _, r := range v.Rows {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return &domain.AggregationError{View: v.Name, Key: r.KeyString(), Value: r.Value}
		}
	}
	return nil
}
