package domain

import (
	"strings"
	"time"
)

// View names emitted by the aggregation engine.
const (
	ViewTonnagePerDay       = "tonnage_per_day"
	ViewIdleTimePerCrew     = "idle_time_per_crew"
	ViewDistancePerMaterial = "distance_per_material"
)

// Row is one group of an aggregate view.
type Row struct {
	Key     []string `json:"key"`
	Value   float64  `json:"value"`
	Members int      `json:"members"`
}

// KeyString joins the key parts with "/", e.g. "enero/1".
func (r Row) KeyString() string { return strings.Join(r.Key, "/") }

// View is a grouped reduction recomputed from the full store contents.
type View struct {
	Name       string    `json:"name"`
	Rows       []Row     `json:"rows"`
	StoreLen   int       `json:"store_len"`
	Cycle      int       `json:"cycle"`
	ComputedAt time.Time `json:"computed_at"`
}

// Total sums the values of every row.
func (v View) Total() float64 {
	var sum float64
	for _, r := range v.Rows {
		sum += r.Value
	}
	return sum
}

// Lookup returns the row whose joined key equals key.
func (v View) Lookup(key string) (Row, bool) {
	for _, r := range v.Rows {
		if r.KeyString() == key {
			return r, true
		}
	}
	return Row{}, false
}
