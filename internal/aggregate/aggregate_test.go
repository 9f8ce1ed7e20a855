package aggregate

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/ghalamif/MineFlow/internal/domain"
)

func scenarioRecords() []domain.Record {
	return []domain.Record{
		{Year: 2024, Month: domain.January, Day: 1, Crew: domain.Crew1, Tonnage: 100, TruckIdleTime: 10, TotalDistance: 50, MaterialType: domain.MaterialSME},
		{Year: 2024, Month: domain.January, Day: 1, Crew: domain.Crew1, Tonnage: 50, TruckIdleTime: 20, TotalDistance: 30, MaterialType: domain.MaterialSME},
		{Year: 2024, Month: domain.January, Day: 2, Crew: domain.Crew2, Tonnage: 200, TruckIdleTime: 5, TotalDistance: 80, MaterialType: domain.MaterialOXI},
	}
}

func assertRows(t *testing.T, v domain.View, want map[string]float64) {
	t.Helper()
	if len(v.Rows) != len(want) {
		t.Fatalf("%s: expected %d rows, got %d (%+v)", v.Name, len(want), len(v.Rows), v.Rows)
	}
	for key, value := range want {
		row, ok := v.Lookup(key)
		if !ok {
			t.Fatalf("%s: missing group %q", v.Name, key)
		}
		if row.Value != value {
			t.Fatalf("%s: group %q expected %v, got %v", v.Name, key, value, row.Value)
		}
	}
}

func TestScenarioViews(t *testing.T) {
	records := scenarioRecords()

	assertRows(t, TonnagePerDay(records), map[string]float64{"enero/1": 150, "enero/2": 200})
	assertRows(t, IdleTimePerCrew(records), map[string]float64{"Grupo 1": 15, "Grupo 2": 5})
	assertRows(t, DistancePerMaterial(records), map[string]float64{"SME": 80, "OXI": 80})
}

func TestEmptyStoreYieldsEmptyViews(t *testing.T) {
	views, err := Compute(nil, Options{IdleQuantiles: []float64{0.5}})
	if err != nil {
		t.Fatalf("compute on empty store: %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 views, got %d", len(views))
	}
	for _, v := range views {
		if len(v.Rows) != 0 {
			t.Fatalf("%s: expected no rows, got %+v", v.Name, v.Rows)
		}
		if v.Rows == nil {
			t.Fatalf("%s: expected empty, non-nil rows", v.Name)
		}
	}
}

func TestTonnageIsConserved(t *testing.T) {
	records := syntheticRecords(500)
	var total float64
	for _, r := range records {
		total += r.Tonnage
	}
	got := TonnagePerDay(records).Total()
	if math.Abs(got-total) > 1e-6 {
		t.Fatalf("expected tonnage total %v, got %v", total, got)
	}
}

func TestIdleTimeSingleMemberIsExact(t *testing.T) {
	records := []domain.Record{
		{Month: domain.March, Day: 3, Crew: domain.Crew3, TruckIdleTime: 123.456, MaterialType: domain.MaterialLOX},
		{Month: domain.March, Day: 3, Crew: domain.Crew4, TruckIdleTime: 1, MaterialType: domain.MaterialLOX},
		{Month: domain.March, Day: 3, Crew: domain.Crew4, TruckIdleTime: 2, MaterialType: domain.MaterialLOX},
	}
	row, ok := IdleTimePerCrew(records).Lookup("Grupo 3")
	if !ok || row.Value != 123.456 || row.Members != 1 {
		t.Fatalf("unexpected single-member row: %+v ok=%v", row, ok)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	records := syntheticRecords(200)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := Options{IdleQuantiles: []float64{0.5, 0.9}, Now: func() time.Time { return fixed }}

	first, err := Compute(records, opts)
	if err != nil {
		t.Fatalf("first compute: %v", err)
	}
	second, err := Compute(records, opts)
	if err != nil {
		t.Fatalf("second compute: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical views on unchanged snapshot")
	}
}

func TestTonnagePerDayOrdersByCalendar(t *testing.T) {
	records := []domain.Record{
		{Month: domain.March, Day: 2, Tonnage: 1},
		{Month: domain.January, Day: 15, Tonnage: 1},
		{Month: domain.March, Day: 1, Tonnage: 1},
		{Month: domain.January, Day: 3, Tonnage: 1},
		{Month: domain.December, Day: 1, Tonnage: 1},
	}
	var got []string
	for _, r := range TonnagePerDay(records).Rows {
		got = append(got, r.KeyString())
	}
	want := []string{"enero/3", "enero/15", "marzo/1", "marzo/2", "diciembre/1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestCrewAndMaterialOrdering(t *testing.T) {
	records := []domain.Record{
		{Crew: domain.Crew4, MaterialType: domain.MaterialSME},
		{Crew: domain.Crew2, MaterialType: domain.MaterialALOX},
		{Crew: domain.Crew1, MaterialType: domain.MaterialOXI},
	}
	var crews, materials []string
	for _, r := range IdleTimePerCrew(records).Rows {
		crews = append(crews, r.KeyString())
	}
	for _, r := range DistancePerMaterial(records).Rows {
		materials = append(materials, r.KeyString())
	}
	if !reflect.DeepEqual(crews, []string{"Grupo 1", "Grupo 2", "Grupo 4"}) {
		t.Fatalf("unexpected crew order %v", crews)
	}
	if !reflect.DeepEqual(materials, []string{"A-LOX", "OXI", "SME"}) {
		t.Fatalf("unexpected material order %v", materials)
	}
}

func TestComputeRejectsNonFiniteValues(t *testing.T) {
	records := []domain.Record{
		{Month: domain.January, Day: 1, Crew: domain.Crew1, Tonnage: math.Inf(1), MaterialType: domain.MaterialSME},
	}
	_, err := Compute(records, Options{})
	if !errors.Is(err, domain.ErrAggregation) {
		t.Fatalf("expected aggregation error, got %v", err)
	}
	var aggErr *domain.AggregationError
	if !errors.As(err, &aggErr) || aggErr.View != domain.ViewTonnagePerDay || aggErr.Key != "enero/1" {
		t.Fatalf("unexpected aggregation error detail: %+v", aggErr)
	}
}

func TestComputeViewOrder(t *testing.T) {
	views, err := Compute(scenarioRecords(), Options{IdleQuantiles: []float64{0.9}})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	var names []string
	for _, v := range views {
		names = append(names, v.Name)
		if v.StoreLen != 3 {
			t.Fatalf("%s: expected store len 3, got %d", v.Name, v.StoreLen)
		}
	}
	want := []string{
		domain.ViewTonnagePerDay,
		domain.ViewIdleTimePerCrew,
		domain.ViewDistancePerMaterial,
		"idle_time_p90_per_crew",
	}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected views %v, got %v", want, names)
	}
}

// syntheticRecords builds a deterministic spread of records across every
// month, crew and material.
func syntheticRecords(n int) []domain.Record {
	out := make([]domain.Record, n)
	for i := range out {
		out[i] = domain.Record{
			Year:          2024,
			Month:         domain.Months[i%len(domain.Months)],
			Day:           i%28 + 1,
			Crew:          domain.Crews[i%len(domain.Crews)],
			TotalDistance: 500 + float64(i%97)*13.5,
			TruckIdleTime: float64(i%41) * 7.25,
			Tonnage:       300 + float64(i%11)*9.1,
			MaterialType:  domain.MaterialTypes[i%len(domain.MaterialTypes)],
			OperatorName:  "chofer_1",
		}
	}
	return out
}
