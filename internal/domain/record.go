package domain

import (
	"fmt"
	"math"
	"strings"
)

// Record is one haul-truck telemetry observation as produced by the mine's
// dispatch system (one row of the dashboard's source table).
type Record struct {
	Year                int          `json:"year"`
	Month               Month        `json:"month"`
	Day                 int          `json:"day"`
	Crew                Crew         `json:"crew"`
	EmptyTravelDuration float64      `json:"empty_travel_duration"`
	TotalDistance       float64      `json:"total_distance"`
	TruckIdleTime       float64      `json:"truck_idle_time"`
	Tonnage             float64      `json:"tonnage"`
	MaterialType        MaterialType `json:"material_type"`
	OperatorName        string       `json:"operator_name"`
}

// Validate reports the first field that falls outside the record schema.
func (r Record) Validate() error {
	if !r.Month.Valid() {
		return fmt.Errorf("month %q: unknown", string(r.Month))
	}
	if r.Day < 1 || r.Day > 31 {
		return fmt.Errorf("day %d: out of range", r.Day)
	}
	if !r.Crew.Valid() {
		return fmt.Errorf("crew %q: unknown", string(r.Crew))
	}
	if !r.MaterialType.Valid() {
		return fmt.Errorf("material type %q: unknown", string(r.MaterialType))
	}
	measures := []struct {
		name string
		v    float64
	}{
		{"empty travel duration", r.EmptyTravelDuration},
		{"total distance", r.TotalDistance},
		{"truck idle time", r.TruckIdleTime},
		{"tonnage", r.Tonnage},
	}
	for _, m := range measures {
		if math.IsNaN(m.v) || math.IsInf(m.v, 0) || m.v < 0 {
			return fmt.Errorf("%s %v: must be a finite value >= 0", m.name, m.v)
		}
	}
	return nil
}

// Month is a calendar month, named as the dispatch export names it.
type Month string

const (
	January   Month = "enero"
	February  Month = "febrero"
	March     Month = "marzo"
	April     Month = "abril"
	May       Month = "mayo"
	June      Month = "junio"
	July      Month = "julio"
	August    Month = "agosto"
	September Month = "septiembre"
	October   Month = "octubre"
	November  Month = "noviembre"
	December  Month = "diciembre"
)

// Months lists every month in calendar order.
var Months = []Month{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

// Ordinal returns 1 for enero through 12 for diciembre, 0 for unknown values.
func (m Month) Ordinal() int {
	for i, v := range Months {
		if v == m {
			return i + 1
		}
	}
	return 0
}

func (m Month) Valid() bool { return m.Ordinal() != 0 }

// ParseMonth accepts month names case-insensitively.
func ParseMonth(s string) (Month, error) {
	m := Month(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown month %q", s)
	}
	return m, nil
}

// Crew is an operating crew group.
type Crew string

const (
	Crew1 Crew = "Grupo 1"
	Crew2 Crew = "Grupo 2"
	Crew3 Crew = "Grupo 3"
	Crew4 Crew = "Grupo 4"
)

var Crews = []Crew{Crew1, Crew2, Crew3, Crew4}

func (c Crew) Valid() bool {
	for _, v := range Crews {
		if v == c {
			return true
		}
	}
	return false
}

func ParseCrew(s string) (Crew, error) {
	c := Crew(strings.TrimSpace(s))
	if !c.Valid() {
		return "", fmt.Errorf("unknown crew %q", s)
	}
	return c, nil
}

// MaterialType is the dispatch code of the hauled material.
type MaterialType string

const (
	MaterialASBL MaterialType = "A-SBL"
	MaterialLBLM MaterialType = "LBLM"
	MaterialOXI  MaterialType = "OXI"
	MaterialSME  MaterialType = "SME"
	MaterialSBL  MaterialType = "SBL"
	MaterialLOX  MaterialType = "LOX"
	MaterialLSU  MaterialType = "LSU"
	MaterialALOX MaterialType = "A-LOX"
)

var MaterialTypes = []MaterialType{
	MaterialASBL, MaterialLBLM, MaterialOXI, MaterialSME,
	MaterialSBL, MaterialLOX, MaterialLSU, MaterialALOX,
}

func (m MaterialType) Valid() bool {
	for _, v := range MaterialTypes {
		if v == m {
			return true
		}
	}
	return false
}

func ParseMaterialType(s string) (MaterialType, error) {
	m := MaterialType(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown material type %q", s)
	}
	return m, nil
}
