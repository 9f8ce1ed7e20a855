// Package csvfile reads and writes the tabular record snapshot the dashboard
// is bootstrapped from.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ghalamif/MineFlow/internal/domain"
)

type column int

const (
	colYear column = iota
	colMonth
	colDay
	colCrew
	colEmptyTravel
	colDistance
	colIdle
	colTonnage
	colMaterial
	colOperator
	numColumns
)

// Header is the header written by Encode; it matches the dispatch export.
var Header = []string{
	"Año", "Mes", "Día", "Crew",
	"Suma de EmptyTravelDuration", "Suma de TotalDistance", "Suma de TruckIdleTime", "Suma de Tonnage",
	"MaterialType", "TruckOperatorName",
}

var headerAliases = map[string]column{
	"año": colYear, "ano": colYear, "year": colYear,
	"mes": colMonth, "month": colMonth,
	"día": colDay, "dia": colDay, "day": colDay,
	"crew": colCrew,
	"suma de emptytravelduration": colEmptyTravel, "empty_travel_duration": colEmptyTravel,
	"suma de totaldistance": colDistance, "total_distance": colDistance,
	"suma de truckidletime": colIdle, "truck_idle_time": colIdle,
	"suma de tonnage": colTonnage, "tonnage": colTonnage,
	"materialtype": colMaterial, "material_type": colMaterial,
	"truckoperatorname": colOperator, "operator_name": colOperator,
}

// Load reads the snapshot at path. Any failure is a *domain.BootstrapLoadError.
func Load(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.BootstrapLoadError{Path: path, Err: err}
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		var le *lineError
		if errors.As(err, &le) {
			return nil, &domain.BootstrapLoadError{Path: path, Line: le.line, Err: le.err}
		}
		return nil, &domain.BootstrapLoadError{Path: path, Err: err}
	}
	return records, nil
}

type lineError struct {
	line int
	err  error
}

func (e *lineError) Error() string { return fmt.Sprintf("line %d: %v", e.line, e.err) }
func (e *lineError) Unwrap() error { return e.err }

// Decode parses a headered snapshot. Column order is free; every column must be present.
func Decode(r io.Reader) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty snapshot: missing header")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	index, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var out []domain.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &lineError{line: pe.Line, err: pe.Err}
			}
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		rec, err := parseRow(row, index)
		if err != nil {
			return nil, &lineError{line: line, err: err}
		}
		out = append(out, rec)
	}
}

func mapHeader(header []string) ([numColumns]int, error) {
	var index [numColumns]int
	for i := range index {
		index[i] = -1
	}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if col, ok := headerAliases[key]; ok {
			index[col] = i
		}
	}
	for col, pos := range index {
		if pos < 0 {
			return index, fmt.Errorf("missing column %q", Header[col])
		}
	}
	return index, nil
}

func parseRow(row []string, index [numColumns]int) (domain.Record, error) {
	field := func(c column) string { return strings.TrimSpace(row[index[c]]) }

	var (
		rec domain.Record
		err error
	)
	if rec.Year, err = strconv.Atoi(field(colYear)); err != nil {
		return rec, fmt.Errorf("year: %w", err)
	}
	if rec.Month, err = domain.ParseMonth(field(colMonth)); err != nil {
		return rec, err
	}
	if rec.Day, err = strconv.Atoi(field(colDay)); err != nil {
		return rec, fmt.Errorf("day: %w", err)
	}
	if rec.Crew, err = domain.ParseCrew(field(colCrew)); err != nil {
		return rec, err
	}
	floats := []struct {
		col column
		dst *float64
	}{
		{colEmptyTravel, &rec.EmptyTravelDuration},
		{colDistance, &rec.TotalDistance},
		{colIdle, &rec.TruckIdleTime},
		{colTonnage, &rec.Tonnage},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(field(f.col), 64)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", Header[f.col], err)
		}
		*f.dst = v
	}
	if rec.MaterialType, err = domain.ParseMaterialType(field(colMaterial)); err != nil {
		return rec, err
	}
	rec.OperatorName = field(colOperator)

	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

// Encode writes records with Header as the first row.
func Encode(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Year),
			string(r.Month),
			strconv.Itoa(r.Day),
			string(r.Crew),
			strconv.FormatFloat(r.EmptyTravelDuration, 'f', -1, 64),
			strconv.FormatFloat(r.TotalDistance, 'f', -1, 64),
			strconv.FormatFloat(r.TruckIdleTime, 'f', -1, 64),
			strconv.FormatFloat(r.Tonnage, 'f', -1, 64),
			string(r.MaterialType),
			r.OperatorName,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile encodes records into path, replacing any existing file.
func WriteFile(path string, records []domain.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
