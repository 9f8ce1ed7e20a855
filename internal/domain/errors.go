package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBootstrapLoad marks a missing or malformed bootstrap snapshot.
	ErrBootstrapLoad = errors.New("bootstrap load failed")
	// ErrSourceExhausted marks a record source that could not produce a batch.
	ErrSourceExhausted = errors.New("record source exhausted")
	// ErrAggregation marks an aggregation result that violates its invariants.
	ErrAggregation = errors.New("aggregation invariant violated")
)

// BootstrapLoadError is fatal: the process cannot start without its snapshot.
type BootstrapLoadError struct {
	Path string
	Line int // 0 when the error is not tied to a row
	Err  error
}

func (e *BootstrapLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("bootstrap %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("bootstrap %s: %v", e.Path, e.Err)
}

func (e *BootstrapLoadError) Unwrap() error        { return e.Err }
func (e *BootstrapLoadError) Is(target error) bool { return target == ErrBootstrapLoad }

// SourceExhaustionError is returned when a batch pull failed on every attempt.
type SourceExhaustionError struct {
	Attempts int
	Err      error
}

func (e *SourceExhaustionError) Error() string {
	return fmt.Sprintf("record source failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *SourceExhaustionError) Unwrap() error        { return e.Err }
func (e *SourceExhaustionError) Is(target error) bool { return target == ErrSourceExhausted }

// AggregationError reports a non-finite group value.
type AggregationError struct {
	View  string
	Key   string
	Value float64
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("view %s group %q: non-finite value %v", e.View, e.Key, e.Value)
}

func (e *AggregationError) Is(target error) bool { return target == ErrAggregation }
