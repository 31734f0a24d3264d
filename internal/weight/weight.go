// Package weight logs body-weight measurements and summarizes progress
// over the journey.
package weight

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/upwell-app/upwell/internal/dates"
)

// ErrInvalidRecord is returned for non-positive weights.
var ErrInvalidRecord = errors.New("invalid weight record")

// Record is one day's weight in kilograms.
type Record struct {
	Date    string
	Kg      float64
	Context string
	Notes   string
}

// Validate checks the record-level invariants.
func (r Record) Validate() error {
	if _, err := dates.Parse(r.Date); err != nil {
		return err
	}
	if r.Kg <= 0 {
		return fmt.Errorf("%w: weight must be positive, got %.1f", ErrInvalidRecord, r.Kg)
	}
	return nil
}

// Summary describes progress across a set of records.
type Summary struct {
	Count    int
	First    Record
	Latest   Record
	Lowest   Record
	ChangeKg float64 // Latest - First; negative means weight lost
	// ChangePct is ChangeKg as a percentage of the first weight.
	ChangePct float64
}

// Summarize computes a Summary. Empty input yields the zero Summary.
func Summarize(records []Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	sorted := sortedAsc(records)

	s := Summary{
		Count:  len(sorted),
		First:  sorted[0],
		Latest: sorted[len(sorted)-1],
		Lowest: sorted[0],
	}
	for _, r := range sorted[1:] {
		if r.Kg < s.Lowest.Kg {
			s.Lowest = r
		}
	}
	s.ChangeKg = s.Latest.Kg - s.First.Kg
	s.ChangePct = s.ChangeKg / s.First.Kg * 100
	return s
}

// ForMonth returns the records within one calendar month, in day order.
func ForMonth(records []Record, year int, month time.Month) []Record {
	first, last := dates.MonthBounds(year, month)
	out := []Record{}
	for _, r := range sortedAsc(records) {
		if r.Date >= first && r.Date <= last {
			out = append(out, r)
		}
	}
	return out
}

func sortedAsc(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
