// Package glp1 logs GLP-1 medication applications and derives the weekly
// application schedule from them.
package glp1

import (
	"errors"
	"fmt"
	"strings"

	"github.com/upwell-app/upwell/internal/dates"
)

// Interval is the number of days between applications.
const Interval = 7

// Medication is a commonly prescribed GLP-1 product.
type Medication struct {
	Name      string
	Substance string
}

// KnownMedications seeds the medication chooser. Any other name is accepted.
var KnownMedications = []Medication{
	{"Ozempic", "semaglutida"},
	{"Wegovy", "semaglutida"},
	{"Rybelsus", "semaglutida oral"},
	{"Mounjaro", "tirzepatida"},
	{"Zepbound", "tirzepatida"},
	{"Saxenda", "liraglutida"},
	{"Victoza", "liraglutida"},
}

// ErrInvalidApplication is returned for applications missing required fields.
var ErrInvalidApplication = errors.New("invalid application")

// Application is one logged medication application.
type Application struct {
	ID          string
	Date        string
	Medication  string
	Dose        string
	Observation string
}

// Validate checks the record-level invariants.
func (a Application) Validate() error {
	if _, err := dates.Parse(a.Date); err != nil {
		return err
	}
	if strings.TrimSpace(a.Medication) == "" {
		return fmt.Errorf("%w: medication name is required", ErrInvalidApplication)
	}
	return nil
}

// Latest returns the most recent application. Zero-padded dates compare
// correctly as strings.
func Latest(apps []Application) (Application, bool) {
	if len(apps) == 0 {
		return Application{}, false
	}
	latest := apps[0]
	for _, a := range apps[1:] {
		if a.Date > latest.Date {
			latest = a
		}
	}
	return latest, true
}

// NextApplicationDate returns the latest application date plus Interval
// days. ok is false when there are no applications.
func NextApplicationDate(apps []Application) (next string, ok bool, err error) {
	for _, a := range apps {
		if _, err := dates.Parse(a.Date); err != nil {
			return "", false, fmt.Errorf("application: %w", err)
		}
	}
	latest, ok := Latest(apps)
	if !ok {
		return "", false, nil
	}
	next, err = dates.AddDays(latest.Date, Interval)
	if err != nil {
		return "", false, err
	}
	return next, true, nil
}

// DaysUntil returns the number of calendar days from today to target.
// It is negative once target has passed.
func DaysUntil(target, today string) (int, error) {
	return dates.DaysBetween(today, target)
}

// Schedule summarizes where the user is in the weekly cycle.
type Schedule struct {
	Last      Application
	Next      string
	DaysUntil int
}

// DueToday reports whether the next application falls on today.
func (s Schedule) DueToday() bool { return s.DaysUntil == 0 }

// Overdue reports whether the next application date has passed.
func (s Schedule) Overdue() bool { return s.DaysUntil < 0 }

// Status computes the schedule as of today. ok is false when nothing has
// been logged yet.
func Status(apps []Application, today string) (Schedule, bool, error) {
	next, ok, err := NextApplicationDate(apps)
	if err != nil || !ok {
		return Schedule{}, false, err
	}
	days, err := DaysUntil(next, today)
	if err != nil {
		return Schedule{}, false, err
	}
	last, _ := Latest(apps)
	return Schedule{Last: last, Next: next, DaysUntil: days}, true, nil
}
