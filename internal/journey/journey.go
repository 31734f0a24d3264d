// Package journey assembles the derived views the app displays: the day
// view behind the dashboard and the month view behind the calendar and the
// report. It reads records through Source and never writes.
package journey

import (
	"context"
	"fmt"
	"time"

	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/glp1"
	"github.com/upwell-app/upwell/internal/store"
	"github.com/upwell-app/upwell/internal/weight"
)

// Source is the read side of the record store.
type Source interface {
	CheckIns(ctx context.Context, userID string) ([]checkin.CheckIn, error)
	CheckInsForMonth(ctx context.Context, userID string, year int, month time.Month) ([]checkin.CheckIn, error)
	WeightRecords(ctx context.Context, userID string) ([]weight.Record, error)
	Applications(ctx context.Context, userID string) ([]glp1.Application, error)
}

// StoreSource reads from the database-backed stores.
type StoreSource struct {
	checkins *checkin.Store
	weights  *weight.Store
	apps     *glp1.Store
}

// NewStoreSource wires a Source over db.
func NewStoreSource(db *store.DB) *StoreSource {
	return &StoreSource{
		checkins: checkin.NewStore(db),
		weights:  weight.NewStore(db),
		apps:     glp1.NewStore(db),
	}
}

func (s *StoreSource) CheckIns(ctx context.Context, userID string) ([]checkin.CheckIn, error) {
	return s.checkins.CheckIns(ctx, userID)
}

func (s *StoreSource) CheckInsForMonth(ctx context.Context, userID string, year int, month time.Month) ([]checkin.CheckIn, error) {
	return s.checkins.CheckInsForMonth(ctx, userID, year, month)
}

func (s *StoreSource) WeightRecords(ctx context.Context, userID string) ([]weight.Record, error) {
	return s.weights.Records(ctx, userID)
}

func (s *StoreSource) Applications(ctx context.Context, userID string) ([]glp1.Application, error) {
	return s.apps.Applications(ctx, userID)
}

// ProgramDay returns the 1-based day of the program for today, clamped to
// [0, length]. Day 0 means the program has not started.
func ProgramDay(start, today string, length int) (int, error) {
	n, err := dates.DaysBetween(start, today)
	if err != nil {
		return 0, err
	}
	day := n + 1
	switch {
	case day < 0:
		return 0, nil
	case day > length:
		return length, nil
	}
	return day, nil
}

// Today is everything the dashboard shows for one day.
type Today struct {
	Date        string
	ProgramDay  int
	ProgramDays int
	CheckedIn   bool
	Streak      int
	Week        []checkin.WeekDay
	WeekMetrics checkin.Metrics
	TopContexts []checkin.ContextCount

	// Medication is set when at least one application has been logged.
	Medication *glp1.Schedule
	Weight     weight.Summary
}

// Options configures LoadToday.
type Options struct {
	UserID      string
	StartDate   string // empty when the program start is unknown
	ProgramDays int
}

// LoadToday reads the user's records and derives the day view for today.
func LoadToday(ctx context.Context, src Source, opts Options, today string) (*Today, error) {
	checkins, err := src.CheckIns(ctx, opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading check-ins: %w", err)
	}

	t := &Today{Date: today, ProgramDays: opts.ProgramDays}

	if opts.StartDate != "" {
		if t.ProgramDay, err = ProgramDay(opts.StartDate, today, opts.ProgramDays); err != nil {
			return nil, fmt.Errorf("program day: %w", err)
		}
	}
	if t.Streak, err = checkin.Streak(checkins, today); err != nil {
		return nil, fmt.Errorf("streak: %w", err)
	}
	t.CheckedIn = t.Streak > 0
	if t.Week, err = checkin.CurrentWeek(checkins, today); err != nil {
		return nil, fmt.Errorf("week: %w", err)
	}
	week, err := checkin.ForWeek(checkins, today)
	if err != nil {
		return nil, fmt.Errorf("week: %w", err)
	}
	t.WeekMetrics = checkin.Aggregate(week)
	t.TopContexts = t.WeekMetrics.TopContexts(2)

	apps, err := src.Applications(ctx, opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading applications: %w", err)
	}
	sched, ok, err := glp1.Status(apps, today)
	if err != nil {
		return nil, fmt.Errorf("medication schedule: %w", err)
	}
	if ok {
		t.Medication = &sched
	}

	weights, err := src.WeightRecords(ctx, opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading weights: %w", err)
	}
	t.Weight = weight.Summarize(weights)

	return t, nil
}

// Month is everything the calendar and the monthly report show.
type Month struct {
	Year        int
	Month       time.Month
	Days        []checkin.Day
	Rows        [][7]checkin.Day
	Metrics     checkin.Metrics
	TopContexts []checkin.ContextCount
	BestStreak  int
	Weights     []weight.Record
	CheckIns    []checkin.CheckIn
}

// LoadMonth reads one month of records and derives the month view.
func LoadMonth(ctx context.Context, src Source, userID string, year int, month time.Month) (*Month, error) {
	checkins, err := src.CheckInsForMonth(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("loading check-ins: %w", err)
	}
	// The store already bounds the query; filtering again keeps the view
	// correct for any Source.
	if checkins, err = checkin.ForMonth(checkins, year, month); err != nil {
		return nil, err
	}

	m := &Month{Year: year, Month: month, CheckIns: checkins}
	if m.Days, err = checkin.MonthDays(checkins, year, month); err != nil {
		return nil, err
	}
	if m.Rows, err = checkin.Weeks(m.Days); err != nil {
		return nil, err
	}
	m.Metrics = checkin.Aggregate(checkins)
	m.TopContexts = m.Metrics.TopContexts(2)
	m.BestStreak = checkin.BestStreak(m.Days)

	weights, err := src.WeightRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading weights: %w", err)
	}
	m.Weights = weight.ForMonth(weights, year, month)
	return m, nil
}
