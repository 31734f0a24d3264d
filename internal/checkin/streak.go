package checkin

import (
	"sort"
	"time"

	"github.com/upwell-app/upwell/internal/dates"
)

// Streak counts consecutive days ending on today that have a check-in.
//
// Existence of a record is what counts, so a shielded day extends the streak
// like any other. There is no grace day: without a check-in for today the
// streak is 0.
func Streak(checkins []CheckIn, today string) (int, error) {
	if _, err := dates.Parse(today); err != nil {
		return 0, err
	}
	if err := validateDates(checkins); err != nil {
		return 0, err
	}

	recent := make([]string, 0, len(checkins))
	for _, c := range checkins {
		recent = append(recent, c.Date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(recent)))
	if len(recent) > Lookback {
		recent = recent[:Lookback]
	}

	has := make(map[string]bool, len(recent))
	for _, d := range recent {
		has[d] = true
	}

	streak := 0
	expected := today
	for range recent {
		if !has[expected] {
			break
		}
		streak++
		prev, err := dates.AddDays(expected, -1)
		if err != nil {
			return 0, err
		}
		expected = prev
	}
	return streak, nil
}

// BestStreak returns the longest run of completed days in days, which must
// be in day order. Runs are not carried across the slice's edges.
func BestStreak(days []Day) int {
	best, run := 0, 0
	for _, d := range days {
		if !d.Completed {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}

// BestStreakInMonth returns the longest run of completed days within one
// calendar month.
func BestStreakInMonth(checkins []CheckIn, year int, month time.Month) (int, error) {
	days, err := MonthDays(checkins, year, month)
	if err != nil {
		return 0, err
	}
	return BestStreak(days), nil
}
