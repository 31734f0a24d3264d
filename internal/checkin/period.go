package checkin

import (
	"time"

	"github.com/upwell-app/upwell/internal/dates"
)

// WeekDay is one slot of the current-week strip.
type WeekDay struct {
	Date       string
	Label      string
	HasCheckIn bool
}

// ForMonth returns the check-ins dated within the given calendar month.
func ForMonth(checkins []CheckIn, year int, month time.Month) ([]CheckIn, error) {
	if err := validateDates(checkins); err != nil {
		return nil, err
	}
	first, last := dates.MonthBounds(year, month)
	return between(checkins, first, last), nil
}

// CurrentWeek returns the Monday-to-Sunday strip for the week containing
// today, flagging which days have a check-in.
func CurrentWeek(checkins []CheckIn, today string) ([]WeekDay, error) {
	if err := validateDates(checkins); err != nil {
		return nil, err
	}
	monday, err := dates.StartOfWeek(today)
	if err != nil {
		return nil, err
	}

	has := make(map[string]bool, len(checkins))
	for _, c := range checkins {
		has[c.Date] = true
	}

	week := make([]WeekDay, 7)
	for i := range week {
		d, err := dates.AddDays(monday, i)
		if err != nil {
			return nil, err
		}
		week[i] = WeekDay{Date: d, Label: dates.WeekLabels[i], HasCheckIn: has[d]}
	}
	return week, nil
}

// ForWeek returns the check-ins dated within the Monday-to-Sunday week
// containing today.
func ForWeek(checkins []CheckIn, today string) ([]CheckIn, error) {
	if err := validateDates(checkins); err != nil {
		return nil, err
	}
	monday, err := dates.StartOfWeek(today)
	if err != nil {
		return nil, err
	}
	sunday, err := dates.AddDays(monday, 6)
	if err != nil {
		return nil, err
	}
	return between(checkins, monday, sunday), nil
}

// between keeps records with first <= date <= last. Zero-padded dates
// compare correctly as strings.
func between(checkins []CheckIn, first, last string) []CheckIn {
	out := []CheckIn{}
	for _, c := range checkins {
		if c.Date >= first && c.Date <= last {
			out = append(out, c)
		}
	}
	return out
}
