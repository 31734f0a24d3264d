package checkin

import (
	"fmt"
	"time"

	"github.com/upwell-app/upwell/internal/dates"
)

// Day is one calendar cell. The zero Day is an empty placeholder.
type Day struct {
	DayOfMonth int
	Date       string
	Completed  bool
	ViaShield  bool
}

// Empty reports whether d is a padding cell.
func (d Day) Empty() bool { return d.Date == "" }

// MonthDays returns one Day per day of the month, in order. A day is
// completed when a check-in exists for it and via shield when that check-in
// also spent the shield.
func MonthDays(checkins []CheckIn, year int, month time.Month) ([]Day, error) {
	inMonth, err := ForMonth(checkins, year, month)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]CheckIn, len(inMonth))
	for _, c := range inMonth {
		byDate[c.Date] = c
	}

	n := dates.DaysIn(year, month)
	days := make([]Day, n)
	for i := range days {
		d := time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC).Format(dates.Layout)
		c, ok := byDate[d]
		days[i] = Day{
			DayOfMonth: i + 1,
			Date:       d,
			Completed:  ok,
			ViaShield:  ok && c.ShieldActivated,
		}
	}
	return days, nil
}

// Weeks lays days out in Monday-first rows of seven. The first row is padded
// on the left up to the first day's weekday and the last row on the right.
func Weeks(days []Day) ([][7]Day, error) {
	if len(days) == 0 {
		return [][7]Day{}, nil
	}
	if days[0].Empty() {
		return nil, fmt.Errorf("calendar: first day has no date")
	}
	offset, err := dates.Weekday(days[0].Date)
	if err != nil {
		return nil, err
	}

	var rows [][7]Day
	var row [7]Day
	col := offset
	for _, d := range days {
		row[col] = d
		col++
		if col == 7 {
			rows = append(rows, row)
			row = [7]Day{}
			col = 0
		}
	}
	if col > 0 {
		rows = append(rows, row)
	}
	return rows, nil
}

// MonthGrid is MonthDays followed by Weeks.
func MonthGrid(checkins []CheckIn, year int, month time.Month) ([][7]Day, error) {
	days, err := MonthDays(checkins, year, month)
	if err != nil {
		return nil, err
	}
	return Weeks(days)
}
