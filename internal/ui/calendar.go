package ui

import (
	"fmt"
	"strings"

	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/dates"
)

// CalendarGrid renders a month grid, one row per calendar week. Completed
// days are highlighted, shield days get their own color, and today (if it
// falls in the month) is underlined.
func CalendarGrid(rows [][7]checkin.Day, today string) string {
	var b strings.Builder
	for i, l := range dates.WeekLabels {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(Muted.Render(fmt.Sprintf("%2s", l)))
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, d := range row {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(calendarCell(d, today))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func calendarCell(d checkin.Day, today string) string {
	if d.Empty() {
		return "  "
	}
	cell := fmt.Sprintf("%2d", d.DayOfMonth)
	switch {
	case d.ViaShield:
		return ShieldCell.Render(cell)
	case d.Completed:
		return DoneCell.Render(cell)
	case d.Date == today:
		return TodayCell.Render(cell)
	}
	return Muted.Render(cell)
}

// WeekStrip renders the Monday-to-Sunday strip shown on the dashboard.
func WeekStrip(week []checkin.WeekDay) string {
	labels := make([]string, 0, len(week))
	marks := make([]string, 0, len(week))
	for _, d := range week {
		labels = append(labels, Muted.Render(d.Label))
		if d.HasCheckIn {
			marks = append(marks, Success.Render(IconFilled))
		} else {
			marks = append(marks, Muted.Render(IconEmpty))
		}
	}
	return strings.Join(labels, " ") + "\n" + strings.Join(marks, " ")
}

// ProgressBar renders done/total as a fixed-width bar.
func ProgressBar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	if done > total {
		done = total
	}
	if done < 0 {
		done = 0
	}
	filled := done * width / total
	return Success.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}
