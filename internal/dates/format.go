package dates

import (
	"fmt"
	"time"
)

var weekdayNames = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

var monthNames = [...]string{
	"", "janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var monthAbbrev = [...]string{
	"", "jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// WeekLabels are the one-letter labels for a Monday-first week.
var WeekLabels = [7]string{"S", "T", "Q", "Q", "S", "S", "D"}

// FormatLong renders s as e.g. "segunda-feira, 20 de maio de 2024".
func FormatLong(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s, %d de %s de %d",
		weekdayNames[t.Weekday()], t.Day(), monthNames[t.Month()], t.Year()), nil
}

// FormatShort renders s as e.g. "20 mai".
func FormatShort(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s", t.Day(), monthAbbrev[t.Month()]), nil
}

// MonthName returns the capitalized month name with its year, e.g. "Maio 2024".
func MonthName(year int, month time.Month) string {
	if month < time.January || month > time.December {
		return fmt.Sprintf("%d-%02d", year, int(month))
	}
	name := monthNames[month]
	// Month names are ASCII except "março", whose first letter is still ASCII.
	return fmt.Sprintf("%c%s %d", name[0]-('a'-'A'), name[1:], year)
}
