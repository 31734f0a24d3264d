package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/ui"
)

// The enum flags below implement pflag.Value so bad codes fail at parse
// time with the list of accepted values.
var (
	_ pflag.Value = foodFlag{}
	_ pflag.Value = moodFlag{}
	_ pflag.Value = contextsFlag{}
)

type foodFlag struct{ v *checkin.FoodAdherence }

func (f foodFlag) String() string {
	if f.v == nil {
		return ""
	}
	return f.v.Code()
}

func (f foodFlag) Set(s string) error {
	a, err := checkin.ParseFoodAdherence(s)
	if err != nil {
		return err
	}
	*f.v = a
	return nil
}

func (f foodFlag) Type() string { return "sim|mais_ou_menos|nao" }

type moodFlag struct{ v *checkin.Mood }

func (f moodFlag) String() string {
	if f.v == nil {
		return ""
	}
	return f.v.Code()
}

func (f moodFlag) Set(s string) error {
	m, err := checkin.ParseMood(s)
	if err != nil {
		return err
	}
	*f.v = m
	return nil
}

func (f moodFlag) Type() string { return "bem|neutro|cansado" }

// contextsFlag accumulates food contexts from repeated or comma-separated
// values.
type contextsFlag struct{ v *[]checkin.FoodContext }

func (f contextsFlag) String() string {
	if f.v == nil {
		return ""
	}
	codes := make([]string, len(*f.v))
	for i, c := range *f.v {
		codes[i] = c.Code()
	}
	return strings.Join(codes, ",")
}

func (f contextsFlag) Set(s string) error {
	for _, code := range strings.Split(s, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		c, err := checkin.ParseFoodContext(code)
		if err != nil {
			return err
		}
		*f.v = append(*f.v, c)
	}
	return nil
}

func (f contextsFlag) Type() string { return "context" }

func parseDate(s string) (string, error) {
	if _, err := dates.Parse(s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected %s)", s, ui.Accent.Render("YYYY-MM-DD"))
	}
	return s, nil
}

// monthArg resolves an optional YYYY-MM argument, defaulting to the month
// of today.
func monthArg(args []string, today string) (int, time.Month, error) {
	if len(args) > 0 {
		y, m, err := dates.ParseMonth(args[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid month %q (expected %s)", args[0], ui.Accent.Render("YYYY-MM"))
		}
		return y, m, nil
	}
	t, err := dates.Parse(today)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}
