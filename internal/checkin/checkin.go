// Package checkin models the daily check-in and derives streaks, calendars
// and habit metrics from snapshots of a user's check-in history.
//
// The derivation functions are pure: they take the records and an explicit
// reference date and return fresh values. Persistence lives in Store.
package checkin

import (
	"errors"
	"fmt"

	"github.com/upwell-app/upwell/internal/dates"
)

// Lookback caps how many records the streak scan considers. No streak can
// outgrow the 90-day program.
const Lookback = 90

// ErrInvalidCheckIn is returned when a check-in violates its invariants.
var ErrInvalidCheckIn = errors.New("invalid check-in")

// FoodAdherence is how closely the day's eating plan was followed.
type FoodAdherence int

const (
	AdherenceFull FoodAdherence = iota
	AdherencePartial
	AdherenceNone
)

var adherenceCodes = [...]string{"sim", "mais_ou_menos", "nao"}
var adherenceLabels = [...]string{"Sim", "Mais ou menos", "Não"}

// Code returns the storage code.
func (a FoodAdherence) Code() string { return adherenceCodes[a] }

func (a FoodAdherence) String() string { return adherenceLabels[a] }

// Challenged reports whether the day fell short of the plan.
func (a FoodAdherence) Challenged() bool { return a != AdherenceFull }

// ParseFoodAdherence converts a storage code into a FoodAdherence.
func ParseFoodAdherence(code string) (FoodAdherence, error) {
	for i, c := range adherenceCodes {
		if c == code {
			return FoodAdherence(i), nil
		}
	}
	return 0, fmt.Errorf("unknown food adherence %q (use one of: sim, mais_ou_menos, nao)", code)
}

// Mood is the self-reported mood for the day.
type Mood int

const (
	MoodGood Mood = iota
	MoodNeutral
	MoodTired
)

var moodCodes = [...]string{"bem", "neutro", "cansado"}
var moodLabels = [...]string{"Bem", "Neutro", "Cansado"}

// Code returns the storage code.
func (m Mood) Code() string { return moodCodes[m] }

func (m Mood) String() string { return moodLabels[m] }

// ParseMood converts a storage code into a Mood.
func ParseMood(code string) (Mood, error) {
	for i, c := range moodCodes {
		if c == code {
			return Mood(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mood %q (use one of: bem, neutro, cansado)", code)
}

// FoodContext is the reason tagged on a day when the eating plan slipped.
type FoodContext int

const (
	ContextSocial FoodContext = iota
	ContextAnxiety
	ContextOffHours
	ContextNoOption
)

// AllContexts lists every FoodContext in display order.
var AllContexts = []FoodContext{ContextSocial, ContextAnxiety, ContextOffHours, ContextNoOption}

var contextCodes = [...]string{"evento_social", "ansiedade", "fome_fora_de_hora", "sem_opcao"}
var contextLabels = [...]string{"Evento social", "Ansiedade / estresse", "Fome fora de hora", "Sem opção melhor"}

// Code returns the storage code.
func (c FoodContext) Code() string { return contextCodes[c] }

func (c FoodContext) String() string { return contextLabels[c] }

// ParseFoodContext converts a storage code into a FoodContext.
func ParseFoodContext(code string) (FoodContext, error) {
	for i, c := range contextCodes {
		if c == code {
			return FoodContext(i), nil
		}
	}
	return 0, fmt.Errorf("unknown food context %q (use one of: evento_social, ansiedade, fome_fora_de_hora, sem_opcao)", code)
}

// CheckIn is one user's record for one calendar day. Date is the identity key.
type CheckIn struct {
	Date            string
	Trained         bool
	DrankWater      bool
	SleptWell       bool
	Food            FoodAdherence
	Contexts        []FoodContext
	Note            string
	Mood            Mood
	ShieldActivated bool
}

// HasContext reports whether c is tagged with ctx.
func (c CheckIn) HasContext(ctx FoodContext) bool {
	for _, x := range c.Contexts {
		if x == ctx {
			return true
		}
	}
	return false
}

// Validate checks the record-level invariants.
func (c CheckIn) Validate() error {
	if _, err := dates.Parse(c.Date); err != nil {
		return err
	}
	if c.Food == AdherenceFull && len(c.Contexts) > 0 {
		return fmt.Errorf("%w: food contexts only apply when adherence is partial or none", ErrInvalidCheckIn)
	}
	seen := make(map[FoodContext]bool, len(c.Contexts))
	for _, ctx := range c.Contexts {
		if seen[ctx] {
			return fmt.Errorf("%w: duplicate food context %q", ErrInvalidCheckIn, ctx.Code())
		}
		seen[ctx] = true
	}
	return nil
}

// validateDates checks every record date so a bad row can't silently drop
// out of a derivation.
func validateDates(checkins []CheckIn) error {
	for _, c := range checkins {
		if _, err := dates.Parse(c.Date); err != nil {
			return fmt.Errorf("check-in: %w", err)
		}
	}
	return nil
}
