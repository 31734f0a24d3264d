package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/ui"
)

// Flags for checkin.
var (
	checkinTrained  bool
	checkinWater    bool
	checkinSlept    bool
	checkinFood     checkin.FoodAdherence
	checkinContexts []checkin.FoodContext
	checkinMood     = checkin.MoodNeutral
	checkinShield   bool
	checkinNote     string
	checkinDate     string
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record the day's check-in",
	Long: `Record how the day went. Running it again for the same day replaces
the earlier answers.

Examples:
  upwell checkin --trained --water --slept
  upwell checkin --food mais_ou_menos --context ansiedade,evento_social --mood cansado
  upwell checkin --shield --note "viagem a trabalho"
  upwell checkin --date 2024-05-20 --trained`,
	Args: cobra.NoArgs,
	RunE: runCheckin,
}

func init() {
	f := checkinCmd.Flags()
	f.BoolVar(&checkinTrained, "trained", false, "Trained today")
	f.BoolVar(&checkinWater, "water", false, "Drank enough water")
	f.BoolVar(&checkinSlept, "slept", false, "Slept well")
	f.Var(foodFlag{&checkinFood}, "food", "Eating plan adherence")
	f.Var(contextsFlag{&checkinContexts}, "context", "Why the plan slipped: "+contextCodes()+" (repeatable)")
	f.Var(moodFlag{&checkinMood}, "mood", "Mood")
	f.BoolVar(&checkinShield, "shield", false, "Spend this week's shield on the day")
	f.StringVar(&checkinNote, "note", "", "Free-text note")
	f.StringVar(&checkinDate, "date", "", "Day to record (YYYY-MM-DD, default today)")
}

func runCheckin(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	date, err := s.dateArg(checkinDate)
	if err != nil {
		return err
	}

	c := checkin.CheckIn{
		Date:            date,
		Trained:         checkinTrained,
		DrankWater:      checkinWater,
		SleptWell:       checkinSlept,
		Food:            checkinFood,
		Contexts:        checkinContexts,
		Note:            strings.TrimSpace(checkinNote),
		Mood:            checkinMood,
		ShieldActivated: checkinShield,
	}

	ctx := context.Background()
	cs := checkin.NewStore(s.db)
	existing, err := cs.Get(ctx, s.userID(), date)
	if err != nil {
		return err
	}
	if err := cs.Save(ctx, s.userID(), c); err != nil {
		if errors.Is(err, checkin.ErrShieldUsed) {
			return fmt.Errorf("%w; the next one is available on Monday", err)
		}
		if errors.Is(err, checkin.ErrInvalidCheckIn) {
			return fmt.Errorf("%w (use --context only with --food mais_ou_menos or nao)", err)
		}
		return err
	}

	all, err := cs.Recent(ctx, s.userID(), checkin.Lookback)
	if err != nil {
		return err
	}
	streak, err := checkin.Streak(all, s.today)
	if err != nil {
		return err
	}

	if existing != nil {
		ui.Ok(fmt.Sprintf("Check-in de %s atualizado", date))
	} else {
		ui.Ok(fmt.Sprintf("Check-in de %s registrado", date))
	}
	fmt.Printf("    %s %s %s %s\n",
		habitMark("treino", c.Trained), habitMark("água", c.DrankWater),
		habitMark("sono", c.SleptWell), habitMark("alimentação", !c.Food.Challenged()))
	if c.ShieldActivated {
		fmt.Printf("    %s\n", ui.Info.Render(ui.IconShield+"escudo da semana usado"))
	}
	fmt.Println()
	printStreakLine(streak)
	fmt.Println()
	return nil
}

func contextCodes() string {
	codes := make([]string, len(checkin.AllContexts))
	for i, c := range checkin.AllContexts {
		codes[i] = c.Code()
	}
	return strings.Join(codes, ", ")
}

func habitMark(label string, ok bool) string {
	if ok {
		return ui.Success.Render(ui.IconFilled + " " + label)
	}
	return ui.Muted.Render(ui.IconEmpty + " " + label)
}
