package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/ui"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current streak and this month's best",
	Args:  cobra.NoArgs,
	RunE:  runStreak,
}

func runStreak(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	cs := checkin.NewStore(s.db)
	recent, err := cs.Recent(ctx, s.userID(), checkin.Lookback)
	if err != nil {
		return err
	}
	current, err := checkin.Streak(recent, s.today)
	if err != nil {
		return err
	}

	t, err := dates.Parse(s.today)
	if err != nil {
		return err
	}
	month, err := cs.CheckInsForMonth(ctx, s.userID(), t.Year(), t.Month())
	if err != nil {
		return err
	}
	best, err := checkin.BestStreakInMonth(month, t.Year(), t.Month())
	if err != nil {
		return err
	}

	fmt.Println()
	printStreakLine(current)
	ui.Kv("   Melhor", fmt.Sprintf("%s em %s", ui.Plural(best, "dia", "dias"), dates.MonthName(t.Year(), t.Month())))
	if current > 0 && current >= best {
		fmt.Println()
		ui.Ok("Você está na sua melhor sequência do mês!")
	}
	fmt.Println()
	return nil
}
