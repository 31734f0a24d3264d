package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/ui"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show this week's check-ins and habit counts",
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

func runWeek(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	all, err := checkin.NewStore(s.db).Recent(context.Background(), s.userID(), checkin.Lookback)
	if err != nil {
		return err
	}
	strip, err := checkin.CurrentWeek(all, s.today)
	if err != nil {
		return err
	}
	week, err := checkin.ForWeek(all, s.today)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(ui.Title.Render(ui.IconCal + " Semana"))
	fmt.Println()
	fmt.Println(indentLines(ui.WeekStrip(strip), "    "))
	fmt.Println()
	printMetrics(checkin.Aggregate(week))
	fmt.Println()
	return nil
}

// printMetrics lists habit counts. Shields are not habits, so they are
// reported on their own line.
func printMetrics(m checkin.Metrics) {
	if m.TotalCheckins == 0 {
		ui.Inf("Nenhum check-in no período.")
		return
	}
	ui.Kv("Check-ins", fmt.Sprintf("%d", m.TotalCheckins))
	ui.Kv("Treino", fmt.Sprintf("%d", m.Trained))
	ui.Kv("Água", fmt.Sprintf("%d", m.Hydrated))
	ui.Kv("Sono", fmt.Sprintf("%d", m.SleptWell))
	ui.Kv("Alimentação", fmt.Sprintf("%d no plano, %d com desafios", m.DietFull, m.DietChallenged))
	if m.ShieldsUsed > 0 {
		ui.Kv(ui.IconShield+" Escudos", fmt.Sprintf("%d", m.ShieldsUsed))
	}
	if top := m.TopContexts(2); len(top) > 0 {
		fmt.Println()
		fmt.Println(ui.Subtitle.Render("  Contextos mais frequentes"))
		for _, c := range top {
			fmt.Printf("    %s %s %s\n", ui.IconDot, c.Context, ui.Muted.Render(fmt.Sprintf("(%dx)", c.Count)))
		}
	}
}
