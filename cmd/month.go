package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/journey"
	"github.com/upwell-app/upwell/internal/tui"
	"github.com/upwell-app/upwell/internal/ui"
)

var monthInteractive bool

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Show the calendar of a month",
	Long: `Show the calendar of a month (default: the current one). Filled cells
are complete days; shielded days are marked apart.

With --interactive, browse months with the arrow keys.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMonth,
}

func init() {
	monthCmd.Flags().BoolVarP(&monthInteractive, "interactive", "i", false, "Browse months interactively")
}

func runMonth(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	year, month, err := monthArg(args, s.today)
	if err != nil {
		return err
	}

	if monthInteractive {
		if !tui.IsTTY() {
			return fmt.Errorf("--interactive needs a terminal")
		}
		return tui.RunCalendar(s.source(), s.userID(), s.today, year, month)
	}

	m, err := journey.LoadMonth(context.Background(), s.source(), s.userID(), year, month)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(ui.Title.Render(ui.IconCal + " " + dates.MonthName(year, month)))
	fmt.Println()
	fmt.Println(indentLines(ui.CalendarGrid(m.Rows, s.today), "    "))
	fmt.Println()

	completed := 0
	for _, d := range m.Days {
		if d.Completed {
			completed++
		}
	}
	ui.Kv("Dias completos", fmt.Sprintf("%d de %d", completed, len(m.Days)))
	ui.Kv(ui.IconFire+" Melhor", ui.Plural(m.BestStreak, "dia", "dias"))
	fmt.Println()
	printMetrics(m.Metrics)
	fmt.Println()
	return nil
}
