package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/ui"
	"github.com/upwell-app/upwell/internal/weight"
)

var (
	weightDate    string
	weightContext string
	weightNotes   string
	weightLimit   int
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Log and review body weight",
	RunE:  runWeightList,
}

var weightAddCmd = &cobra.Command{
	Use:   "add <kg>",
	Short: "Record a weight measurement",
	Long: `Record the weight of a day in kilograms. A second measurement on the
same day replaces the first. Both 82.5 and 82,5 are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWeightAdd,
}

var weightListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List measurements with a progress summary",
	Args:    cobra.NoArgs,
	RunE:    runWeightList,
}

func init() {
	weightCmd.AddCommand(weightAddCmd)
	weightCmd.AddCommand(weightListCmd)

	weightAddCmd.Flags().StringVar(&weightDate, "date", "", "Day of the measurement (YYYY-MM-DD, default today)")
	weightAddCmd.Flags().StringVar(&weightContext, "context", "", "Where or how it was measured (e.g. jejum)")
	weightAddCmd.Flags().StringVar(&weightNotes, "notes", "", "Free-text notes")
	weightListCmd.Flags().IntVarP(&weightLimit, "limit", "n", 10, "Show at most this many recent measurements (0 for all)")
}

func parseKg(s string) (float64, error) {
	kg, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid weight %q (expected a number like 82.5)", s)
	}
	return kg, nil
}

func runWeightAdd(_ *cobra.Command, args []string) error {
	kg, err := parseKg(args[0])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	date, err := s.dateArg(weightDate)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ws := weight.NewStore(s.db)
	r := weight.Record{Date: date, Kg: kg, Context: weightContext, Notes: weightNotes}
	if err := ws.Save(ctx, s.userID(), r); err != nil {
		return err
	}

	records, err := ws.Records(ctx, s.userID())
	if err != nil {
		return err
	}
	sum := weight.Summarize(records)

	ui.Ok(fmt.Sprintf("Peso de %s registrado: %.1f kg", date, kg))
	if sum.Count > 1 {
		ui.Kv("   Desde o início", fmt.Sprintf("%+.1f kg (%+.1f%%)", sum.ChangeKg, sum.ChangePct))
	}
	return nil
}

func runWeightList(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := weight.NewStore(s.db).Records(context.Background(), s.userID())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		ui.Inf("Nenhum peso registrado ainda.")
		ui.Tip(fmt.Sprintf("%s para registrar o primeiro.", ui.Accent.Render("upwell weight add <kg>")))
		return nil
	}

	fmt.Println()
	fmt.Println(ui.Title.Render(ui.IconScale + "Peso"))
	fmt.Println()

	shown := records
	if weightLimit > 0 && len(shown) > weightLimit {
		shown = shown[len(shown)-weightLimit:]
	}
	for _, r := range shown {
		line := fmt.Sprintf("  %s  %6.1f kg", ui.Muted.Render(r.Date), r.Kg)
		if r.Context != "" {
			line += "  " + ui.Muted.Render(r.Context)
		}
		fmt.Println(line)
	}

	sum := weight.Summarize(records)
	fmt.Println()
	ui.Kv("Início", fmt.Sprintf("%.1f kg (%s)", sum.First.Kg, sum.First.Date))
	ui.Kv("Atual", fmt.Sprintf("%.1f kg (%s)", sum.Latest.Kg, sum.Latest.Date))
	ui.Kv("Menor", fmt.Sprintf("%.1f kg (%s)", sum.Lowest.Kg, sum.Lowest.Date))
	ui.Kv("Variação", fmt.Sprintf("%+.1f kg (%+.1f%%)", sum.ChangeKg, sum.ChangePct))
	fmt.Println()
	return nil
}
