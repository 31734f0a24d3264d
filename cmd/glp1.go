package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/glp1"
	"github.com/upwell-app/upwell/internal/tui"
	"github.com/upwell-app/upwell/internal/ui"
)

var (
	glp1Dose string
	glp1Date string
	glp1Note string
)

var glp1Cmd = &cobra.Command{
	Use:   "glp1",
	Short: "Track weekly GLP-1 applications",
	RunE:  runGLP1Next,
}

var glp1LogCmd = &cobra.Command{
	Use:   "log [medication]",
	Short: "Record an application",
	Long: `Record a GLP-1 application. Without a medication name, the one from
the config is used, or you pick one from a list when in a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGLP1Log,
}

var glp1NextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show when the next application is due",
	Args:  cobra.NoArgs,
	RunE:  runGLP1Next,
}

var glp1ListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List logged applications",
	Args:    cobra.NoArgs,
	RunE:    runGLP1List,
}

func init() {
	glp1Cmd.AddCommand(glp1LogCmd)
	glp1Cmd.AddCommand(glp1NextCmd)
	glp1Cmd.AddCommand(glp1ListCmd)

	glp1LogCmd.Flags().StringVar(&glp1Dose, "dose", "", "Dose applied (default from config)")
	glp1LogCmd.Flags().StringVar(&glp1Date, "date", "", "Day of the application (YYYY-MM-DD, default today)")
	glp1LogCmd.Flags().StringVar(&glp1Note, "note", "", "Observation (side effects, site)")
}

func runGLP1Log(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	date, err := s.dateArg(glp1Date)
	if err != nil {
		return err
	}

	ctx := context.Background()
	gs := glp1.NewStore(s.db)

	medication := ""
	if len(args) > 0 {
		medication = strings.TrimSpace(args[0])
	}
	if medication == "" {
		medication = s.cfg.Journey.Medication
	}
	if medication == "" {
		if !tui.IsTTY() {
			return fmt.Errorf("no medication given and none configured (set one with `upwell config set journey.medication <name>`)")
		}
		previous, err := gs.Applications(ctx, s.userID())
		if err != nil {
			return err
		}
		choice, ok, err := tui.Choose("Qual medicação?", medicationOptions(previous), true)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		medication = choice
	}

	dose := glp1Dose
	if dose == "" {
		dose = s.cfg.Journey.Dose
	}

	a, err := gs.Add(ctx, s.userID(), glp1.Application{
		Date:        date,
		Medication:  medication,
		Dose:        dose,
		Observation: strings.TrimSpace(glp1Note),
	})
	if err != nil {
		return err
	}

	label := a.Medication
	if a.Dose != "" {
		label += " " + a.Dose
	}
	ui.Ok(fmt.Sprintf("Aplicação de %s registrada em %s", label, a.Date))

	next, err := dates.AddDays(a.Date, glp1.Interval)
	if err != nil {
		return err
	}
	if short, err := dates.FormatShort(next); err == nil {
		ui.Kv("   Próxima", short)
	}
	return nil
}

// medicationOptions lists names already used first, then the known
// medications not yet used.
func medicationOptions(previous []glp1.Application) []tui.Option {
	seen := map[string]bool{}
	var used []string
	for _, a := range previous {
		key := strings.ToLower(a.Medication)
		if !seen[key] {
			seen[key] = true
			used = append(used, a.Medication)
		}
	}
	sort.Strings(used)

	opts := make([]tui.Option, 0, len(used)+len(glp1.KnownMedications))
	for _, name := range used {
		opts = append(opts, tui.Option{Label: name, Hint: "já usada"})
	}
	for _, m := range glp1.KnownMedications {
		if seen[strings.ToLower(m.Name)] {
			continue
		}
		opts = append(opts, tui.Option{Label: m.Name, Hint: m.Substance})
	}
	return opts
}

func runGLP1Next(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	apps, err := glp1.NewStore(s.db).Applications(context.Background(), s.userID())
	if err != nil {
		return err
	}
	sch, ok, err := glp1.Status(apps, s.today)
	if err != nil {
		return err
	}
	if !ok {
		ui.Inf("Nenhuma aplicação registrada ainda.")
		ui.Tip(fmt.Sprintf("%s depois da primeira aplicação.", ui.Accent.Render("upwell glp1 log")))
		return nil
	}

	fmt.Println()
	printMedicationLine(sch)
	last, err := dates.FormatShort(sch.Last.Date)
	if err != nil {
		last = sch.Last.Date
	}
	ui.Kv("   Última", last)
	fmt.Println()
	return nil
}

func runGLP1List(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	apps, err := glp1.NewStore(s.db).Applications(context.Background(), s.userID())
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		ui.Inf("Nenhuma aplicação registrada ainda.")
		return nil
	}

	fmt.Println()
	fmt.Println(ui.Title.Render(ui.IconSyringe + " Aplicações"))
	fmt.Println()
	for _, a := range apps {
		line := fmt.Sprintf("  %s  %s", ui.Muted.Render(a.Date), a.Medication)
		if a.Dose != "" {
			line += " " + a.Dose
		}
		if a.Observation != "" {
			line += "  " + ui.Muted.Render(a.Observation)
		}
		fmt.Println(line)
	}
	fmt.Println()
	return nil
}
