package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/backup"
	"github.com/upwell-app/upwell/internal/config"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/glp1"
	"github.com/upwell-app/upwell/internal/journey"
	"github.com/upwell-app/upwell/internal/tips"
	"github.com/upwell-app/upwell/internal/ui"
)

// backupReminderDays is how long after the last export the dashboard starts
// suggesting a new backup.
const backupReminderDays = 30

var noColor bool

// now is the wall clock. Tests replace it.
var now = time.Now

func today() string {
	return dates.Today(now())
}

var rootCmd = &cobra.Command{
	Use:   "upwell",
	Short: "Your 90-day journey companion",
	Long: `upwell tracks the daily check-ins, weight and GLP-1 applications of a
90-day weight-management journey. Everything stays on your machine unless
you point it at a Postgres database.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColor()
		}
	},
	RunE: runDashboard,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(weightCmd)
	rootCmd.AddCommand(glp1Cmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// runDashboard shows the day at a glance when you just type `upwell`.
func runDashboard(_ *cobra.Command, _ []string) error {
	if !config.Initialized() {
		fmt.Println(ui.Greet(""))
		fmt.Println()
		fmt.Println("  Parece que é sua primeira vez por aqui.")
		fmt.Println()
		fmt.Printf("  Rode %s para começar a jornada.\n", ui.Accent.Render("upwell init"))
		fmt.Println()
		return nil
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	t, err := journey.LoadToday(ctx, s.source(), s.options(), s.today)
	if err != nil {
		return err
	}

	fmt.Println(ui.Greet(s.cfg.User.Name))
	fmt.Println()

	long, err := dates.FormatLong(t.Date)
	if err != nil {
		return err
	}
	ui.Kv(ui.IconCal+" Hoje", long)
	if t.ProgramDay > 0 {
		ui.Kv("   Jornada", fmt.Sprintf("dia %d de %d  %s", t.ProgramDay, t.ProgramDays, ui.ProgressBar(t.ProgramDay, t.ProgramDays, 20)))
	}
	printStreakLine(t.Streak)
	if t.CheckedIn {
		ui.Kv("   Check-in", ui.Success.Render(ui.IconOk+"feito"))
	} else {
		ui.Kv("   Check-in", ui.Warning.Render("pendente"))
	}

	fmt.Println()
	fmt.Println(indentLines(ui.WeekStrip(t.Week), "    "))
	fmt.Println()

	if t.Medication != nil {
		printMedicationLine(*t.Medication)
	}
	if t.Weight.Count > 0 {
		ui.Kv(ui.IconScale+"Peso", fmt.Sprintf("%.1f kg (%+.1f kg desde o início)", t.Weight.Latest.Kg, t.Weight.ChangeKg))
	}

	switch {
	case !t.CheckedIn:
		ui.Tip(fmt.Sprintf("%s para registrar o dia de hoje.", ui.Accent.Render("upwell checkin")))
	case t.Medication != nil && (t.Medication.DueToday() || t.Medication.Overdue()):
		ui.Tip(fmt.Sprintf("%s depois da aplicação.", ui.Accent.Render("upwell glp1 log")))
	case backupDue(ctx, s):
		ui.Tip(fmt.Sprintf("%s para guardar uma cópia cifrada dos seus registros.", ui.Accent.Render("upwell backup export <arquivo>")))
	default:
		day, err := dates.Parse(s.today)
		if err != nil {
			return err
		}
		ui.Tip(tips.Daily(day))
	}
	fmt.Println()
	return nil
}

func printStreakLine(streak int) {
	if streak > 0 {
		ui.Kv(ui.IconFire+" Sequência", ui.Accent.Render(ui.Plural(streak, "dia", "dias")))
		return
	}
	ui.Kv(ui.IconFire+" Sequência", ui.Muted.Render("comece hoje"))
}

func printMedicationLine(sch glp1.Schedule) {
	var status string
	switch {
	case sch.DueToday():
		status = ui.Accent.Render("aplicação hoje")
	case sch.Overdue():
		status = ui.Error.Render(fmt.Sprintf("atrasada há %s", ui.Plural(-sch.DaysUntil, "dia", "dias")))
	default:
		next, err := dates.FormatShort(sch.Next)
		if err != nil {
			next = sch.Next
		}
		status = fmt.Sprintf("próxima em %s (%s)", ui.Plural(sch.DaysUntil, "dia", "dias"), next)
	}
	ui.Kv(ui.IconSyringe+" "+sch.Last.Medication, status)
}

// backupDue reports whether the last export is missing or old. Read errors
// are logged and treated as not due so the dashboard still renders.
func backupDue(ctx context.Context, s *session) bool {
	last, ok, err := backup.LastExport(ctx, s.db)
	if err != nil {
		log.Printf("warning: reading last backup date: %v", err)
		return false
	}
	if !ok {
		return true
	}
	days, err := dates.DaysBetween(last, s.today)
	if err != nil {
		log.Printf("warning: bad last backup date %q: %v", last, err)
		return true
	}
	return days >= backupReminderDays
}
