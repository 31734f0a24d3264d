package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/config"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/store"
	"github.com/upwell-app/upwell/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up upwell for the first time",
	Long: `Create the config file and the local database. Running it again keeps
your user id and records and lets you change your answers.`,
	RunE: runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	return runInitWithReader(bufio.NewReader(os.Stdin))
}

func runInitWithReader(reader *bufio.Reader) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println(ui.Banner.Render(ui.Title.Render(ui.IconSprout + "Bem-vindo ao upwell!")))
	fmt.Println()
	ui.Inf("Três perguntas rápidas e a jornada começa.")
	fmt.Println()

	defaultName := cfg.User.Name
	if defaultName == "" {
		defaultName = os.Getenv("USER")
	}
	cfg.User.Name = prompt(reader, "  Como posso te chamar?", defaultName)

	defaultStart := cfg.Journey.StartDate
	if defaultStart == "" {
		defaultStart = today()
	}
	start := prompt(reader, "  Em que dia a jornada começou? (AAAA-MM-DD)", defaultStart)
	if !dates.Valid(start) {
		return fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", start)
	}
	cfg.Journey.StartDate = start

	defaultGLP1 := "n"
	if cfg.Journey.GLP1 {
		defaultGLP1 = "s"
	}
	answer := strings.ToLower(prompt(reader, "  Você usa medicação GLP-1? (s/n)", defaultGLP1))
	cfg.Journey.GLP1 = answer == "s" || answer == "sim" || answer == "y" || answer == "yes"
	if cfg.Journey.GLP1 {
		cfg.Journey.Medication = prompt(reader, "  Qual medicação?", cfg.Journey.Medication)
		cfg.Journey.Dose = prompt(reader, "  Qual a dose atual?", cfg.Journey.Dose)
	}
	fmt.Println()

	if cfg.User.ID == "" {
		cfg.User.ID = uuid.New().String()
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	db.Close()

	paths := config.GetPaths()
	ui.Ok("Tudo pronto")
	ui.Kv("Config", paths.ConfigFile)
	if cfg.Store.Driver == "" || cfg.Store.Driver == string(store.DriverSQLite) {
		ui.Kv("Dados", paths.DBFile)
	}
	ui.Tip(fmt.Sprintf("%s para registrar o primeiro dia.", ui.Accent.Render("upwell checkin")))
	fmt.Println()
	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s %s ", question, ui.Muted.Render(fmt.Sprintf("(%s)", defaultVal)))
	} else {
		fmt.Printf("%s ", question)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}
