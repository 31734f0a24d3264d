package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/importer"
	"github.com/upwell-app/upwell/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Load check-ins, weights and applications from a YAML file",
	Long: `Load records in bulk from a YAML file with any of the top-level lists
checkins, weights and applications:

  checkins:
    - date: 2024-05-20
      trained: true
      water: true
      slept: true
      food: mais_ou_menos
      contexts: [ansiedade]
      mood: cansado
  weights:
    - date: 2024-05-20
      kg: 82.4
  applications:
    - date: 2024-05-20
      medication: Ozempic
      dose: 0.5mg

Records on dates that already exist are replaced. The file is imported
as a whole: one invalid record and nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := importer.ImportFile(context.Background(), s.db, s.userID(), args[0])
	if err != nil {
		return fmt.Errorf("importing %s (nothing was written): %w", args[0], err)
	}
	printCounts("Importado", n)
	return nil
}

func printCounts(verb string, n importer.Counts) {
	ui.Ok(fmt.Sprintf("%s: %s, %s, %s", verb,
		ui.Plural(n.CheckIns, "check-in", "check-ins"),
		ui.Plural(n.Weights, "peso", "pesos"),
		ui.Plural(n.Applications, "aplicação", "aplicações")))
}
