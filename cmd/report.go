package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/journey"
	"github.com/upwell-app/upwell/internal/report"
	"github.com/upwell-app/upwell/internal/ui"
)

var (
	reportOut string
	reportRaw bool
)

var reportCmd = &cobra.Command{
	Use:   "report [YYYY-MM]",
	Short: "Build the monthly progress report",
	Long: `Build a Markdown report of a month (default: the current one) with
habit counts, challenge contexts, weight and notes.

In a terminal the report is rendered; use --raw for plain Markdown or
--out to save it to a file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write the Markdown report to this file")
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print plain Markdown even in a terminal")
}

func runReport(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	year, month, err := monthArg(args, s.today)
	if err != nil {
		return err
	}
	m, err := journey.LoadMonth(context.Background(), s.source(), s.userID(), year, month)
	if err != nil {
		return err
	}
	h := report.Header{Name: s.cfg.User.Name, GeneratedOn: s.today}

	if reportOut != "" {
		return writeReportFile(reportOut, h, m)
	}

	mw := ui.NewMarkdownWriter(os.Stdout, reportRaw)
	if err := report.Write(mw, h, m); err != nil {
		return err
	}
	return mw.Flush()
}

func writeReportFile(path string, h report.Header, m *journey.Month) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	var w io.Writer = f
	if err := report.Write(w, h, m); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s Relatório salvo em %s", ui.IconReport, path))
	return nil
}
