// Package report builds the monthly progress report as a Markdown document.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/journey"
	"github.com/upwell-app/upwell/internal/weight"
)

// Header carries the parts of the report that do not come from the month's
// records.
type Header struct {
	Name        string
	GeneratedOn string // YYYY-MM-DD
}

// Build renders the report for m.
func Build(h Header, m *journey.Month) (string, error) {
	var b strings.Builder
	if err := Write(&b, h, m); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write renders the report for m to w.
func Write(w io.Writer, h Header, m *journey.Month) error {
	generated, err := dates.FormatLong(h.GeneratedOn)
	if err != nil {
		return fmt.Errorf("report date: %w", err)
	}

	p := &printer{w: w}
	p.linef("# Relatório UpWell · %s", dates.MonthName(m.Year, m.Month))
	p.line("")
	if h.Name != "" {
		p.linef("**%s**, gerado em %s.", h.Name, generated)
	} else {
		p.linef("Gerado em %s.", generated)
	}
	p.line("")

	total := len(m.Days)
	met := m.Metrics
	p.line("## Resumo")
	p.line("")
	p.linef("- **Check-ins:** %d de %d dias", met.TotalCheckins, total)
	p.linef("- **Melhor sequência:** %s", days(m.BestStreak))
	p.linef("- **Escudos usados:** %d", met.ShieldsUsed)
	p.line("")

	p.line("## Hábitos")
	p.line("")
	p.line("| Hábito | Dias | % dos check-ins |")
	p.line("|---|---:|---:|")
	habit := func(name string, n int) {
		p.linef("| %s | %d | %s |", name, n, pct(n, met.TotalCheckins))
	}
	habit("Treino", met.Trained)
	habit("Hidratação", met.Hydrated)
	habit("Sono", met.SleptWell)
	habit("Alimentação no plano", met.DietFull)
	habit("Alimentação desafiadora", met.DietChallenged)
	p.line("")

	if len(met.Contexts) > 0 {
		p.line("## Contextos dos desafios")
		p.line("")
		for _, c := range met.TopContexts(len(met.Contexts)) {
			p.linef("- %s: %s", c.Context, times(c.Count))
		}
		p.line("")
	}

	if len(m.Weights) > 0 {
		if err := writeWeights(p, m.Weights); err != nil {
			return err
		}
	}

	if notes := notes(m.CheckIns); len(notes) > 0 {
		p.line("## Anotações")
		p.line("")
		for _, n := range notes {
			p.line(n)
		}
		p.line("")
	}
	return p.err
}

func writeWeights(p *printer, records []weight.Record) error {
	s := weight.Summarize(records)
	p.line("## Peso")
	p.line("")
	p.line("| Data | Peso (kg) |")
	p.line("|---|---:|")
	for _, r := range records {
		short, err := dates.FormatShort(r.Date)
		if err != nil {
			return err
		}
		p.linef("| %s | %.1f |", short, r.Kg)
	}
	p.line("")
	p.linef("Variação no mês: **%+.1f kg** (%+.1f%%).", s.ChangeKg, s.ChangePct)
	p.line("")
	return nil
}

func notes(checkins []checkin.CheckIn) []string {
	var out []string
	for _, c := range checkins {
		if strings.TrimSpace(c.Note) == "" {
			continue
		}
		short, err := dates.FormatShort(c.Date)
		if err != nil {
			short = c.Date
		}
		out = append(out, fmt.Sprintf("- **%s:** %s", short, strings.TrimSpace(c.Note)))
	}
	return out
}

func pct(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%d%%", n*100/total)
}

func days(n int) string {
	if n == 1 {
		return "1 dia"
	}
	return fmt.Sprintf("%d dias", n)
}

func times(n int) string {
	if n == 1 {
		return "1 vez"
	}
	return fmt.Sprintf("%d vezes", n)
}

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s+"\n")
}

func (p *printer) linef(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}
