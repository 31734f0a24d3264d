package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/journey"
	"github.com/upwell-app/upwell/internal/ui"
)

type monthMsg struct{ month *journey.Month }
type monthErrMsg struct {
	year  int
	month time.Month
	err   error
}

// CalendarModel is the Bubbletea model for browsing months of check-ins.
type CalendarModel struct {
	src    journey.Source
	userID string
	today  string

	year  int
	month time.Month
	data  *journey.Month

	width   int
	loading bool
	err     error
}

// NewCalendarModel opens the browser on year/month. today is highlighted
// when it falls in the displayed month.
func NewCalendarModel(src journey.Source, userID, today string, year int, month time.Month) *CalendarModel {
	return &CalendarModel{
		src:     src,
		userID:  userID,
		today:   today,
		year:    year,
		month:   month,
		width:   80,
		loading: true,
	}
}

// RunCalendar runs the calendar browser until the user quits.
func RunCalendar(src journey.Source, userID, today string, year int, month time.Month) error {
	prog := tea.NewProgram(NewCalendarModel(src, userID, today, year, month), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	return nil
}

func (m *CalendarModel) Init() tea.Cmd {
	return m.load()
}

func (m *CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case monthMsg:
		// Drop results for a month the user already navigated away from.
		if msg.month.Year != m.year || msg.month.Month != m.month {
			return m, nil
		}
		m.data = msg.month
		m.loading = false
		m.err = nil
		return m, nil

	case monthErrMsg:
		if msg.year != m.year || msg.month != m.month {
			return m, nil
		}
		m.err = msg.err
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *CalendarModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		return m, m.shift(-1)
	case "right", "l":
		return m, m.shift(1)
	case "t":
		t, err := dates.Parse(m.today)
		if err != nil {
			return m, nil
		}
		m.year, m.month = t.Year(), t.Month()
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m *CalendarModel) shift(n int) tea.Cmd {
	t := time.Date(m.year, m.month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	m.year, m.month = t.Year(), t.Month()
	m.loading = true
	return m.load()
}

func (m *CalendarModel) View() string {
	header := "\n  " + ui.Title.Render(ui.IconCal+" "+dates.MonthName(m.year, m.month)) + "\n\n"
	switch {
	case m.err != nil:
		return header + "  " + ui.Error.Render("Erro: "+m.err.Error()) + "\n\n" + renderCalendarHelp() + "\n"
	case m.loading || m.data == nil:
		return header + "  " + ui.Muted.Render("Carregando…") + "\n"
	}

	grid := indent(ui.CalendarGrid(m.data.Rows, m.today), "  ")
	summary := renderMonthSummary(m.data)
	var body string
	if m.width >= 70 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, "    ", summary)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, grid, summary)
	}
	return header + body + "\n\n" + renderCalendarHelp() + "\n"
}

// renderMonthSummary renders the metrics panel next to the grid.
func renderMonthSummary(m *journey.Month) string {
	var b strings.Builder
	met := m.Metrics
	b.WriteString(fmt.Sprintf("%s %d/%d dias\n", ui.IconFilled, met.TotalCheckins, len(m.Days)))
	b.WriteString(fmt.Sprintf("%s melhor sequência: %d\n", ui.IconFire, m.BestStreak))
	b.WriteString(fmt.Sprintf("treino %d · água %d · sono %d\n", met.Trained, met.Hydrated, met.SleptWell))
	b.WriteString(fmt.Sprintf("alimentação no plano %d · desafios %d\n", met.DietFull, met.DietChallenged))
	if met.ShieldsUsed > 0 {
		b.WriteString(fmt.Sprintf("%sescudos: %d\n", ui.IconShield, met.ShieldsUsed))
	}
	for _, c := range m.TopContexts {
		b.WriteString(ui.Muted.Render(fmt.Sprintf("%s %s (%d)", ui.IconDot, c.Context, c.Count)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCalendarHelp() string {
	return ui.Muted.Render("  ←/h anterior · →/l próximo · t hoje · q sair")
}

func (m *CalendarModel) load() tea.Cmd {
	src, userID, year, month := m.src, m.userID, m.year, m.month
	return func() tea.Msg {
		data, err := journey.LoadMonth(context.Background(), src, userID, year, month)
		if err != nil {
			return monthErrMsg{year: year, month: month, err: err}
		}
		return monthMsg{data}
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
