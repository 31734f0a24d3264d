package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/glp1"
	"github.com/upwell-app/upwell/internal/weight"
)

type stubSource struct {
	checkins []checkin.CheckIn
	err      error
}

func (s stubSource) CheckIns(context.Context, string) ([]checkin.CheckIn, error) {
	return s.checkins, s.err
}

func (s stubSource) CheckInsForMonth(_ context.Context, _ string, year int, month time.Month) ([]checkin.CheckIn, error) {
	if s.err != nil {
		return nil, s.err
	}
	return checkin.ForMonth(s.checkins, year, month)
}

func (s stubSource) WeightRecords(context.Context, string) ([]weight.Record, error) {
	return nil, s.err
}

func (s stubSource) Applications(context.Context, string) ([]glp1.Application, error) {
	return nil, s.err
}

func testSource() stubSource {
	return stubSource{checkins: []checkin.CheckIn{
		{Date: "2024-03-01", Trained: true},
		{Date: "2024-03-02", Food: checkin.AdherenceNone, Contexts: []checkin.FoodContext{checkin.ContextSocial}},
		{Date: "2024-03-03", ShieldActivated: true},
		{Date: "2024-04-10"},
	}}
}

// run executes a tea.Cmd synchronously and feeds the result back.
func run(t *testing.T, m *CalendarModel, cmd tea.Cmd) *CalendarModel {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(*CalendarModel)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCalendarModel_LoadsMonth(t *testing.T) {
	m := NewCalendarModel(testSource(), "u1", "2024-03-15", 2024, time.March)
	if !strings.Contains(m.View(), "Carregando") {
		t.Error("initial view should show loading")
	}

	m = run(t, m, m.Init())
	if m.loading || m.data == nil {
		t.Fatal("month not loaded")
	}
	if m.data.Metrics.TotalCheckins != 3 || m.data.BestStreak != 3 {
		t.Errorf("metrics = %+v, best = %d", m.data.Metrics, m.data.BestStreak)
	}
	view := m.View()
	for _, want := range []string{"Março 2024", "3/31 dias", "melhor sequência: 3", "Evento social"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestCalendarModel_Navigation(t *testing.T) {
	m := NewCalendarModel(testSource(), "u1", "2024-03-15", 2024, time.March)
	m = run(t, m, m.Init())

	next, cmd := m.Update(key("right"))
	m = run(t, next.(*CalendarModel), cmd)
	if m.year != 2024 || m.month != time.April || m.data.Metrics.TotalCheckins != 1 {
		t.Fatalf("after right: %d-%v total=%d", m.year, m.month, m.data.Metrics.TotalCheckins)
	}

	// Crossing the year boundary backwards.
	for i := 0; i < 4; i++ {
		next, cmd = m.Update(key("h"))
		m = run(t, next.(*CalendarModel), cmd)
	}
	if m.year != 2023 || m.month != time.December {
		t.Fatalf("after 4x left: %d-%v", m.year, m.month)
	}

	next, cmd = m.Update(key("t"))
	m = run(t, next.(*CalendarModel), cmd)
	if m.year != 2024 || m.month != time.March {
		t.Fatalf("after t: %d-%v", m.year, m.month)
	}
}

func TestCalendarModel_StaleResultDropped(t *testing.T) {
	m := NewCalendarModel(testSource(), "u1", "2024-03-15", 2024, time.March)
	stale := m.Init()
	m.Update(key("right"))

	next, _ := m.Update(stale())
	m = next.(*CalendarModel)
	if m.data != nil {
		t.Fatalf("stale March result applied while showing %v", m.month)
	}
}

func TestCalendarModel_StaleErrorDropped(t *testing.T) {
	m := NewCalendarModel(testSource(), "u1", "2024-03-15", 2024, time.March)
	next, cmd := m.Update(key("right"))
	m = run(t, next.(*CalendarModel), cmd)

	next, _ = m.Update(monthErrMsg{year: 2024, month: time.March, err: errors.New("database is locked")})
	m = next.(*CalendarModel)
	if m.err != nil {
		t.Fatalf("stale March error applied while showing %v: %v", m.month, m.err)
	}
	if m.data == nil || m.data.Month != time.April {
		t.Fatalf("April data lost: %+v", m.data)
	}
	if strings.Contains(m.View(), "database is locked") {
		t.Errorf("view shows a stale error:\n%s", m.View())
	}
}

func TestCalendarModel_Error(t *testing.T) {
	m := NewCalendarModel(stubSource{err: errors.New("database is locked")}, "u1", "2024-03-15", 2024, time.March)
	m = run(t, m, m.Init())
	if !strings.Contains(m.View(), "database is locked") {
		t.Errorf("view should show the error:\n%s", m.View())
	}
}

func TestCalendarModel_Quit(t *testing.T) {
	m := NewCalendarModel(testSource(), "u1", "2024-03-15", 2024, time.March)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not return tea.Quit")
	}
}

func TestCalendarModel_NarrowLayout(t *testing.T) {
	m := NewCalendarModel(testSource(), "u1", "2024-03-15", 2024, time.March)
	m = run(t, m, m.Init())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	if !strings.Contains(m.View(), "3/31 dias") {
		t.Error("narrow layout should still show the summary")
	}
}
