package glp1

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/store"
)

func TestNextApplicationDate_Single(t *testing.T) {
	next, ok, err := NextApplicationDate([]Application{{Date: "2024-05-20", Medication: "Mounjaro"}})
	if err != nil || !ok {
		t.Fatalf("NextApplicationDate: ok=%v err=%v", ok, err)
	}
	if next != "2024-05-27" {
		t.Fatalf("next = %q, want 2024-05-27", next)
	}
}

func TestNextApplicationDate_UsesLatest(t *testing.T) {
	apps := []Application{
		{Date: "2024-05-06", Medication: "Ozempic"},
		{Date: "2024-05-27", Medication: "Ozempic"},
		{Date: "2024-05-13", Medication: "Ozempic"},
	}
	next, _, err := NextApplicationDate(apps)
	if err != nil {
		t.Fatal(err)
	}
	if next != "2024-06-03" {
		t.Fatalf("next = %q, want 2024-06-03", next)
	}
}

func TestNextApplicationDate_Empty(t *testing.T) {
	next, ok, err := NextApplicationDate(nil)
	if err != nil || ok || next != "" {
		t.Fatalf("NextApplicationDate(nil) = %q, %v, %v", next, ok, err)
	}
}

func TestNextApplicationDate_InvalidDate(t *testing.T) {
	_, _, err := NextApplicationDate([]Application{{Date: "20/05/2024"}})
	if !errors.Is(err, dates.ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		target, today string
		want          int
	}{
		{"2024-05-27", "2024-05-24", 3},
		{"2024-05-27", "2024-05-27", 0},
		{"2024-05-27", "2024-05-29", -2},
		{"2024-03-01", "2024-02-28", 2}, // leap day in between
	}
	for _, tt := range tests {
		got, err := DaysUntil(tt.target, tt.today)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("DaysUntil(%s, today=%s) = %d, want %d", tt.target, tt.today, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	apps := []Application{{Date: "2024-05-20", Medication: "Mounjaro", Dose: "5mg"}}

	s, ok, err := Status(apps, "2024-05-24")
	if err != nil || !ok {
		t.Fatalf("Status: ok=%v err=%v", ok, err)
	}
	if s.Next != "2024-05-27" || s.DaysUntil != 3 || s.DueToday() || s.Overdue() {
		t.Fatalf("Status = %+v", s)
	}
	if s.Last.Dose != "5mg" {
		t.Fatalf("Last = %+v", s.Last)
	}

	s, _, _ = Status(apps, "2024-05-27")
	if !s.DueToday() {
		t.Fatalf("expected due today: %+v", s)
	}
	s, _, _ = Status(apps, "2024-05-30")
	if !s.Overdue() {
		t.Fatalf("expected overdue: %+v", s)
	}

	if _, ok, err := Status(nil, "2024-05-24"); ok || err != nil {
		t.Fatalf("Status(nil) ok=%v err=%v", ok, err)
	}
}

func TestValidate(t *testing.T) {
	if err := (Application{Date: "2024-05-20"}).Validate(); !errors.Is(err, ErrInvalidApplication) {
		t.Errorf("missing medication: err = %v", err)
	}
	if err := (Application{Date: "2024-5-20", Medication: "X"}).Validate(); !errors.Is(err, dates.ErrInvalidDate) {
		t.Errorf("bad date: err = %v", err)
	}
}

func TestStore_AddAndList(t *testing.T) {
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "upwell.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	s := NewStore(db)
	ctx := context.Background()

	first, err := s.Add(ctx, "u1", Application{Date: "2024-05-13", Medication: "Ozempic", Dose: "0.5mg"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := uuid.Parse(first.ID); err != nil {
		t.Fatalf("ID %q is not a UUID: %v", first.ID, err)
	}
	// Two medications on the same day are allowed.
	if _, err := s.Add(ctx, "u1", Application{Date: "2024-05-20", Medication: "Ozempic", Dose: "0.5mg"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(ctx, "u1", Application{Date: "2024-05-20", Medication: "Vitamina B12"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(ctx, "u2", Application{Date: "2024-05-21", Medication: "Ozempic"}); err != nil {
		t.Fatal(err)
	}

	apps, err := s.Applications(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 3 {
		t.Fatalf("Applications = %d, want 3", len(apps))
	}
	if apps[0].Date != "2024-05-20" {
		t.Fatalf("first = %+v, want most recent", apps[0])
	}

	next, _, err := NextApplicationDate(apps)
	if err != nil {
		t.Fatal(err)
	}
	if next != "2024-05-27" {
		t.Fatalf("next = %q", next)
	}

	// Re-adding with an existing ID is a no-op.
	if _, err := s.Add(ctx, "u1", first); err != nil {
		t.Fatal(err)
	}
	apps, _ = s.Applications(ctx, "u1")
	if len(apps) != 3 {
		t.Fatalf("after re-add Applications = %d, want 3", len(apps))
	}
}

func TestStore_RestoreKeyedPerUser(t *testing.T) {
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "upwell.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	s := NewStore(db)
	ctx := context.Background()

	a := Application{ID: "3f1c0d1e-0000-4000-8000-000000000001", Date: "2024-05-13", Medication: "Ozempic"}
	for _, tt := range []struct {
		user string
		want bool
	}{
		{"u1", true},
		{"u1", false},
		{"u2", true},
		{"u2", false},
	} {
		_, inserted, err := s.Restore(ctx, tt.user, a)
		if err != nil {
			t.Fatalf("Restore(%s): %v", tt.user, err)
		}
		if inserted != tt.want {
			t.Errorf("Restore(%s) inserted = %v, want %v", tt.user, inserted, tt.want)
		}
	}
	for _, user := range []string{"u1", "u2"} {
		apps, _ := s.Applications(ctx, user)
		if len(apps) != 1 || apps[0].ID != a.ID {
			t.Errorf("%s applications = %+v, want the one restored", user, apps)
		}
	}
}

func TestStore_RejectsInvalid(t *testing.T) {
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "upwell.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := NewStore(db).Add(context.Background(), "u1", Application{Date: "2024-05-20"}); !errors.Is(err, ErrInvalidApplication) {
		t.Fatalf("err = %v, want ErrInvalidApplication", err)
	}
}
