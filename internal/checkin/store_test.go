package checkin

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/upwell-app/upwell/internal/store"
)

const testUser = "7d4c2f5e-3a1b-4c8d-9e0f-112233445566"

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "upwell.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestStore_SaveAndGet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	c := CheckIn{
		Date:       "2024-05-21",
		Trained:    true,
		DrankWater: true,
		Food:       AdherenceNone,
		Contexts:   []FoodContext{ContextAnxiety, ContextOffHours},
		Note:       "festa de aniversário",
		Mood:       MoodTired,
	}
	if err := s.Save(ctx, testUser, c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, testUser, "2024-05-21")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if !reflect.DeepEqual(*got, c) {
		t.Fatalf("Get = %+v, want %+v", *got, c)
	}

	missing, err := s.Get(ctx, testUser, "2024-05-22")
	if err != nil || missing != nil {
		t.Fatalf("Get missing = %v, %v", missing, err)
	}
}

func TestStore_SaveOverwritesSameDay(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testUser, CheckIn{Date: "2024-05-21", Mood: MoodTired}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, testUser, CheckIn{Date: "2024-05-21", Mood: MoodGood, Trained: true}); err != nil {
		t.Fatal(err)
	}

	all, err := s.CheckIns(ctx, testUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 check-in, got %d", len(all))
	}
	if all[0].Mood != MoodGood || !all[0].Trained {
		t.Fatalf("check-in not overwritten: %+v", all[0])
	}
}

func TestStore_RejectsInvalid(t *testing.T) {
	s := setupStore(t)
	err := s.Save(context.Background(), testUser, CheckIn{
		Date:     "2024-05-21",
		Food:     AdherenceFull,
		Contexts: []FoodContext{ContextSocial},
	})
	if !errors.Is(err, ErrInvalidCheckIn) {
		t.Fatalf("err = %v, want ErrInvalidCheckIn", err)
	}
}

func TestStore_OneShieldPerWeek(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testUser, CheckIn{Date: "2024-05-21", ShieldActivated: true}); err != nil {
		t.Fatalf("first shield: %v", err)
	}
	// Same week (Sunday 26th belongs to the week of Monday 20th).
	err := s.Save(ctx, testUser, CheckIn{Date: "2024-05-26", ShieldActivated: true})
	if !errors.Is(err, ErrShieldUsed) {
		t.Fatalf("second shield err = %v, want ErrShieldUsed", err)
	}
	// Re-saving the day that holds the shield is fine.
	if err := s.Save(ctx, testUser, CheckIn{Date: "2024-05-21", ShieldActivated: true, Trained: true}); err != nil {
		t.Fatalf("re-save shielded day: %v", err)
	}
	// Next week has a fresh shield.
	if err := s.Save(ctx, testUser, CheckIn{Date: "2024-05-27", ShieldActivated: true}); err != nil {
		t.Fatalf("next week shield: %v", err)
	}
	// Another user is unaffected.
	if err := s.Save(ctx, "other-user", CheckIn{Date: "2024-05-22", ShieldActivated: true}); err != nil {
		t.Fatalf("other user shield: %v", err)
	}
}

func TestStore_OneShieldPerWeekConcurrent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	days := []string{"2024-05-20", "2024-05-21", "2024-05-22", "2024-05-23", "2024-05-24"}
	errs := make([]error, len(days))
	var wg sync.WaitGroup
	for i, day := range days {
		wg.Add(1)
		go func(i int, day string) {
			defer wg.Done()
			errs[i] = s.Save(ctx, testUser, CheckIn{Date: day, ShieldActivated: true})
		}(i, day)
	}
	wg.Wait()

	saved := 0
	for i, err := range errs {
		switch {
		case err == nil:
			saved++
		case !errors.Is(err, ErrShieldUsed):
			t.Errorf("Save(%s) = %v, want nil or ErrShieldUsed", days[i], err)
		}
	}
	if saved != 1 {
		t.Fatalf("shields spent = %d, want 1", saved)
	}
	all, err := s.CheckIns(ctx, testUser)
	if err != nil {
		t.Fatal(err)
	}
	shields := 0
	for _, c := range all {
		if c.ShieldActivated {
			shields++
		}
	}
	if shields != 1 {
		t.Fatalf("stored shields = %d, want 1", shields)
	}
}

func TestStore_ListQueries(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for _, c := range run("2024-03-03", 10) { // Feb 23 - Mar 3
		if err := s.Save(ctx, testUser, c); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Save(ctx, "other-user", CheckIn{Date: "2024-03-01"}); err != nil {
		t.Fatal(err)
	}

	all, err := s.CheckIns(ctx, testUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 10 || all[0].Date != "2024-03-03" {
		t.Fatalf("CheckIns = %d records, first %q", len(all), all[0].Date)
	}

	feb, err := s.CheckInsForMonth(ctx, testUser, 2024, time.February)
	if err != nil {
		t.Fatal(err)
	}
	if len(feb) != 7 || feb[0].Date != "2024-02-23" || feb[6].Date != "2024-02-29" {
		t.Fatalf("CheckInsForMonth(Feb) = %d records", len(feb))
	}

	recent, err := s.Recent(ctx, testUser, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 || recent[2].Date != "2024-03-01" {
		t.Fatalf("Recent(3) = %+v", recent)
	}

	streak, err := Streak(all, "2024-03-03")
	if err != nil {
		t.Fatal(err)
	}
	if streak != 10 {
		t.Fatalf("Streak from store = %d, want 10", streak)
	}
}

func TestContextsEncoding(t *testing.T) {
	in := []FoodContext{ContextSocial, ContextNoOption}
	out, err := decodeContexts(encodeContexts(in))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("decode(encode) = %v, want %v", out, in)
	}
	if got, _ := decodeContexts(""); got != nil {
		t.Fatalf("decode(\"\") = %v, want nil", got)
	}
	if _, err := decodeContexts("evento_social,tédio"); err == nil {
		t.Fatal("expected error for unknown stored code")
	}
}
