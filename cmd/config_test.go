package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/upwell-app/upwell/internal/config"
	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/store"
)

const (
	testUserID = "5b0c8a52-1f4e-4d7a-9c2b-6e1f0a3d4c5b"
	testToday  = "2024-05-22" // a Wednesday
)

// configTestEnv points every XDG directory at a temp dir.
func configTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")
	t.Setenv("UPWELL_STORE_DSN", "")
	t.Setenv(passphraseEnv, "")
}

// fixNow pins today() to date for the rest of the test.
func fixNow(t *testing.T, date string) {
	t.Helper()
	day, err := dates.Parse(date)
	if err != nil {
		t.Fatalf("fixNow: %v", err)
	}
	old := now
	now = func() time.Time { return day.Add(15 * time.Hour) }
	t.Cleanup(func() { now = old })
}

// setupUser writes an initialized config and pins today to testToday.
func setupUser(t *testing.T) *config.Config {
	t.Helper()
	configTestEnv(t)
	fixNow(t, testToday)

	cfg := &config.Config{
		User:    config.UserConfig{Name: "Ana", ID: testUserID},
		Journey: config.JourneyConfig{StartDate: "2024-05-01", ProgramDays: 90},
	}
	if err := config.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return cfg
}

// openTestStore opens the store the commands use, for seeding and checks.
func openTestStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open()
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = old
		r.Close()
	}()

	fn()

	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("io.Copy: %v", err)
	}
	return buf.String()
}

func TestRunConfigGet_KnownKey(t *testing.T) {
	configTestEnv(t)

	cfg := &config.Config{Journey: config.JourneyConfig{Medication: "Mounjaro"}}
	if err := config.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := captureStdout(t, func() {
		if err := runConfigGet(nil, []string{"journey.medication"}); err != nil {
			t.Errorf("runConfigGet: %v", err)
		}
	})
	if !strings.Contains(out, "Mounjaro") {
		t.Fatalf("expected 'Mounjaro' in output, got: %q", out)
	}
}

func TestRunConfigGet_UnknownKey(t *testing.T) {
	configTestEnv(t)

	err := runConfigGet(nil, []string{"not.a.real.key"})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("expected 'unknown config key' in error, got: %v", err)
	}
}

func TestRunConfigSetUnset(t *testing.T) {
	configTestEnv(t)

	captureStdout(t, func() {
		if err := runConfigSet(nil, []string{"journey.program_days", "120"}); err != nil {
			t.Fatalf("runConfigSet: %v", err)
		}
	})
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Journey.Days() != 120 {
		t.Errorf("program days = %d, want 120", cfg.Journey.Days())
	}

	captureStdout(t, func() {
		if err := runConfigUnset(nil, []string{"journey.program_days"}); err != nil {
			t.Fatalf("runConfigUnset: %v", err)
		}
	})
	cfg, err = config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Journey.Days() != config.DefaultProgramDays {
		t.Errorf("program days after unset = %d, want %d", cfg.Journey.Days(), config.DefaultProgramDays)
	}
}

func TestRunConfigSet_InvalidValue(t *testing.T) {
	configTestEnv(t)

	if err := runConfigSet(nil, []string{"journey.start_date", "20/05/2024"}); err == nil {
		t.Fatal("expected error for a malformed start date")
	}
	if config.Initialized() {
		t.Error("a rejected value should not create the config file")
	}
}

func TestRunConfigList(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runConfigList(nil, nil); err != nil {
			t.Fatalf("runConfigList: %v", err)
		}
	})
	for _, key := range config.ValidKeyNames() {
		if !strings.Contains(out, key) {
			t.Errorf("list output missing %q", key)
		}
	}
}

func TestRunConfigShow(t *testing.T) {
	setupUser(t)

	out := captureStdout(t, func() {
		if err := runConfigShow(nil, nil); err != nil {
			t.Fatalf("runConfigShow: %v", err)
		}
	})
	for _, want := range []string{"Ana", "2024-05-01", "90 dias", "sqlite", config.GetPaths().ConfigFile} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}
