package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/upwell-app/upwell/internal/config"
	"github.com/upwell-app/upwell/internal/journey"
	"github.com/upwell-app/upwell/internal/store"
)

var errNotInitialized = errors.New("upwell is not set up yet (run `upwell init`)")

// session is what most commands need: the config, an open store and the
// reference date for this invocation.
type session struct {
	cfg   *config.Config
	db    *store.DB
	today string
}

func openSession() (*session, error) {
	if !config.Initialized() {
		return nil, errNotInitialized
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.User.ID == "" {
		return nil, fmt.Errorf("config has no user.id (run `upwell init` again)")
	}
	db, err := store.Open()
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, db: db, today: today()}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

func (s *session) userID() string {
	return s.cfg.User.ID
}

func (s *session) source() journey.Source {
	return journey.NewStoreSource(s.db)
}

func (s *session) options() journey.Options {
	return journey.Options{
		UserID:      s.cfg.User.ID,
		StartDate:   s.cfg.Journey.StartDate,
		ProgramDays: s.cfg.Journey.Days(),
	}
}

// dateArg resolves a --date flag value, defaulting to today and refusing
// dates in the future.
func (s *session) dateArg(v string) (string, error) {
	if v == "" {
		return s.today, nil
	}
	if _, err := parseDate(v); err != nil {
		return "", err
	}
	if v > s.today {
		return "", fmt.Errorf("%s is in the future (today is %s)", v, s.today)
	}
	return v, nil
}

func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
