package checkin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/upwell-app/upwell/internal/dates"
	"github.com/upwell-app/upwell/internal/store"
)

// ErrShieldUsed is returned when a second shield is spent in the same week.
var ErrShieldUsed = errors.New("shield already used this week")

// Store handles check-in persistence.
type Store struct {
	db store.Querier
}

// NewStore creates a new check-in store over a database or an open
// transaction.
func NewStore(db store.Querier) *Store {
	return &Store{db: db}
}

const checkinColumns = `date, trained, drank_water, slept_well, food, food_contexts, note, mood, shield`

// Save records the check-in for its date, replacing any earlier one for the
// same day. At most one shield may be spent per Monday-to-Sunday week.
func (s *Store) Save(ctx context.Context, userID string, c CheckIn) error {
	if err := c.Validate(); err != nil {
		return err
	}

	// The shield check and the write share a transaction so two saves in
	// the same week cannot both spend the shield.
	return s.db.WithTx(ctx, func(tx *store.Tx) error {
		if c.ShieldActivated {
			used, err := shieldDate(ctx, tx, userID, c.Date)
			if err != nil {
				return err
			}
			if used != "" {
				return fmt.Errorf("%w (spent on %s)", ErrShieldUsed, used)
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO checkins (user_id, `+checkinColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(user_id, date) DO UPDATE SET
			   trained = excluded.trained,
			   drank_water = excluded.drank_water,
			   slept_well = excluded.slept_well,
			   food = excluded.food,
			   food_contexts = excluded.food_contexts,
			   note = excluded.note,
			   mood = excluded.mood,
			   shield = excluded.shield,
			   updated_at = CURRENT_TIMESTAMP`,
			userID, c.Date, store.Bool(c.Trained), store.Bool(c.DrankWater), store.Bool(c.SleptWell),
			c.Food.Code(), encodeContexts(c.Contexts), c.Note, c.Mood.Code(), store.Bool(c.ShieldActivated),
		)
		if err != nil {
			return fmt.Errorf("saving check-in for %s: %w", c.Date, err)
		}
		return nil
	})
}

// shieldDate returns the date of another shielded check-in in date's week,
// or "" when the week's shield is still available.
func shieldDate(ctx context.Context, q store.Querier, userID, date string) (string, error) {
	monday, err := dates.StartOfWeek(date)
	if err != nil {
		return "", err
	}
	sunday, err := dates.AddDays(monday, 6)
	if err != nil {
		return "", err
	}

	var used string
	err = q.QueryRowContext(ctx,
		`SELECT date FROM checkins
		 WHERE user_id = ? AND shield = 1 AND date >= ? AND date <= ? AND date <> ?
		 LIMIT 1`,
		userID, monday, sunday, date,
	).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("checking weekly shield: %w", err)
	}
	return used, nil
}

// Get returns the check-in for one date, or nil if there is none.
func (s *Store) Get(ctx context.Context, userID, date string) (*CheckIn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+checkinColumns+` FROM checkins WHERE user_id = ? AND date = ?`,
		userID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list, err := scanCheckIns(rows)
	if err != nil {
		return nil, fmt.Errorf("getting check-in for %s: %w", date, err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// CheckIns returns every check-in for the user, most recent first.
func (s *Store) CheckIns(ctx context.Context, userID string) ([]CheckIn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+checkinColumns+` FROM checkins WHERE user_id = ? ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCheckIns(rows)
}

// CheckInsForMonth returns the user's check-ins within one calendar month,
// in day order.
func (s *Store) CheckInsForMonth(ctx context.Context, userID string, year int, month time.Month) ([]CheckIn, error) {
	first, last := dates.MonthBounds(year, month)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+checkinColumns+` FROM checkins
		 WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date ASC`,
		userID, first, last,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCheckIns(rows)
}

// Recent returns the user's n most recent check-ins.
func (s *Store) Recent(ctx context.Context, userID string, n int) ([]CheckIn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+checkinColumns+` FROM checkins WHERE user_id = ? ORDER BY date DESC LIMIT ?`,
		userID, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCheckIns(rows)
}

// scanCheckIns scans sql.Rows into a slice of CheckIn.
func scanCheckIns(rows *sql.Rows) ([]CheckIn, error) {
	list := []CheckIn{}
	for rows.Next() {
		var c CheckIn
		var trained, water, slept, shield int
		var food, contexts, mood string

		if err := rows.Scan(&c.Date, &trained, &water, &slept, &food, &contexts, &c.Note, &mood, &shield); err != nil {
			return nil, err
		}
		c.Trained = trained == 1
		c.DrankWater = water == 1
		c.SleptWell = slept == 1
		c.ShieldActivated = shield == 1

		var err error
		if c.Food, err = ParseFoodAdherence(food); err != nil {
			return nil, fmt.Errorf("check-in %s: %w", c.Date, err)
		}
		if c.Mood, err = ParseMood(mood); err != nil {
			return nil, fmt.Errorf("check-in %s: %w", c.Date, err)
		}
		if c.Contexts, err = decodeContexts(contexts); err != nil {
			return nil, fmt.Errorf("check-in %s: %w", c.Date, err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// encodeContexts stores tags as a comma-separated list of codes.
func encodeContexts(ctxs []FoodContext) string {
	codes := make([]string, len(ctxs))
	for i, c := range ctxs {
		codes[i] = c.Code()
	}
	return strings.Join(codes, ",")
}

func decodeContexts(s string) ([]FoodContext, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]FoodContext, 0, len(parts))
	for _, p := range parts {
		c, err := ParseFoodContext(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
