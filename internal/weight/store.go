package weight

import (
	"context"
	"fmt"

	"github.com/upwell-app/upwell/internal/store"
)

// Store handles weight persistence.
type Store struct {
	db store.Querier
}

// NewStore creates a new weight store.
func NewStore(db store.Querier) *Store {
	return &Store{db: db}
}

// Save records the weight for its date. A later write for the same date
// replaces the earlier one.
func (s *Store) Save(ctx context.Context, userID string, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weights (user_id, date, kg, context, notes)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, date) DO UPDATE SET
		   kg = excluded.kg,
		   context = excluded.context,
		   notes = excluded.notes,
		   updated_at = CURRENT_TIMESTAMP`,
		userID, r.Date, r.Kg, r.Context, r.Notes,
	)
	if err != nil {
		return fmt.Errorf("saving weight for %s: %w", r.Date, err)
	}
	return nil
}

// Records returns every weight record for the user, oldest first.
func (s *Store) Records(ctx context.Context, userID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, kg, context, notes FROM weights WHERE user_id = ? ORDER BY date ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Date, &r.Kg, &r.Context, &r.Notes); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
