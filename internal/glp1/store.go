package glp1

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/upwell-app/upwell/internal/store"
)

// Store handles application persistence.
type Store struct {
	db store.Querier
}

// NewStore creates a new application store.
func NewStore(db store.Querier) *Store {
	return &Store{db: db}
}

// Add records an application and returns it with its new ID. An ID already
// set on a (for example, from a backup) is kept.
func (s *Store) Add(ctx context.Context, userID string, a Application) (Application, error) {
	a, _, err := s.Restore(ctx, userID, a)
	return a, err
}

// Restore is Add for records that may already be stored. It reports false
// when the user already has an application with a's ID; the stored copy is
// left unchanged.
func (s *Store) Restore(ctx context.Context, userID string, a Application) (Application, bool, error) {
	if err := a.Validate(); err != nil {
		return Application{}, false, err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO applications (id, user_id, date, medication, dose, observation)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, id) DO NOTHING`,
		a.ID, userID, a.Date, a.Medication, a.Dose, a.Observation,
	)
	if err != nil {
		return Application{}, false, fmt.Errorf("logging application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Application{}, false, fmt.Errorf("logging application: %w", err)
	}
	return a, n > 0, nil
}

// Applications returns every application for the user, most recent first.
func (s *Store) Applications(ctx context.Context, userID string) ([]Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, medication, dose, observation
		 FROM applications WHERE user_id = ? ORDER BY date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func scanApplications(rows *sql.Rows) ([]Application, error) {
	apps := []Application{}
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.Date, &a.Medication, &a.Dose, &a.Observation); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
