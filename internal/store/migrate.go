package store

import "fmt"

// columnTypes holds the per-driver spellings that differ between schemas.
type columnTypes struct {
	real      string
	timestamp string
}

func (db *DB) types() columnTypes {
	if db.driver == DriverPostgres {
		return columnTypes{real: "DOUBLE PRECISION", timestamp: "TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP"}
	}
	return columnTypes{real: "REAL", timestamp: "DATETIME DEFAULT CURRENT_TIMESTAMP"}
}

// migrate runs all schema migrations. Every statement is idempotent.
func (db *DB) migrate() error {
	t := db.types()
	migrations := []string{
		// One check-in per user per day.
		`CREATE TABLE IF NOT EXISTS checkins (
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			trained INTEGER NOT NULL DEFAULT 0,
			drank_water INTEGER NOT NULL DEFAULT 0,
			slept_well INTEGER NOT NULL DEFAULT 0,
			food TEXT NOT NULL DEFAULT 'sim',
			food_contexts TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			mood TEXT NOT NULL DEFAULT 'neutro',
			shield INTEGER NOT NULL DEFAULT 0,
			created_at ` + t.timestamp + `,
			updated_at ` + t.timestamp + `,
			PRIMARY KEY (user_id, date)
		)`,
		// Weight log, last write per day wins.
		`CREATE TABLE IF NOT EXISTS weights (
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			kg ` + t.real + ` NOT NULL,
			context TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			updated_at ` + t.timestamp + `,
			PRIMARY KEY (user_id, date)
		)`,
		// GLP-1 applications, several per day allowed. IDs are unique per
		// user so one backup can be restored under another user id.
		`CREATE TABLE IF NOT EXISTS applications (
			id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			medication TEXT NOT NULL,
			dose TEXT NOT NULL DEFAULT '',
			observation TEXT NOT NULL DEFAULT '',
			created_at ` + t.timestamp + `,
			PRIMARY KEY (user_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_user_date ON applications(user_id, date)`,
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT,
			updated_at ` + t.timestamp + `
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
