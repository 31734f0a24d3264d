package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier runs statements written with "?" placeholders. Both *DB and *Tx
// satisfy it, so the record stores work the same inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	WithTx(ctx context.Context, fn func(*Tx) error) error
}

// Tx is an open transaction with the same placeholder rebinding as DB.
type Tx struct {
	tx *sql.Tx
	db *DB
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise. Postgres transactions run SERIALIZABLE; SQLite
// ones take the write lock up front.
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	var opts *sql.TxOptions
	if db.driver == DriverPostgres {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	tx, err := db.conn.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{tx: tx, db: db}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// WithTx runs fn in the enclosing transaction.
func (tx *Tx) WithTx(_ context.Context, fn func(*Tx) error) error {
	return fn(tx)
}

// ExecContext runs a statement with rebound placeholders.
func (tx *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return tx.tx.ExecContext(ctx, tx.db.Rebind(query), args...)
}

// QueryContext runs a query with rebound placeholders.
func (tx *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return tx.tx.QueryContext(ctx, tx.db.Rebind(query), args...)
}

// QueryRowContext runs a single-row query with rebound placeholders.
func (tx *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return tx.tx.QueryRowContext(ctx, tx.db.Rebind(query), args...)
}
