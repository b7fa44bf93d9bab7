package database

import (
	"context"
	"database/sql"
)

// WithTx runs fn inside a transaction. If fn returns an error, or panics,
// the transaction is rolled back; a panic is re-thrown after rollback so
// callers higher up (Echo's Recover middleware) still see it. On success
// the transaction is committed.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			committed = true // avoid double rollback in the outer defer
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
