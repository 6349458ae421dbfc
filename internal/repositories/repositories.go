package repositories

import (
	"database/sql"
	"fmt"
)

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// nextSequence bumps the single-row counter in <table>_sequence and returns the new value.
// Run it inside the transaction that inserts the row so a failed insert does not burn a number.
func nextSequence(q rowQuerier, table string) (int, error) {
	var n int
	stmt := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)
	if err := q.QueryRow(stmt).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", table, err)
	}
	return n, nil
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func withTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
