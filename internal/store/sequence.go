package store

import (
	"context"
	"database/sql"
	"fmt"
)

// History rows from reward_grants and focus_sessions share one counter so
// they interleave in a single newest-first order regardless of clock skew.

// rowQuerier is satisfied by *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const bumpSequence = `UPDATE history_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`

// nextSequence reserves the next history sequence number. Call it on the
// transaction that writes the row, so a rollback also returns the number.
func nextSequence(ctx context.Context, q rowQuerier) (int64, error) {
	var seq int64
	if err := q.QueryRowContext(ctx, bumpSequence).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// withTx runs fn in a transaction, retrying the whole unit on lock contention.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	return retryOnContention(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit()
	})
}
