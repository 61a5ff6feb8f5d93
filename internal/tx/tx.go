// Package tx scopes a database transaction to a context so that
// repositories invoked within one logical operation share it.
package tx

import (
	"context"

	"github.com/jmoiron/sqlx"

	"bankdesk/internal/logger"
)

// contextKey is an unexported type for keys in context
type contextKey struct{}

var txKey = contextKey{}

// setTxToContext stores a transaction in the context
func setTxToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// FromContext retrieves the transaction from the context. Returns nil if not present.
func FromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey).(*sqlx.Tx)
	return tx
}

// Run executes fn inside a database transaction carried in the context.
// The transaction commits when fn returns nil and rolls back on error or
// panic, so every exit path releases the store.
func Run(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context) error) error {
	txn, err := db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Log.Errorw("failed to begin transaction", "error", err)
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			txn.Rollback()
			panic(rec)
		}
	}()

	if err := fn(setTxToContext(ctx, txn)); err != nil {
		if rbErr := txn.Rollback(); rbErr != nil {
			logger.Log.Errorw("failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := txn.Commit(); err != nil {
		logger.Log.Errorw("failed to commit transaction", "error", err)
		return err
	}
	return nil
}
