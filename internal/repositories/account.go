package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"bankdesk/internal/logger"
	"bankdesk/internal/models"
)

// AccountReadRepository handles account read operations.
type AccountReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewAccountReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *AccountReadRepository {
	return &AccountReadRepository{db: db, txGetter: txGetter}
}

// GetByID returns the account with the given id, or nil if it does not exist.
func (r *AccountReadRepository) GetByID(ctx context.Context, accountID int64) (*models.AccountDB, error) {
	const query = `
		SELECT account_id, username, password_digest, balance
		FROM accounts
		WHERE account_id = ?
	`

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	var account models.AccountDB
	err := sqlx.GetContext(ctx, executor, &account, query, accountID)

	// A miss is a normal result here, not a driver error
	if errors.Is(err, sql.ErrNoRows) {
		logger.Log.Infow("query executed",
			"query", strings.Join(strings.Fields(query), " "),
			"args", []any{accountID},
			"result", "no rows",
		)
		return nil, nil
	}

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{accountID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &account, nil
}

// AccountWriteRepository handles account write operations.
type AccountWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewAccountWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *AccountWriteRepository {
	return &AccountWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a new account. The balance column defaults to 0.0.
func (r *AccountWriteRepository) Save(ctx context.Context, accountID int64, username, passwordDigest string) error {
	query := `
		INSERT INTO accounts (account_id, username, password_digest)
		VALUES (?, ?, ?)
	`
	args := []any{accountID, username, passwordDigest}

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	_, err := executor.ExecContext(ctx, query, args...)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	return err
}

// UpdateBalance overwrites the stored balance of an account.
// Returns sql.ErrNoRows when no account with that id exists.
func (r *AccountWriteRepository) UpdateBalance(ctx context.Context, accountID int64, balance float64) error {
	query := `
		UPDATE accounts
		SET balance = ?
		WHERE account_id = ?
	`
	args := []any{balance, accountID}

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	res, err := executor.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePasswordDigest overwrites the stored password digest of an account.
// Returns sql.ErrNoRows when no account with that id exists.
func (r *AccountWriteRepository) UpdatePasswordDigest(ctx context.Context, accountID int64, passwordDigest string) error {
	query := `
		UPDATE accounts
		SET password_digest = ?
		WHERE account_id = ?
	`
	args := []any{passwordDigest, accountID}

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	res, err := executor.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{"***", accountID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
