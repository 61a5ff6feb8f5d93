package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"bankdesk/internal/logger"
	"bankdesk/internal/models"
)

// TransactionWriteRepository appends transaction records.
type TransactionWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTransactionWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db, txGetter: txGetter}
}

// Save appends one transaction record. The timestamp is assigned by the
// store at insert time; records are never updated or deleted afterwards.
func (r *TransactionWriteRepository) Save(ctx context.Context, accountID int64, kind models.Kind, amount float64) error {
	query := `
		INSERT INTO transactions (account_id, kind, amount, timestamp)
		VALUES (?, ?, ?, datetime('now'))
	`
	args := []any{accountID, kind, amount}

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

// TransactionReadRepository reads transaction history.
type TransactionReadRepository struct {
	db *sqlx.DB
}

func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// ListByAccountID returns every transaction for the account, most recent
// first. The transaction_id tie-break keeps the order total when two
// records share a timestamp. Returns an empty slice when there are none.
func (r *TransactionReadRepository) ListByAccountID(ctx context.Context, accountID int64) ([]models.TransactionDB, error) {
	const query = `
		SELECT transaction_id, account_id, kind, amount, timestamp
		FROM transactions
		WHERE account_id = ?
		ORDER BY timestamp DESC, transaction_id DESC
	`

	transactions := make([]models.TransactionDB, 0)
	err := r.db.SelectContext(ctx, &transactions, query, accountID)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{accountID},
		"result", len(transactions),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return transactions, nil
}
