package services

import (
	"context"
	"errors"
	"math"

	"github.com/jmoiron/sqlx"

	"bankdesk/internal/logger"
	"bankdesk/internal/models"
	"bankdesk/internal/tx"
)

var (
	// ErrInvalidAmount is returned when the amount is not a positive number.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient balance for withdrawal")
)

// BalanceWriter defines the balance mutation on accounts.
type BalanceWriter interface {
	UpdateBalance(ctx context.Context, accountID int64, balance float64) error
}

// TransactionWriter appends transaction records.
type TransactionWriter interface {
	Save(ctx context.Context, accountID int64, kind models.Kind, amount float64) error
}

// TransactionReader reads transaction history.
type TransactionReader interface {
	ListByAccountID(ctx context.Context, accountID int64) ([]models.TransactionDB, error)
}

// TransactionService applies deposits and withdrawals and serves history.
type TransactionService struct {
	db       *sqlx.DB
	accounts AccountReader
	balances BalanceWriter
	writer   TransactionWriter
	reader   TransactionReader
}

// NewTransactionService creates a new TransactionService. The db handle is
// used to scope each Apply call to a single store transaction.
func NewTransactionService(
	db *sqlx.DB,
	accounts AccountReader,
	balances BalanceWriter,
	writer TransactionWriter,
	reader TransactionReader,
) *TransactionService {
	return &TransactionService{
		db:       db,
		accounts: accounts,
		balances: balances,
		writer:   writer,
		reader:   reader,
	}
}

// Apply performs a deposit or withdrawal and returns the new balance.
//
// The balance update and the history append happen inside one store
// transaction: no observer ever sees one without the other. On any error
// both writes roll back.
func (s *TransactionService) Apply(ctx context.Context, accountID int64, kind models.Kind, amount float64) (float64, error) {
	if !kind.Valid() {
		return 0, ErrInvalidInput
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		logger.Log.Warnw("invalid transaction amount", "accountID", accountID, "amount", amount)
		return 0, ErrInvalidAmount
	}

	var newBalance float64
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		account, err := s.accounts.GetByID(ctx, accountID)
		if err != nil {
			logger.Log.Errorw("failed to get account", "accountID", accountID, "err", err)
			return storeError(err)
		}
		if account == nil {
			logger.Log.Warnw("account does not exist", "accountID", accountID)
			return ErrAccountNotFound
		}

		switch kind {
		case models.KindDeposit:
			newBalance = account.Balance + amount
		case models.KindWithdrawal:
			if amount > account.Balance {
				logger.Log.Warnw("insufficient funds", "accountID", accountID, "amount", amount, "balance", account.Balance)
				return ErrInsufficientFunds
			}
			newBalance = account.Balance - amount
		}

		if err := s.balances.UpdateBalance(ctx, accountID, newBalance); err != nil {
			logger.Log.Errorw("failed to update balance", "accountID", accountID, "err", err)
			return storeError(err)
		}
		if err := s.writer.Save(ctx, accountID, kind, amount); err != nil {
			logger.Log.Errorw("failed to append transaction", "accountID", accountID, "err", err)
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		// Begin/commit failures come back raw from the transaction scope;
		// they are storage faults like any other.
		if !errors.Is(err, ErrAccountNotFound) && !errors.Is(err, ErrInsufficientFunds) && !errors.Is(err, ErrStoreUnavailable) {
			err = storeError(err)
		}
		return 0, err
	}
	return newBalance, nil
}

// History returns every transaction for the account, most recent first.
// An account with no transactions yields an empty slice, not an error.
func (s *TransactionService) History(ctx context.Context, accountID int64) ([]models.TransactionDB, error) {
	history, err := s.reader.ListByAccountID(ctx, accountID)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "accountID", accountID, "err", err)
		return nil, storeError(err)
	}
	return history, nil
}
