package services

import (
	"context"
	"database/sql"
	"errors"

	"bankdesk/internal/logger"
	"bankdesk/internal/models"
)

// Error variables
var (
	ErrInvalidInput       = errors.New("all fields are required")
	ErrDuplicateAccountID = errors.New("account id already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// AccountReader defines read-only operations for accounts.
type AccountReader interface {
	GetByID(ctx context.Context, accountID int64) (*models.AccountDB, error)
}

// AccountWriter defines write operations for accounts.
type AccountWriter interface {
	Save(ctx context.Context, accountID int64, username, passwordDigest string) error
	UpdatePasswordDigest(ctx context.Context, accountID int64, passwordDigest string) error
}

// PasswordHasher defines the one-way transform applied to passwords before
// they are stored or compared.
type PasswordHasher interface {
	Hash(password string) string
}

// AccountService handles registration, login, and password reset.
type AccountService struct {
	reader AccountReader
	writer AccountWriter
	hasher PasswordHasher
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(reader AccountReader, writer AccountWriter, hasher PasswordHasher) *AccountService {
	return &AccountService{
		reader: reader,
		writer: writer,
		hasher: hasher,
	}
}

// Register creates a new account with a zero balance. The account id is
// chosen by the caller and must not already exist.
func (svc *AccountService) Register(ctx context.Context, accountID int64, username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidInput
	}

	account, err := svc.reader.GetByID(ctx, accountID)
	if err != nil {
		logger.Log.Errorw("failed to check account exists", "accountID", accountID, "err", err)
		return storeError(err)
	}
	if account != nil {
		logger.Log.Warnw("account id already exists", "accountID", accountID)
		return ErrDuplicateAccountID
	}

	if err := svc.writer.Save(ctx, accountID, username, svc.hasher.Hash(password)); err != nil {
		logger.Log.Errorw("failed to save account", "accountID", accountID, "err", err)
		return storeError(err)
	}

	return nil
}

// Authenticate verifies the password for an account and returns its view.
// Attempts are not limited or throttled.
func (svc *AccountService) Authenticate(ctx context.Context, accountID int64, password string) (*models.Account, error) {
	account, err := svc.reader.GetByID(ctx, accountID)
	if err != nil {
		logger.Log.Errorw("failed to get account", "accountID", accountID, "err", err)
		return nil, storeError(err)
	}
	if account == nil {
		logger.Log.Warnw("account does not exist", "accountID", accountID)
		return nil, ErrAccountNotFound
	}

	if svc.hasher.Hash(password) != account.PasswordDigest {
		logger.Log.Warnw("invalid credentials", "accountID", accountID)
		return nil, ErrInvalidCredentials
	}

	return &models.Account{
		AccountID: account.AccountID,
		Username:  account.Username,
		Balance:   account.Balance,
	}, nil
}

// ResetPassword overwrites the stored password digest.
//
// The username is collected by the caller but is not matched against the
// stored record before the update; knowing a valid account id is enough.
func (svc *AccountService) ResetPassword(ctx context.Context, accountID int64, username, newPassword, confirmPassword string) error {
	if username == "" || newPassword == "" || confirmPassword == "" {
		return ErrInvalidInput
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	err := svc.writer.UpdatePasswordDigest(ctx, accountID, svc.hasher.Hash(newPassword))
	if errors.Is(err, sql.ErrNoRows) {
		logger.Log.Warnw("account does not exist", "accountID", accountID)
		return ErrAccountNotFound
	}
	if err != nil {
		logger.Log.Errorw("failed to update password digest", "accountID", accountID, "err", err)
		return storeError(err)
	}

	return nil
}
