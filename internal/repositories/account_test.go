package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	_ "modernc.org/sqlite"

	"bankdesk/internal/logger"
	"bankdesk/internal/migrations"
	"bankdesk/internal/tx"
)

// --- Setup sqlite ---
func setupSQLite(t *testing.T) *sqlx.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "bank.db")
	assert.NoError(t, migrations.Up(dbPath))

	db, err := sqlx.Connect("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestAccountSaveAndGetByID(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	writer := NewAccountWriteRepository(db, nil)
	reader := NewAccountReadRepository(db, nil)

	assert.NoError(t, writer.Save(ctx, 1, "alice", "digest1"))

	account, err := reader.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.NotNil(t, account)
	assert.Equal(t, int64(1), account.AccountID)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "digest1", account.PasswordDigest)
	assert.Equal(t, 0.0, account.Balance, "balance defaults to 0.0")
}

func TestAccountGetByID_NotFound(t *testing.T) {
	db := setupSQLite(t)

	reader := NewAccountReadRepository(db, nil)

	account, err := reader.GetByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, account, "missing account is nil, not an error")
}

func TestAccountSave_DuplicateID(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	writer := NewAccountWriteRepository(db, nil)
	reader := NewAccountReadRepository(db, nil)

	assert.NoError(t, writer.Save(ctx, 1, "alice", "digest1"))
	assert.Error(t, writer.Save(ctx, 1, "bob", "digest2"), "primary key rejects a second account with the same id")

	// First account untouched
	account, err := reader.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "digest1", account.PasswordDigest)
}

func TestAccountUpdateBalance(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	writer := NewAccountWriteRepository(db, nil)
	reader := NewAccountReadRepository(db, nil)

	assert.NoError(t, writer.Save(ctx, 1, "alice", "digest1"))
	assert.NoError(t, writer.UpdateBalance(ctx, 1, 50.0))

	account, err := reader.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 50.0, account.Balance)
}

func TestAccountUpdateBalance_NotFound(t *testing.T) {
	db := setupSQLite(t)

	writer := NewAccountWriteRepository(db, nil)

	err := writer.UpdateBalance(context.Background(), 42, 50.0)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAccountUpdatePasswordDigest(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	writer := NewAccountWriteRepository(db, nil)
	reader := NewAccountReadRepository(db, nil)

	assert.NoError(t, writer.Save(ctx, 1, "alice", "old"))
	assert.NoError(t, writer.UpdatePasswordDigest(ctx, 1, "new"))

	account, err := reader.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "new", account.PasswordDigest)

	assert.ErrorIs(t, writer.UpdatePasswordDigest(ctx, 42, "x"), sql.ErrNoRows)
}

// A lookup miss is routine (every login attempt with an unknown id takes
// this path) and must not produce an error-bearing query log entry.
func TestAccountGetByID_MissIsNotLoggedAsError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	originalLog := logger.Log
	logger.Log = zap.New(core).Sugar()
	defer func() { logger.Log = originalLog }()

	db := setupSQLite(t)

	reader := NewAccountReadRepository(db, nil)
	account, err := reader.GetByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, account)

	entries := logs.All()
	assert.NotEmpty(t, entries, "the query is still logged")
	for _, entry := range entries {
		for _, field := range entry.Context {
			assert.NotEqual(t, "error", field.Key, "a miss must not carry an error field")
		}
	}
}

func TestAccountRepositories_UseTxFromContext(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	writer := NewAccountWriteRepository(db, tx.FromContext)
	reader := NewAccountReadRepository(db, tx.FromContext)

	// Writes inside a failed scope roll back
	err := tx.Run(ctx, db, func(ctx context.Context) error {
		if err := writer.Save(ctx, 1, "alice", "digest1"); err != nil {
			return err
		}
		account, err := reader.GetByID(ctx, 1)
		if err != nil {
			return err
		}
		assert.NotNil(t, account, "row is visible inside its own transaction")
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	account, err := reader.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, account, "rolled back insert must not persist")
}
