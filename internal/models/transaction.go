package models

// Kind is the type of a transaction.
type Kind string

// Transaction kinds as stored in the transactions table.
const (
	KindDeposit    Kind = "Deposit"
	KindWithdrawal Kind = "Withdrawal"
)

// Valid reports whether k is one of the known transaction kinds.
func (k Kind) Valid() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// TransactionDB represents a transaction record in the database.
// Rows are append-only: they are never updated or deleted.
type TransactionDB struct {
	TransactionID int64   `json:"transaction_id" db:"transaction_id"` // Auto-assigned primary key
	AccountID     int64   `json:"account_id" db:"account_id"`         // References accounts.account_id
	Kind          Kind    `json:"kind" db:"kind"`                     // Deposit or Withdrawal
	Amount        float64 `json:"amount" db:"amount"`                 // Positive amount moved
	Timestamp     string  `json:"timestamp" db:"timestamp"`           // Assigned by the store at insert time
}
