package models

// AccountDB represents an account record in the database.
type AccountDB struct {
	AccountID      int64   `json:"account_id" db:"account_id"`           // Primary key, chosen by the user at registration
	Username       string  `json:"username" db:"username"`               // Display name
	PasswordDigest string  `json:"password_digest" db:"password_digest"` // Hex digest of the password, never the plaintext
	Balance        float64 `json:"balance" db:"balance"`                 // Current balance, mutated only through transactions
}

// Account is the view of an account handed back to the presentation layer
// after a successful login. It never carries the password digest.
type Account struct {
	AccountID int64   `json:"account_id"`
	Username  string  `json:"username"`
	Balance   float64 `json:"balance"`
}
