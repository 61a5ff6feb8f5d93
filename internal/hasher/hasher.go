// Package hasher turns plaintext passwords into storable digests.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256 hashes passwords to a lowercase hex SHA-256 digest.
//
// The transform is deterministic and unsalted: the same password always
// produces the same digest, including across accounts. The stored digest
// format depends on this, so switching to a salted scheme changes the
// on-disk contract.
type SHA256 struct{}

// New returns a SHA256 hasher.
func New() *SHA256 {
	return &SHA256{}
}

// Hash returns the hex-encoded SHA-256 digest of password.
func (h *SHA256) Hash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
