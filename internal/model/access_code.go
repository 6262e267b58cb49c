package model

import "time"

// AccessCode is one whitelist entry. EncryptedCode is the deterministic
// ciphertext of Code under the process-wide key/IV and is the only column
// used for lookups; the plaintext is kept for operator reference.
type AccessCode struct {
	ID            int64     `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	EncryptedCode string    `db:"encrypted_code" json:"encryptedCode"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
