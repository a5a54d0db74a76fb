package store

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// HashSessionToken derives the key-safe digest SessionKey and
// SessionUserIndexKey expect in place of a raw session or password-reset
// token. Only the hash is ever persisted or used as key material; the raw
// token lives only in the caller's memory and the one response that hands
// it to the learner's client.
//
// blake2b-256 is used rather than a password hash (bcrypt/scrypt/argon2)
// because the input here is already a high-entropy random token, not a
// human-chosen secret: there is nothing for a slow, salted KDF to defend
// against that a fast, keyless digest does not also defend against, and a
// fast digest keeps session lookups (a read on every authenticated
// request in the out-of-scope HTTP layer) cheap.
func HashSessionToken(rawToken string) (string, error) {
	if rawToken == "" {
		return "", fmt.Errorf("%w: token must not be empty", ErrValidation)
	}
	sum := blake2b.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:]), nil
}
