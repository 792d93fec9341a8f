// Package cryptox derives password hashes for stored credentials.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// DefaultSalt is used when no application salt is configured.
const DefaultSalt = "shopkeeper-app-salt"

// stretch runs argon2id over the password with the application salt.
func stretch(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// digest is the stored form of a stretched password.
func digest(key []byte) []byte {
	sum := sha256.Sum256(key)
	return sum[:]
}

// Hasher turns plaintext passwords into a deterministic hex digest and
// checks candidates against it.
type Hasher struct {
	salt []byte
}

func NewHasher(salt string) *Hasher {
	if salt == "" {
		salt = DefaultSalt
	}
	return &Hasher{salt: []byte(salt)}
}

// HashPassword returns hex(SHA-256(argon2id(password, salt))).
func (h *Hasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", common.ErrInvalidInput
	}

	key := stretch([]byte(password), h.salt)
	defer common.WipeByteArray(key)

	return hex.EncodeToString(digest(key)), nil
}

// VerifyPassword reports whether password hashes to hash. Empty input on
// either side never matches.
func (h *Hasher) VerifyPassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}

	got, err := h.HashPassword(password)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(got), []byte(hash)) == 1
}
