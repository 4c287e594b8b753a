package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/kensudogit/job-assistance/domain"
)

const (
	saltBytes  = 16
	iterations = 100000
	keyLength  = 32
)

// PasswordServiceImpl implements domain.PasswordService with
// PBKDF2-HMAC-SHA256. Stored hashes have the form "salt:hex(derivedKey)"
// where salt is 16 random bytes hex encoded.
type PasswordServiceImpl struct {
	iterations int
}

// NewPasswordService creates a new password service.
func NewPasswordService() domain.PasswordService {
	return &PasswordServiceImpl{iterations: iterations}
}

// Hash implements domain.PasswordService.
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key := pbkdf2.Key([]byte(password), []byte(salt), p.iterations, keyLength, sha256.New)
	return salt + ":" + hex.EncodeToString(key), nil
}

// Verify implements domain.PasswordService. It recomputes the derived key
// with the stored salt and compares in constant time. A malformed stored
// hash verifies false rather than erroring.
func (p *PasswordServiceImpl) Verify(storedHash, password string) bool {
	parts := strings.SplitN(storedHash, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	stored, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), []byte(parts[0]), p.iterations, len(stored), sha256.New)
	return subtle.ConstantTimeCompare(key, stored) == 1
}
