// Package crypto provides field-level encryption for personally identifiable
// data (phone numbers, addresses) stored in the relational store.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"log"

	"github.com/kensudogit/job-assistance/domain"
)

// FieldEncryptorImpl implements domain.FieldEncryptor with AES-256-GCM.
// The ciphertext string is base64(nonce || sealed) so a single column can
// hold the whole value. Decryption is best-effort for display: a value that
// cannot be opened (corrupt, or written under a different key) is returned
// unchanged with a logged warning, never surfaced as a request failure.
type FieldEncryptorImpl struct {
	aead cipher.AEAD
	rand io.Reader
}

// NewFieldEncryptor derives a 256-bit key from the configured secret.
func NewFieldEncryptor(secret string) (domain.FieldEncryptor, error) {
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &FieldEncryptorImpl{aead: aead, rand: rand.Reader}, nil
}

// Encrypt implements domain.FieldEncryptor. Empty input encrypts to the
// empty string. If no nonce can be drawn the value is dropped rather than
// stored in the clear.
func (e *FieldEncryptorImpl) Encrypt(plaintext string) string {
	if plaintext == "" {
		return ""
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(e.rand, nonce); err != nil {
		log.Printf("FIELD_ENCRYPT_FAILED: nonce generation: %v", err)
		return ""
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed)
}

// Decrypt implements domain.FieldEncryptor.
func (e *FieldEncryptorImpl) Decrypt(ciphertext string) string {
	if ciphertext == "" {
		return ""
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil || len(raw) < e.aead.NonceSize() {
		log.Printf("FIELD_DECRYPT_FAILED: undecodable ciphertext, returning raw value")
		return ciphertext
	}

	nonce, sealed := raw[:e.aead.NonceSize()], raw[e.aead.NonceSize():]
	plaintext, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		log.Printf("FIELD_DECRYPT_FAILED: %v, returning raw value", err)
		return ciphertext
	}
	return string(plaintext)
}
