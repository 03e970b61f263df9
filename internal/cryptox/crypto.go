// Package cryptox implements the symmetric transform applied to file
// contents before they reach object storage. A single AES-256 key is
// derived once at startup from an external secret and held in memory for
// the process lifetime; it is never persisted or logged.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// DeriveKey derives a fixed-length symmetric key from the given secret.
// Deterministic: the same secret always yields the same key. Fails on an
// empty secret.
func DeriveKey(secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty encryption secret", common.ErrorValidation)
	}
	hash := sha256.Sum256(secret)
	return hash[:], nil
}

// Engine encrypts and decrypts byte payloads under the process-wide key.
// The stored layout is nonce || ciphertext with no additional header; the
// content type and original size live in metadata, not in the blob.
//
// Safe for concurrent use: the AEAD is read-only after construction.
type Engine struct {
	aead cipher.AEAD
}

// NewEngine derives the key from secret and prepares the AEAD.
func NewEngine(secret []byte) (*Engine, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}

	return &Engine{aead: aead}, nil
}

// NonceSize reports the fixed nonce width prepended to every payload.
func (e *Engine) NonceSize() int {
	return e.aead.NonceSize()
}

// Encrypt seals plaintext under a fresh random nonce and returns
// nonce || ciphertext. The nonce that decrypts the ciphertext is the one
// emitted by this very call; it is never generated separately.
func (e *Engine) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: nonce generation: %v", common.ErrCrypto, err)
	}

	// Seal appends the ciphertext to the nonce so the payload carries
	// everything needed to decrypt it.
	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt splits payload into its nonce prefix and ciphertext and opens it.
// A payload shorter than the nonce width fails with ErrMalformedPayload;
// an integrity or key failure fails with ErrCrypto.
func (e *Engine) Decrypt(payload []byte) ([]byte, error) {
	ns := e.aead.NonceSize()
	if len(payload) < ns {
		return nil, fmt.Errorf("%w: %d bytes, want at least %d", common.ErrMalformedPayload, len(payload), ns)
	}

	nonce, ciphertext := payload[:ns], payload[ns:]

	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCrypto, err)
	}

	return plaintext, nil
}
