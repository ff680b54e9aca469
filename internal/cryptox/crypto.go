// Package cryptox implements the cryptographic primitives behind the
// RecoveryLog journal vault: PIN-based key derivation, the stored PIN
// verifier, and authenticated encryption of journal content.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the length of a derived vault key in bytes (AES-256).
	KeySize = 32
	// SaltSize is the length of a per-user key-derivation salt in bytes.
	SaltSize = 32
	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12
)

// ErrInvalidCiphertext is returned by Decrypt for blobs that are too short
// to contain a nonce, and therefore cannot have been produced by Encrypt.
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// DeriveKey runs Argon2id over (pin, salt) and returns a KeySize-byte
// symmetric key. The derivation is deterministic for fixed inputs and
// deliberately expensive so that a short PIN cannot be brute-forced cheaply.
//
// The salt must be the user's persisted key-derivation salt; deriving with a
// different salt yields an unrelated key and makes existing ciphertext
// unrecoverable.
func DeriveKey(pin []byte, salt []byte) []byte {
	return argon2.IDKey(pin, salt, 1, 64*1024, 4, KeySize)
}

// MakeVerifier returns the stored PIN verifier for a derived key: a SHA-256
// digest of the key. The digest is one-way, so a leaked verifier does not
// reveal the key, and it is never equal to the key itself. Comparing a
// freshly derived candidate's verifier against the stored one checks PIN
// correctness without touching any user content.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// Encrypt seals plaintext with AES-256-GCM under the given key. A fresh
// random NonceSize-byte nonce is generated per call, so encrypting the same
// plaintext twice yields different blobs. The returned blob is
// nonce||ciphertext, sized to live in a single document-store field.
func Encrypt(key []byte, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. It returns ErrInvalidCiphertext
// for blobs too short to contain a nonce; authentication failures (wrong
// key, tampered data) surface as the AEAD open error. It never panics.
func Decrypt(key []byte, blob []byte) ([]byte, error) {
	if len(blob) < NonceSize {
		return nil, ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	nonce, ciphertext := blob[:NonceSize], blob[NonceSize:]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}
