package cryptox

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	pin := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(pin, salt)
	key2 := DeriveKey(pin, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	// pinned known-answer for the fixed Argon2id parameters
	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	pin := []byte("secret-password")
	salt1 := []byte("salt-1")
	salt2 := []byte("salt-2")

	key1 := DeriveKey(pin, salt1)
	key2 := DeriveKey(pin, salt2)

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}

	key3 := DeriveKey([]byte("other-pin"), salt1)
	if bytes.Equal(key1, key3) {
		t.Errorf("expected different results for different pins, got same")
	}
}

func TestMakeVerifier_IndependentOfKey(t *testing.T) {
	key := DeriveKey([]byte("1234"), []byte("salt"))

	v1 := MakeVerifier(key)
	v2 := MakeVerifier(key)

	if !bytes.Equal(v1, v2) {
		t.Errorf("verifier must be deterministic for the same key")
	}
	if len(v1) != 32 {
		t.Errorf("expected 32-byte verifier, got %d", len(v1))
	}
	if bytes.Equal(v1, key) {
		t.Errorf("verifier must never equal the key itself")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("1234"), []byte("salt"))
	plaintext := []byte("today was a hard day, but I stayed on track")

	blob, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(blob) <= NonceSize {
		t.Fatalf("blob too short: %d", len(blob))
	}

	got, err := Decrypt(key, blob)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("round-trip mismatch: got %q want %q", got, plaintext)
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	key := DeriveKey([]byte("1234"), []byte("salt"))
	plaintext := []byte("same text")

	blob1, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	blob2, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if bytes.Equal(blob1, blob2) {
		t.Errorf("expected different blobs for repeated encryption of the same plaintext")
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	key := DeriveKey([]byte("1234"), []byte("salt"))
	other := DeriveKey([]byte("0000"), []byte("salt"))

	blob, err := Encrypt(key, []byte("entry"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := Decrypt(other, blob); err == nil {
		t.Errorf("expected error when decrypting with the wrong key")
	}
}

func TestDecrypt_TamperedFails(t *testing.T) {
	key := DeriveKey([]byte("1234"), []byte("salt"))

	blob, err := Encrypt(key, []byte("entry"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	blob[len(blob)-1] ^= 0xff

	if _, err := Decrypt(key, blob); err == nil {
		t.Errorf("expected error for tampered ciphertext")
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	key := DeriveKey([]byte("1234"), []byte("salt"))

	_, err := Decrypt(key, []byte{1, 2, 3})
	if !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestEncrypt_BadKeySize(t *testing.T) {
	if _, err := Encrypt([]byte("short"), []byte("entry")); err == nil {
		t.Errorf("expected error for invalid key size")
	}
}
