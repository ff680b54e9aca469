// Package journal holds journal entries and the read/write paths that run
// them through the vault: new content is encrypted while the vault is
// unlocked, and mixed plaintext/ciphertext history decrypts opportunistically
// on display.
package journal

import "time"

// Entry is a single journal record.
//
// Content holds AEAD ciphertext (base64) when IsEncrypted is true, or legacy
// plaintext when false. The two kinds coexist under the same read path; the
// flag decides whether display goes through the vault.
type Entry struct {
	// ID is a globally unique identifier for the entry.
	ID string

	// UserID is the owner of the entry.
	UserID string

	// Content is the entry body: ciphertext or legacy plaintext, per IsEncrypted.
	Content string

	// IsEncrypted marks Content as vault ciphertext.
	IsEncrypted bool

	// Mood is an optional 1..5 self-rating; 0 means not recorded.
	Mood int

	// CreatedAt is the creation time in UTC.
	CreatedAt time.Time

	// UpdatedAt is the last modification time in UTC.
	UpdatedAt time.Time
}
