// Package profiles stores the per-user profile record that backs the
// journal vault: the key-derivation salt and the PIN verifier. Absence of
// either field is meaningful, so both are kept as nullable columns and
// surface as nil slices.
package profiles

import "time"

// Profile is the per-user credential record read and written by the vault.
//
// Field presence encodes vault state:
//   - EncryptionSalt nil: no vault has ever been set up for this user.
//   - EncryptionSalt set, PINVerifier nil: legacy vault account; unlock goes
//     through the canary protocol until a verifier is migrated in.
//   - Both set: strict verifier-based unlock.
type Profile struct {
	UserID string

	// EncryptionSalt is the key-derivation salt, generated once at vault
	// setup and never regenerated afterwards.
	EncryptionSalt []byte

	// PINVerifier is the one-way fingerprint of the derived vault key.
	PINVerifier []byte

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VaultSet reports whether a vault has been set up for this profile.
func (p *Profile) VaultSet() bool {
	return p != nil && len(p.EncryptionSalt) > 0
}

// HasVerifier reports whether strict verifier-based unlock is available.
func (p *Profile) HasVerifier() bool {
	return p != nil && len(p.PINVerifier) > 0
}
