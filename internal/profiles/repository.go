package profiles

import (
	"context"
	"errors"
)

// ErrSaltExists is returned by SaveCredentials when the profile already has
// an encryption salt. Overwriting the salt would make all previously
// encrypted journal content unrecoverable, so the write is refused.
var ErrSaltExists = errors.New("encryption salt already set")

// Repository persists per-user vault credentials.
//
// Contract:
//   - Get: fetch the profile record; common.ErrorNotFound when absent.
//   - SaveCredentials: vault-setup merge write of salt+verifier, guarded
//     against overwriting an existing salt (ErrSaltExists).
//   - SaveVerifier: legacy-migration merge write touching only the verifier.
type Repository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	SaveCredentials(ctx context.Context, userID string, salt, verifier []byte) error
	SaveVerifier(ctx context.Context, userID string, verifier []byte) error
}
