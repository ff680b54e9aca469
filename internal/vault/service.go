package vault

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/recoverylog/internal/common"
	"github.com/dmitrijs2005/recoverylog/internal/cryptox"
	"github.com/dmitrijs2005/recoverylog/internal/logging"
	"github.com/dmitrijs2005/recoverylog/internal/profiles"
)

// CanarySource yields the content of one existing encrypted entry for the
// user, oldest first. It is consulted only while unlocking accounts that
// predate the PIN verifier. common.ErrorNotFound means no encrypted entry
// exists yet.
type CanarySource interface {
	FirstEncrypted(ctx context.Context, userID string) (string, error)
}

// Service manages the journal vault for a single user: a salt and PIN
// verifier on record, and an in-memory session key while unlocked.
//
// The vault is in one of three states. Uninitialized: no salt on record,
// Setup is the only way forward. Locked: salt on record, no session key.
// Unlocked: a session key is held and content operations work.
type Service struct {
	store   profiles.Repository
	canary  CanarySource
	session *Session
	logger  logging.Logger
	userID  string
	loading atomic.Bool
}

func NewService(store profiles.Repository, canary CanarySource, logger logging.Logger, userID string) *Service {
	return &Service{
		store:   store,
		canary:  canary,
		session: NewSession(),
		logger:  logger.With("component", "vault"),
		userID:  userID,
	}
}

// IsSet reports whether a vault exists, meaning an encryption salt is on
// record for the user. A missing profile counts as no vault.
func (s *Service) IsSet(ctx context.Context) (bool, error) {
	p, err := s.store.Get(ctx, s.userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read profile: %w", err)
	}
	return p.VaultSet(), nil
}

// IsUnlocked reports whether a session key is currently held.
func (s *Service) IsUnlocked() bool {
	return s.session.Active()
}

// Loading reports whether a Setup or Unlock call is in flight. Key
// derivation is deliberately slow, so callers use this to block concurrent
// attempts and to drive progress indication.
func (s *Service) Loading() bool {
	return s.loading.Load()
}

// Setup creates the vault: generates a fresh salt, derives the key from pin,
// stores salt and verifier, and leaves the vault unlocked. If any credentials
// already exist the call is refused with ErrAlreadySetUp; an existing salt is
// never regenerated, that would orphan every previously encrypted entry.
func (s *Service) Setup(ctx context.Context, pin string) error {
	if pin == "" {
		return ErrPINRequired
	}
	s.loading.Store(true)
	defer s.loading.Store(false)

	p, err := s.store.Get(ctx, s.userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	if p.VaultSet() {
		return ErrAlreadySetUp
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey([]byte(pin), salt)

	if err := s.store.SaveCredentials(ctx, s.userID, salt, cryptox.MakeVerifier(key)); err != nil {
		common.WipeByteArray(key)
		if errors.Is(err, profiles.ErrSaltExists) {
			return ErrAlreadySetUp
		}
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	s.session.Set(key)
	s.logger.Info(ctx, "vault set up")
	return nil
}

// Unlock verifies pin and, on success, holds the derived key in the session.
// It returns (false, nil) when the PIN is wrong and (false, ErrNotSetUp)
// when no vault exists; no derivation is attempted in that case.
//
// Accounts with a stored verifier take the strict path: the verifier is the
// sole correctness oracle. Accounts that predate the verifier take the
// legacy path, which probes one existing encrypted entry instead.
func (s *Service) Unlock(ctx context.Context, pin string) (bool, error) {
	if pin == "" {
		return false, ErrPINRequired
	}
	s.loading.Store(true)
	defer s.loading.Store(false)

	p, err := s.store.Get(ctx, s.userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, ErrNotSetUp
		}
		return false, fmt.Errorf("failed to read profile: %w", err)
	}
	if !p.VaultSet() {
		return false, ErrNotSetUp
	}

	if p.HasVerifier() {
		return s.unlockStrict(ctx, pin, p)
	}
	return s.unlockLegacy(ctx, pin, p)
}

func (s *Service) unlockStrict(ctx context.Context, pin string, p *profiles.Profile) (bool, error) {
	key := cryptox.DeriveKey([]byte(pin), p.EncryptionSalt)

	if subtle.ConstantTimeCompare(cryptox.MakeVerifier(key), p.PINVerifier) == 0 {
		common.WipeByteArray(key)
		s.logger.Info(ctx, "unlock rejected", "mode", "strict")
		return false, nil
	}

	s.session.Set(key)
	s.logger.Info(ctx, "vault unlocked", "mode", "strict")
	return true, nil
}

// unlockLegacy admits accounts that have a salt but no verifier. The only
// available oracle is whether existing ciphertext opens with the candidate
// key, so one canary entry is probed.
func (s *Service) unlockLegacy(ctx context.Context, pin string, p *profiles.Profile) (bool, error) {
	key := cryptox.DeriveKey([]byte(pin), p.EncryptionSalt)

	canary, err := s.canary.FirstEncrypted(ctx, s.userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Nothing to validate against: the first PIN offered becomes the
			// vault PIN and the account moves to strict mode.
			return s.migrate(ctx, key, "none")
		}
		common.WipeByteArray(key)
		return false, fmt.Errorf("failed to load canary entry: %w", err)
	}

	if _, derr := openContent(key, canary); derr != nil {
		// A failed probe cannot tell a wrong PIN from a corrupted entry.
		// The session is admitted anyway and the verifier stays unset, so a
		// bad guess is never locked in; unreadable entries render as
		// LockedPlaceholder and signal the mistake to the user.
		s.session.Set(key)
		s.logger.Warn(ctx, "canary did not decrypt, unlocking without migration", "mode", "legacy")
		return true, nil
	}

	return s.migrate(ctx, key, "verified")
}

// migrate stores the verifier for key and admits the session, completing the
// move from legacy to strict unlock.
func (s *Service) migrate(ctx context.Context, key []byte, canary string) (bool, error) {
	if err := s.store.SaveVerifier(ctx, s.userID, cryptox.MakeVerifier(key)); err != nil {
		common.WipeByteArray(key)
		return false, fmt.Errorf("failed to save verifier: %w", err)
	}
	s.session.Set(key)
	s.logger.Info(ctx, "vault unlocked", "mode", "legacy", "canary", canary)
	return true, nil
}

// Lock discards the session key. Persisted credentials and entries are
// untouched; a subsequent Unlock with the correct PIN restores access.
func (s *Service) Lock() {
	s.session.Clear()
	s.logger.Info(context.Background(), "vault locked")
}

// Encrypt seals plaintext with the session key and returns a base64 encoded
// nonce||ciphertext blob. It fails closed with ErrLocked when no key is
// held; plaintext is never returned as a fallback.
func (s *Service) Encrypt(plaintext string) (string, error) {
	key := s.session.Key()
	if key == nil {
		return "", ErrLocked
	}
	blob, err := cryptox.Encrypt(key, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt content: %w", err)
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens a blob produced by Encrypt and returns the plaintext. It
// returns ErrLocked when no session key is held, and a decode or decryption
// error when the blob is malformed or sealed under a different key.
func (s *Service) Decrypt(content string) (string, error) {
	key := s.session.Key()
	if key == nil {
		return "", ErrLocked
	}
	return openContent(key, content)
}

// DecryptContent prepares stored content for display. Plaintext passes
// through untouched. Encrypted content is decrypted, with any failure
// rendered as LockedPlaceholder; the raw blob is never shown.
func (s *Service) DecryptContent(content string, encrypted bool) string {
	if !encrypted {
		return content
	}
	plain, err := s.Decrypt(content)
	if err != nil {
		return LockedPlaceholder
	}
	return plain
}

func openContent(key []byte, content string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", fmt.Errorf("failed to decode content: %w", err)
	}
	plain, err := cryptox.Decrypt(key, blob)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
