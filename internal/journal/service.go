package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/recoverylog/internal/logging"
)

// ErrInvalidMood is returned when a mood rating is outside 0..5.
var ErrInvalidMood = errors.New("mood must be between 0 and 5")

// decryptChunkSize bounds how many entries are decrypted between
// cancellation checks when preparing a list for display.
const decryptChunkSize = 25

// Vault is the subset of the vault service the journal read and write paths
// use. Encrypt is expected to fail closed while the vault is locked.
type Vault interface {
	IsSet(ctx context.Context) (bool, error)
	Encrypt(plaintext string) (string, error)
	DecryptContent(content string, encrypted bool) string
}

// Service owns the journal entry lifecycle: sealing content on the way into
// storage and preparing stored content for display on the way out.
type Service struct {
	repo   Repository
	vault  Vault
	logger logging.Logger
	userID string
}

func NewService(repo Repository, vault Vault, logger logging.Logger, userID string) *Service {
	return &Service{
		repo:   repo,
		vault:  vault,
		logger: logger.With("component", "journal"),
		userID: userID,
	}
}

// Add creates a new entry. While a vault exists the content is sealed before
// it is stored and the write fails closed when the vault is locked; without
// a vault the entry is stored as plaintext. The returned entry carries the
// original content so callers can display it without another round trip.
func (s *Service) Add(ctx context.Context, content string, mood int) (*Entry, error) {
	if mood < 0 || mood > 5 {
		return nil, ErrInvalidMood
	}

	stored, encrypted, err := s.seal(ctx, content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	e := &Entry{
		ID:          uuid.NewString(),
		UserID:      s.userID,
		Content:     stored,
		IsEncrypted: encrypted,
		Mood:        mood,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateOrUpdate(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	s.logger.Debug(ctx, "entry saved", "id", e.ID, "encrypted", encrypted)

	view := *e
	view.Content = content
	return &view, nil
}

// Update replaces the content and mood of an existing entry, sealing the new
// content under the current vault policy. CreatedAt is preserved.
func (s *Service) Update(ctx context.Context, id, content string, mood int) (*Entry, error) {
	if mood < 0 || mood > 5 {
		return nil, ErrInvalidMood
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}

	stored, encrypted, err := s.seal(ctx, content)
	if err != nil {
		return nil, err
	}

	e.Content = stored
	e.IsEncrypted = encrypted
	e.Mood = mood
	e.UpdatedAt = time.Now().UTC()
	if err := s.repo.CreateOrUpdate(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	s.logger.Debug(ctx, "entry updated", "id", e.ID, "encrypted", encrypted)

	view := *e
	view.Content = content
	return &view, nil
}

// Entry returns one entry with its content prepared for display.
func (s *Service) Entry(ctx context.Context, id string) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	e.Content = s.vault.DecryptContent(e.Content, e.IsEncrypted)
	return e, nil
}

// Entries returns the user's entries, newest first, with content prepared
// for display. Decryption runs in chunks with a cancellation check between
// chunks so a large history cannot wedge the caller.
func (s *Service) Entries(ctx context.Context) ([]Entry, error) {
	list, err := s.repo.ListByUser(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	for start := 0; start < len(list); start += decryptChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+decryptChunkSize, len(list))
		for i := start; i < end; i++ {
			list[i].Content = s.vault.DecryptContent(list[i].Content, list[i].IsEncrypted)
		}
	}
	return list, nil
}

// Delete removes an entry by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	s.logger.Debug(ctx, "entry deleted", "id", id)
	return nil
}

// Count returns the number of entries the user has.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountByUser(ctx, s.userID)
}

// seal decides how content is stored: sealed through the vault whenever one
// exists, plaintext otherwise. A locked vault surfaces as the vault's
// ErrLocked from Encrypt.
func (s *Service) seal(ctx context.Context, content string) (string, bool, error) {
	set, err := s.vault.IsSet(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to check vault state: %w", err)
	}
	if !set {
		return content, false, nil
	}
	sealed, err := s.vault.Encrypt(content)
	if err != nil {
		return "", false, err
	}
	return sealed, true, nil
}
