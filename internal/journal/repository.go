package journal

import (
	"context"
)

// Repository persists journal entries.
//
// GetByID, DeleteByID and FirstEncrypted return common.ErrorNotFound when no
// matching row exists. FirstEncrypted is the canary query used by the legacy
// vault unlock: it yields the content of one encrypted entry (the oldest),
// which is the only oracle for PIN correctness on accounts without a
// verifier.
type Repository interface {
	CreateOrUpdate(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id string) (*Entry, error)
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	DeleteByID(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
	FirstEncrypted(ctx context.Context, userID string) (string, error)
}
