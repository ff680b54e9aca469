package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recoverylog/internal/common"
	"github.com/dmitrijs2005/recoverylog/internal/dbx"
)

// PostgresRepository implements Repository over the hosted PostgreSQL store.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Profile, error) {
	query := `SELECT user_id, encryption_salt, pin_verifier, created_at, updated_at
	          FROM profiles WHERE user_id = $1`

	p := &Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.UserID, &p.EncryptionSalt, &p.PINVerifier, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// SaveCredentials writes salt and verifier in one transaction, refusing to
// overwrite an existing salt. The row lock keeps concurrent setups from
// racing past the guard.
func (r *PostgresRepository) SaveCredentials(ctx context.Context, userID string, salt, verifier []byte) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var existing []byte
		err := tx.QueryRowContext(ctx,
			`SELECT encryption_salt FROM profiles WHERE user_id = $1 FOR UPDATE`, userID).Scan(&existing)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check existing salt: %w", err)
		}
		if len(existing) > 0 {
			return ErrSaltExists
		}

		now := time.Now().UTC()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO profiles (user_id, encryption_salt, pin_verifier, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE SET
				encryption_salt = excluded.encryption_salt,
				pin_verifier = excluded.pin_verifier,
				updated_at = excluded.updated_at
		`, userID, salt, verifier, now, now)
		if err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) SaveVerifier(ctx context.Context, userID string, verifier []byte) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, pin_verifier, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			pin_verifier = excluded.pin_verifier,
			updated_at = excluded.updated_at
	`, userID, verifier, now, now)
	if err != nil {
		return fmt.Errorf("failed to save verifier: %w", err)
	}
	return nil
}
