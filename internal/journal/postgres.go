package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recoverylog/internal/common"
	"github.com/dmitrijs2005/recoverylog/internal/dbx"
)

// PostgresRepository implements Repository over the hosted PostgreSQL store.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateOrUpdate(ctx context.Context, e *Entry) error {
	query := `INSERT INTO entries (id, user_id, content, is_encrypted, mood, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET content = excluded.content,
				is_encrypted = excluded.is_encrypted,
				mood = excluded.mood,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Content, e.IsEncrypted, e.Mood, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Entry, error) {
	query := `SELECT id, user_id, content, is_encrypted, mood, created_at, updated_at
			FROM entries WHERE id = $1`

	e := &Entry{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &e.UserID, &e.Content, &e.IsEncrypted, &e.Mood, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	query := `SELECT id, user_id, content, is_encrypted, mood, created_at, updated_at
			FROM entries WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var item Entry
		if err := rows.Scan(&item.ID, &item.UserID, &item.Content, &item.IsEncrypted,
			&item.Mood, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) FirstEncrypted(ctx context.Context, userID string) (string, error) {
	query := `SELECT content FROM entries
			WHERE user_id = $1 AND is_encrypted = TRUE
			ORDER BY created_at ASC LIMIT 1`

	var content string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("failed to get canary entry: %w", err)
	}
	return content, nil
}
