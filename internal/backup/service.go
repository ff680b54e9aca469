// Package backup snapshots the journal to S3-compatible object storage and
// restores it back. Snapshots are sealed with the vault key whenever a vault
// exists, so plaintext legacy entries and profile data never leave the
// machine unprotected.
package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/recoverylog/internal/common"
	"github.com/dmitrijs2005/recoverylog/internal/config"
	"github.com/dmitrijs2005/recoverylog/internal/dbx"
	"github.com/dmitrijs2005/recoverylog/internal/filex"
	"github.com/dmitrijs2005/recoverylog/internal/journal"
	"github.com/dmitrijs2005/recoverylog/internal/logging"
	"github.com/dmitrijs2005/recoverylog/internal/netx"
	"github.com/dmitrijs2005/recoverylog/internal/profiles"
	"github.com/dmitrijs2005/recoverylog/internal/storage"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const snapshotVersion = 1

// Vault is the subset of the vault service used to seal and open snapshots.
type Vault interface {
	IsSet(ctx context.Context) (bool, error)
	Encrypt(plaintext string) (string, error)
	Decrypt(content string) (string, error)
}

// envelope is the document actually stored in the bucket. Encrypted marks
// Payload as a sealed blob rather than inline snapshot JSON.
type envelope struct {
	Encrypted bool   `json:"encrypted"`
	Payload   string `json:"payload"`
}

// snapshot is the logical backup document carried in the envelope payload.
// Entry content is included exactly as stored, ciphertext stays ciphertext.
type snapshot struct {
	Version   int              `json:"version"`
	UserID    string           `json:"user_id"`
	CreatedAt time.Time        `json:"created_at"`
	Profile   *snapshotProfile `json:"profile,omitempty"`
	Entries   []snapshotEntry  `json:"entries"`
}

type snapshotProfile struct {
	EncryptionSalt []byte `json:"encryption_salt"`
	PINVerifier    []byte `json:"pin_verifier"`
}

type snapshotEntry struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	IsEncrypted bool      `json:"is_encrypted"`
	Mood        int       `json:"mood"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Service pushes journal snapshots to object storage and loads them back.
type Service struct {
	db      *sql.DB
	manager storage.RepositoryManager
	vault   Vault
	cfg     *config.Config
	logger  logging.Logger
}

func NewService(db *sql.DB, manager storage.RepositoryManager, vault Vault, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		db:      db,
		manager: manager,
		vault:   vault,
		cfg:     cfg,
		logger:  logger.With("component", "backup"),
	}
}

// GetRandomStorageKey builds a collision-free object key for a new snapshot,
// partitioned by user and date.
func GetRandomStorageKey(userID string) string {
	d := time.Now()
	return fmt.Sprintf("backups/%s/%d/%d/%d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Service) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.S3AccessKey,
			s.cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// Snapshot gathers the profile and all entries, seals the document when a
// vault exists and uploads it via a presigned PUT. A copy is also written to
// the export directory; failure to write it only logs a warning. Returns the
// object key and the local path (empty when the local copy failed).
//
// With a vault set but locked, the call fails closed instead of uploading
// plaintext.
func (s *Service) Snapshot(ctx context.Context) (string, string, error) {
	doc, err := s.collect(ctx)
	if err != nil {
		return "", "", err
	}

	body, err := s.sealSnapshot(ctx, doc)
	if err != nil {
		return "", "", err
	}

	key := GetRandomStorageKey(s.cfg.UserID)
	url, err := s.presignPut(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	if err := netx.UploadToPresignedURL(ctx, url, body); err != nil {
		return "", "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	localPath, err := s.writeLocalCopy(key, body)
	if err != nil {
		s.logger.Warn(ctx, "failed to write local snapshot copy", "error", err)
		localPath = ""
	}

	s.logger.Info(ctx, "snapshot uploaded", "key", key, "entries", len(doc.Entries))
	return key, localPath, nil
}

// Restore downloads the snapshot at key and loads it into the store.
// Profile credentials are restored first; an existing salt is never
// overwritten, the stored one always wins. Entries are upserted in a single
// transaction. Returns the number of restored entries.
func (s *Service) Restore(ctx context.Context, key string) (int, error) {
	url, err := s.presignGet(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to presign download: %w", err)
	}
	body, err := netx.DownloadFromPresignedURL(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("failed to download snapshot: %w", err)
	}

	doc, err := s.openSnapshot(body)
	if err != nil {
		return 0, err
	}

	if doc.Profile != nil {
		err := s.manager.Profiles(s.db).SaveCredentials(ctx, s.cfg.UserID,
			doc.Profile.EncryptionSalt, doc.Profile.PINVerifier)
		if err != nil && !errors.Is(err, profiles.ErrSaltExists) {
			return 0, fmt.Errorf("failed to restore credentials: %w", err)
		}
		if errors.Is(err, profiles.ErrSaltExists) {
			s.logger.Warn(ctx, "store already has credentials, keeping them")
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.manager.Entries(tx)
		for _, se := range doc.Entries {
			e := &journal.Entry{
				ID:          se.ID,
				UserID:      s.cfg.UserID,
				Content:     se.Content,
				IsEncrypted: se.IsEncrypted,
				Mood:        se.Mood,
				CreatedAt:   se.CreatedAt,
				UpdatedAt:   se.UpdatedAt,
			}
			if err := repo.CreateOrUpdate(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to restore entries: %w", err)
	}

	s.logger.Info(ctx, "snapshot restored", "key", key, "entries", len(doc.Entries))
	return len(doc.Entries), nil
}

// ShareURL returns a time-limited presigned GET URL for an uploaded
// snapshot, so it can be fetched from another machine without credentials.
func (s *Service) ShareURL(ctx context.Context, key string) (string, error) {
	return s.presignGet(ctx, key)
}

// collect reads the profile and the stored entries into a snapshot document.
func (s *Service) collect(ctx context.Context) (*snapshot, error) {
	doc := &snapshot{
		Version:   snapshotVersion,
		UserID:    s.cfg.UserID,
		CreatedAt: time.Now().UTC(),
	}

	p, err := s.manager.Profiles(s.db).Get(ctx, s.cfg.UserID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if p != nil {
		doc.Profile = &snapshotProfile{
			EncryptionSalt: p.EncryptionSalt,
			PINVerifier:    p.PINVerifier,
		}
	}

	entries, err := s.manager.Entries(s.db).ListByUser(ctx, s.cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, snapshotEntry{
			ID:          e.ID,
			Content:     e.Content,
			IsEncrypted: e.IsEncrypted,
			Mood:        e.Mood,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		})
	}
	return doc, nil
}

// sealSnapshot marshals doc and wraps it in the upload envelope, sealed with
// the vault key when a vault exists.
func (s *Service) sealSnapshot(ctx context.Context, doc *snapshot) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	env := envelope{Payload: string(raw)}

	set, err := s.vault.IsSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check vault state: %w", err)
	}
	if set {
		sealed, err := s.vault.Encrypt(string(raw))
		if err != nil {
			return nil, err
		}
		env = envelope{Encrypted: true, Payload: sealed}
	}

	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return body, nil
}

// openSnapshot unwraps an uploaded envelope back into a snapshot document,
// decrypting the payload when it was sealed.
func (s *Service) openSnapshot(body []byte) (*snapshot, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse envelope: %w", err)
	}

	payload := env.Payload
	if env.Encrypted {
		plain, err := s.vault.Decrypt(env.Payload)
		if err != nil {
			return nil, err
		}
		payload = plain
	}

	var doc snapshot
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if doc.Version > snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}
	return &doc, nil
}

func (s *Service) presignPut(ctx context.Context, key string) (string, error) {
	pc, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.cfg.S3Bucket
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *Service) presignGet(ctx context.Context, key string) (string, error) {
	pc, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.cfg.S3Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// writeLocalCopy drops the uploaded body into the export directory under the
// snapshot's file name.
func (s *Service) writeLocalCopy(key string, body []byte) (string, error) {
	dir, err := filex.EnsureSubDir(s.cfg.ExportDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(key))
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
