package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/recoverylog/internal/backup"
	"github.com/dmitrijs2005/recoverylog/internal/config"
	"github.com/dmitrijs2005/recoverylog/internal/journal"
	"github.com/dmitrijs2005/recoverylog/internal/logging"
	"github.com/dmitrijs2005/recoverylog/internal/storage"
	"github.com/dmitrijs2005/recoverylog/internal/vault"
)

// VaultService is the part of the vault the CLI drives directly.
type VaultService interface {
	IsSet(ctx context.Context) (bool, error)
	IsUnlocked() bool
	Setup(ctx context.Context, pin string) error
	Unlock(ctx context.Context, pin string) (bool, error)
	Lock()
}

// JournalService is the part of the journal the CLI drives directly.
type JournalService interface {
	Add(ctx context.Context, content string, mood int) (*journal.Entry, error)
	Update(ctx context.Context, id, content string, mood int) (*journal.Entry, error)
	Entry(ctx context.Context, id string) (*journal.Entry, error)
	Entries(ctx context.Context) ([]journal.Entry, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// BackupService is the part of the backup service the CLI drives directly.
type BackupService interface {
	Snapshot(ctx context.Context) (string, string, error)
	Restore(ctx context.Context, key string) (int, error)
	ShareURL(ctx context.Context, key string) (string, error)
}

type App struct {
	config         *config.Config
	store          *storage.Store
	vaultService   VaultService
	journalService JournalService
	backupService  BackupService
	reader         *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	store, err := storage.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	manager, err := storage.NewRepositoryManager(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	vs := vault.NewService(store.Profiles, store.Entries, logger, c.UserID)
	js := journal.NewService(store.Entries, vs, logger, c.UserID)
	bs := backup.NewService(store.DB, manager, vs, c, logger)

	return &App{
		config:         c,
		store:          store,
		vaultService:   vs,
		journalService: js,
		backupService:  bs,
		reader:         bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	log.Println("Welcome to the recovery log (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isUnlocked() bool {
	return a.vaultService.IsUnlocked()
}

func (a *App) getStatus() string {
	s := ""
	if a.config.UserID != "" {
		s = a.config.UserID + " "
	}
	if a.isUnlocked() {
		s = s + "unlocked"
	} else {
		s = s + "locked"
	}
	return fmt.Sprintf("(%s)", s)
}
