package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Export uploads a snapshot of the journal to object storage and keeps a
// local copy in the export directory. While a vault exists the snapshot is
// sealed with the vault key, so the upload is refused when the vault is
// locked.
func (a *App) Export(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.BackupTimeout)
	defer cancel()

	key, localPath, err := a.backupService.Snapshot(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("Snapshot uploaded: %s\n", key)
	if localPath != "" {
		fmt.Printf("Local copy: %s\n", localPath)
	}
	return nil
}

// Restore downloads a snapshot by its storage key and merges it into the
// local journal.
func (a *App) Restore(ctx context.Context) error {
	key, err := getSimpleText(a.reader, "Enter snapshot key to restore", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.BackupTimeout)
	defer cancel()

	count, err := a.backupService.Restore(ctx, key)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("Restored %d entries\n", count)
	return nil
}

// Share prints a time-limited download link for a snapshot.
func (a *App) Share(ctx context.Context) error {
	key, err := getSimpleText(a.reader, "Enter snapshot key to share", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	url, err := a.backupService.ShareURL(ctx, key)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println(url)
	return nil
}
