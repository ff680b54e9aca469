package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/recoverylog/internal/common"
	"github.com/dmitrijs2005/recoverylog/internal/vault"
)

// getSimpleText and getPIN are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPIN = GetPIN

// Status prints the vault state and the number of stored entries.
func (a *App) Status(ctx context.Context) error {
	set, err := a.vaultService.IsSet(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	switch {
	case !set:
		fmt.Println("Vault: not set up, entries are stored as plain text")
	case a.isUnlocked():
		fmt.Println("Vault: unlocked")
	default:
		fmt.Println("Vault: locked")
	}

	count, err := a.journalService.Count(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Entries: %d\n", count)
	return nil
}

// Setup asks for a new PIN twice and initializes the vault with it.
//
// On success the vault is left unlocked so the user can start writing
// right away. Both PIN buffers are securely wiped before returning.
func (a *App) Setup(ctx context.Context) error {
	pin, err := getPIN(os.Stdout, "Enter new PIN: ")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer common.WipeByteArray(pin)

	confirm, err := getPIN(os.Stdout, "Confirm PIN: ")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pin, confirm) {
		log.Printf("PINs do not match, vault was not set up")
		return nil
	}

	if err := a.vaultService.Setup(ctx, string(pin)); err != nil {
		if errors.Is(err, vault.ErrAlreadySetUp) {
			log.Printf("Vault is already set up, use 'unlock'")
			return nil
		}
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println("Vault is ready. Entries are now encrypted with your PIN.")
	return nil
}

// Unlock asks for the PIN and tries to unlock the vault. A wrong PIN is
// reported to the user and is not an error.
func (a *App) Unlock(ctx context.Context) error {
	pin, err := getPIN(os.Stdout, "Enter PIN: ")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	defer common.WipeByteArray(pin)

	ok, err := a.vaultService.Unlock(ctx, string(pin))
	if err != nil {
		if errors.Is(err, vault.ErrNotSetUp) {
			log.Printf("Vault is not set up yet, run 'setup' first")
			return nil
		}
		log.Printf("error: %v", err)
		return err
	}
	if !ok {
		log.Printf("Wrong PIN")
		return nil
	}

	fmt.Println("Vault unlocked")
	return nil
}

// Lock drops the in-memory vault key. Stored entries stay encrypted.
func (a *App) Lock(ctx context.Context) error {
	a.vaultService.Lock()
	fmt.Println("Vault locked")
	return nil
}
