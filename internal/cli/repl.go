package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isUnlocked() bool
	Status(ctx context.Context) error
	Setup(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	AddEntry(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error
	Export(ctx context.Context) error
	Restore(ctx context.Context) error
	Share(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the recovery log CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Vault locked:
//	  - help           — show available commands
//	  - status         — show vault state and entry count
//	  - setup          — create the vault with a new PIN
//	  - unlock         — unlock the vault
//	  - list           — list entries (encrypted bodies show a placeholder)
//	  - export         — upload a snapshot to object storage
//	  - restore        — restore a snapshot by key
//	  - exit | quit    — leave the program
//
//	Vault unlocked:
//	  - help           — show available commands
//	  - status         — show vault state and entry count
//	  - add            — add a journal entry
//	  - list           — list entries
//	  - show           — show a single entry (interactive ID prompt)
//	  - edit           — edit an entry
//	  - delete         — delete an entry
//	  - lock           — drop the in-memory key
//	  - export         — upload a snapshot to object storage
//	  - restore        — restore a snapshot by key
//	  - share          — print a download link for a snapshot
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rlog> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isUnlocked() {
				printlnFn("Available commands: (l)ist, add, show, edit, delete, lock, status, export, restore, share, exit")
			} else {
				printlnFn("Available commands: (l)ist, status, setup, unlock, export, restore, exit")
			}

		case "status":
			_ = a.Status(ctx)

		case "setup":
			_ = a.Setup(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "add":
			_ = a.AddEntry(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "export":
			_ = a.Export(ctx)

		case "restore":
			_ = a.Restore(ctx)

		case "share":
			_ = a.Share(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
