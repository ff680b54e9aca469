// Package cli provides the interactive recovery log command-line client.
//
// It wires configuration, local storage, the encryption vault, and an
// interactive REPL for day-to-day journaling. Typical flow: set up or unlock
// the vault with a PIN, then add and review entries.
//
// Key features:
//   - Set up / Unlock / Lock the vault
//   - Add / List / Show / Edit / Delete journal entries
//   - Export snapshots to object storage, restore and share them
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
