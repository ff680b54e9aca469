package vault

import "errors"

var (
	// ErrNotSetUp means no vault exists for the user yet.
	ErrNotSetUp = errors.New("vault is not set up")
	// ErrAlreadySetUp means a vault already exists and Setup was refused.
	ErrAlreadySetUp = errors.New("vault is already set up")
	// ErrLocked means the operation needs a session key and none is held.
	ErrLocked = errors.New("vault is locked")
	// ErrPINRequired means an empty PIN was supplied.
	ErrPINRequired = errors.New("pin is required")
)

// LockedPlaceholder is shown in place of encrypted content that cannot be
// decrypted, either because the vault is locked or the blob does not open
// with the session key.
const LockedPlaceholder = "[locked]"
