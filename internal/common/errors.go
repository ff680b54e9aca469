// Package common defines shared sentinel errors and small helpers for
// random material and secure memory wiping, used across RecoveryLog
// storage and service layers. Callers should match errors with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
)
