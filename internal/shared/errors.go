package shared

import "errors"

// Sentinel errors shared across the auth and session layers. Domain
// packages (documents, contacts, transactions, withholding) carry their
// own ErrNotFound so handlers can map them independently.
var (
	ErrNotFound           = errors.New("accountee: not found")
	ErrInvalidCredentials = errors.New("accountee: invalid credentials")
	ErrCSRFTokenMissing   = errors.New("accountee: csrf token missing")
	ErrCSRFTokenMismatch  = errors.New("accountee: csrf token mismatch")
)
