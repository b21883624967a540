// Package repository implements the persistence collaborators over
// PostgreSQL. Documents keep their element lists as JSONB so the stored shape
// matches the wire shape exactly.
package repository

import "github.com/pkg/errors"

// ErrNotFound is returned when the requested record does not exist. Callers
// surface it without retrying.
var ErrNotFound = errors.New("not found")
