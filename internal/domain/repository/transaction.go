package repository

import (
	"context"
	"errors"
)

// ErrDuplicateKey is returned by repositories when a write violates a unique
// constraint, whatever the underlying driver.
var ErrDuplicateKey = errors.New("duplicate key")

// Transactor runs fn inside a single database transaction. Repository calls
// made with the ctx passed to fn join that transaction; a nested call reuses
// the outer one. Returning an error from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
