package repository

import (
	"context"
	"errors"
)

// ErrDuplicateKey wraps unique constraint violations from any driver
var ErrDuplicateKey = errors.New("duplicate key")

// Transactor runs fn in one database transaction. Repositories called with
// the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
