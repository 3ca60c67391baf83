package repository

import (
	"context"

	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/domain/enum"
)

// SequenceRepository stores per-(document type, month) counters
type SequenceRepository interface {
	// Increment bumps the counter and returns the new value. ok is false when
	// no counter row exists yet for the pair.
	Increment(ctx context.Context, docType enum.DocumentType, period string) (value int64, ok bool, err error)
	// Create inserts a new counter row. Returns ErrDuplicateKey when a
	// concurrent caller created it first.
	Create(ctx context.Context, seq *entity.DocumentSequence) error
	// LatestNumber returns the greatest stored document number of docType
	// starting with prefix, "" if none. Used to seed a fresh counter.
	LatestNumber(ctx context.Context, docType enum.DocumentType, prefix string) (string, error)
	// Raise moves an existing counter up to floor. Counters already at or
	// above floor and missing rows are left alone.
	Raise(ctx context.Context, docType enum.DocumentType, period string, floor int64) error
}
