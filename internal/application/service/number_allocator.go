package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/crm-billing/internal/domain/entity"
	"github.com/sangkips/crm-billing/internal/domain/enum"
	"github.com/sangkips/crm-billing/internal/domain/repository"
	"github.com/sangkips/crm-billing/pkg/apperror"
	"go.uber.org/zap"
)

// SequenceLocker serializes allocations of one sequence across processes
type SequenceLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// NumberAllocator hands out running numbers of the form TYPE-YYYYMM-NNNN.
// The counter restarts every calendar month.
type NumberAllocator struct {
	seqRepo    repository.SequenceRepository
	transactor repository.Transactor
	locker     SequenceLocker
	logger     *zap.Logger
	retries    int
	loc        *time.Location
	now        func() time.Time
}

// NewNumberAllocator creates a new number allocator. loc is the calendar
// the month boundary is taken in.
func NewNumberAllocator(
	seqRepo repository.SequenceRepository,
	transactor repository.Transactor,
	locker SequenceLocker,
	logger *zap.Logger,
	retries int,
	loc *time.Location,
) *NumberAllocator {
	if retries < 1 {
		retries = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	return &NumberAllocator{
		seqRepo:    seqRepo,
		transactor: transactor,
		locker:     locker,
		logger:     logger.Named("allocator"),
		retries:    retries,
		loc:        loc,
		now:        time.Now,
	}
}

// Now returns the allocator's current time
func (a *NumberAllocator) Now() time.Time {
	return a.now()
}

// Today returns the current date in the allocator's calendar
func (a *NumberAllocator) Today() time.Time {
	t := a.now().In(a.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, a.loc)
}

func (a *NumberAllocator) period() string {
	return a.now().In(a.loc).Format("200601")
}

// Allocate returns the next number for docType. It must run inside the
// caller's transaction so the number and the document commit together.
func (a *NumberAllocator) Allocate(ctx context.Context, docType enum.DocumentType) (string, error) {
	if !docType.IsValid() {
		return "", fmt.Errorf("unknown document type %q", docType)
	}
	period := a.period()

	next, ok, err := a.seqRepo.Increment(ctx, docType, period)
	if err != nil {
		return "", err
	}
	if !ok {
		// first number of the month: continue after anything already stored
		latest, err := a.seqRepo.LatestNumber(ctx, docType, documentPrefix(docType, period))
		if err != nil {
			return "", err
		}
		last, _ := ParseDocumentSequence(latest)
		next = last + 1
		if err := a.seqRepo.Create(ctx, &entity.DocumentSequence{
			DocType:   docType,
			Period:    period,
			LastValue: next,
		}); err != nil {
			return "", err
		}
	}

	return FormatDocumentNumber(docType, period, next), nil
}

// WithAllocation runs fn in a transaction, retrying the whole unit of work
// when a unique constraint fires. fn is expected to call Allocate.
func (a *NumberAllocator) WithAllocation(ctx context.Context, docType enum.DocumentType, fn func(ctx context.Context) error) error {
	key := "sequence:" + docType.Prefix() + ":" + a.period()
	release, err := a.locker.Acquire(ctx, key)
	if err != nil {
		// the unique constraints still hold without the lock
		a.logger.Warn("sequence lock unavailable, continuing without it",
			zap.String("key", key), zap.Error(err))
	} else {
		defer release()
	}

	for attempt := 1; attempt <= a.retries; attempt++ {
		err := a.transactor.WithinTransaction(ctx, fn)
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return err
		}
		a.logger.Warn("document number conflict, retrying",
			zap.String("doc_type", docType.String()),
			zap.Int("attempt", attempt))

		if err := a.catchUp(ctx, docType); err != nil {
			a.logger.Warn("sequence catch-up failed",
				zap.String("doc_type", docType.String()), zap.Error(err))
		}
	}

	a.logger.Error("document number allocation exhausted",
		zap.String("doc_type", docType.String()),
		zap.Int("attempts", a.retries))
	return apperror.ErrAllocationExhausted
}

// catchUp moves the period counter past the highest stored number. Numbers
// written by other writers leave the counter behind, and a rolled back
// attempt would otherwise hand out the same taken number again.
func (a *NumberAllocator) catchUp(ctx context.Context, docType enum.DocumentType) error {
	period := a.period()
	return a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		latest, err := a.seqRepo.LatestNumber(ctx, docType, documentPrefix(docType, period))
		if err != nil {
			return err
		}
		last, ok := ParseDocumentSequence(latest)
		if !ok {
			return nil
		}
		return a.seqRepo.Raise(ctx, docType, period, last)
	})
}

func documentPrefix(docType enum.DocumentType, period string) string {
	return docType.Prefix() + "-" + period + "-"
}

// FormatDocumentNumber renders a running number, e.g. IV-202401-0001
func FormatDocumentNumber(docType enum.DocumentType, period string, n int64) string {
	return fmt.Sprintf("%s%04d", documentPrefix(docType, period), n)
}

// ParseDocumentSequence extracts the trailing counter of a running number.
// It reports false for anything it cannot parse.
func ParseDocumentSequence(number string) (int64, bool) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, false
	}
	n, err := strconv.ParseInt(number[idx+1:], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
