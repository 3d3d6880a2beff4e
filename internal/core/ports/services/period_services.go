package services

import (
	"context"
	"time"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// PeriodReaderSvc defines the read surface of the period registry.
type PeriodReaderSvc interface {
	// PeriodCovering returns the period containing the given date, or
	// apperrors.ErrNotFound when none does. No side effects.
	PeriodCovering(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// IsLocked reports whether the period covering the date is locked.
	// A date covered by no period is not locked.
	IsLocked(ctx context.Context, date time.Time) (bool, error)

	// GetPeriod retrieves a period by id.
	GetPeriod(ctx context.Context, periodID int64) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods of a year ordered by month.
	ListPeriods(ctx context.Context, year int) ([]domain.AccountingPeriod, error)
}

// PeriodWriterSvc defines the mutation surface of the period registry.
type PeriodWriterSvc interface {
	// CreatePeriod creates one open period for (year, month).
	CreatePeriod(ctx context.Context, year, month int, creatorUserID string) (*domain.AccountingPeriod, error)

	// InitializeYear bulk-creates the 12 open periods of a year.
	InitializeYear(ctx context.Context, year int, creatorUserID string) ([]domain.AccountingPeriod, error)

	// Lock freezes a period. Locking an already-locked period fails with
	// InvalidStateError so callers cannot mask a logic error.
	Lock(ctx context.Context, periodID int64, userID string) (*domain.AccountingPeriod, error)

	// Unlock reopens a period. Unlocking an already-open period fails with
	// InvalidStateError.
	Unlock(ctx context.Context, periodID int64, userID string) (*domain.AccountingPeriod, error)
}

// PeriodSvcFacade combines all period service interfaces.
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
}
