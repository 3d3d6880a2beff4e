package repositories

import (
	"context"
	"time"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods.
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its identifier.
	FindPeriodByID(ctx context.Context, periodID int64) (*domain.AccountingPeriod, error)

	// FindPeriodCovering retrieves the period whose date range contains the
	// given date, or apperrors.ErrNotFound when no period covers it.
	FindPeriodCovering(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods of a year ordered by month.
	ListPeriods(ctx context.Context, year int) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods.
type PeriodWriter interface {
	// SavePeriod inserts a single period.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) (*domain.AccountingPeriod, error)

	// SavePeriods inserts several periods atomically (bulk year initialization).
	SavePeriods(ctx context.Context, periods []domain.AccountingPeriod) ([]domain.AccountingPeriod, error)

	// UpdatePeriodStatus flips the status of a period. The expected current
	// status is checked inside the same statement so concurrent togglers
	// cannot both succeed; a mismatch returns apperrors.ErrInvalidState.
	UpdatePeriodStatus(ctx context.Context, periodID int64, from, to domain.PeriodStatus, updatedBy string, updatedAt time.Time) error
}

// PeriodRepositoryFacade combines all period repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
