package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// LedgerReader defines read operations over the aggregated general ledger.
type LedgerReader interface {
	// FindBalance retrieves the aggregate row for (account, period).
	// A missing row means no postings yet and is returned as a zero-valued
	// balance, not an error.
	FindBalance(ctx context.Context, accountCode string, periodID int64) (*domain.LedgerBalance, error)

	// ListBalancesByPeriod retrieves every aggregate row of a period ordered
	// by account code (trial balance input).
	ListBalancesByPeriod(ctx context.Context, periodID int64) ([]domain.LedgerBalance, error)
}

// LedgerWriter defines maintenance operations on the aggregate. Regular
// turnover updates happen inside the document repository's approve/cancel
// transactions; these methods cover repair and opening balances.
type LedgerWriter interface {
	// RebuildBalance recomputes the turnovers of (account, period) from
	// scratch by summing the lines of approved documents posted in the
	// period. The opening balance is preserved. Returns the rebuilt row.
	RebuildBalance(ctx context.Context, accountCode string, periodID int64) (*domain.LedgerBalance, error)

	// SetOpeningBalance upserts the opening balance of (account, period)
	// without touching turnovers.
	SetOpeningBalance(ctx context.Context, accountCode string, periodID int64, opening decimal.Decimal) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
