package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
	"github.com/tonvq/ketoan_backend/internal/dto"
)

// LedgerReaderSvc is the read surface reporting/tax/inspection modules
// consume instead of re-scanning journal lines.
type LedgerReaderSvc interface {
	// BalanceAsOf returns opening, turnovers and the computed closing
	// balance for (account, period).
	BalanceAsOf(ctx context.Context, accountCode string, periodID int64) (*dto.BalanceResponse, error)

	// TrialBalance lists the aggregate of every account with movement in
	// the period.
	TrialBalance(ctx context.Context, periodID int64) (*dto.TrialBalanceResponse, error)
}

// LedgerWriterSvc defines repair and opening-balance maintenance.
type LedgerWriterSvc interface {
	// Rebuild recomputes the (account, period) row from the journal line
	// table, the authoritative source of truth.
	Rebuild(ctx context.Context, accountCode string, periodID int64, userID string) (*domain.LedgerBalance, error)

	// SetOpeningBalance sets the opening balance of (account, period).
	SetOpeningBalance(ctx context.Context, accountCode string, periodID int64, opening decimal.Decimal, userID string) error
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
