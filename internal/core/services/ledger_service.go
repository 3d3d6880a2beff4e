package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
	portssvc "github.com/tonvq/ketoan_backend/internal/core/ports/services"
	"github.com/tonvq/ketoan_backend/internal/dto"
	"github.com/tonvq/ketoan_backend/internal/middleware"
)

// ledgerService exposes the incrementally maintained (account, period)
// aggregates and the repair path that recomputes them from journal lines.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	periodRepo portsrepo.PeriodRepositoryFacade
	accountSvc portssvc.ChartValidatorSvc
	auditRepo  portsrepo.AuditRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, periodRepo portsrepo.PeriodRepositoryFacade, accountSvc portssvc.ChartValidatorSvc, auditRepo portsrepo.AuditRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		periodRepo: periodRepo,
		accountSvc: accountSvc,
		auditRepo:  auditRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// BalanceAsOf returns the aggregate for (account, period). An account with
// no movement and no opening balance yields an all-zero row.
func (s *ledgerService) BalanceAsOf(ctx context.Context, accountCode string, periodID int64) (*dto.BalanceResponse, error) {
	if _, err := s.accountSvc.NatureOf(ctx, accountCode); err != nil {
		return nil, err
	}
	if _, err := s.periodRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}

	balance, err := s.ledgerRepo.FindBalance(ctx, accountCode, periodID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToBalanceResponse(balance)
	return &resp, nil
}

// TrialBalance lists the aggregates of every account with a ledger row in
// the period, ordered by account code.
func (s *ledgerService) TrialBalance(ctx context.Context, periodID int64) (*dto.TrialBalanceResponse, error) {
	if _, err := s.periodRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}

	balances, err := s.ledgerRepo.ListBalancesByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TrialBalanceResponse{
		PeriodID: periodID,
		Rows:     make([]dto.BalanceResponse, 0, len(balances)),
	}
	for i := range balances {
		resp.Rows = append(resp.Rows, dto.ToBalanceResponse(&balances[i]))
	}
	return resp, nil
}

// Rebuild recomputes the turnovers of (account, period) from the approved
// journal lines, the authoritative source. The opening balance is kept.
func (s *ledgerService) Rebuild(ctx context.Context, accountCode string, periodID int64, userID string) (*domain.LedgerBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountSvc.NatureOf(ctx, accountCode); err != nil {
		return nil, err
	}
	if _, err := s.periodRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}

	balance, err := s.ledgerRepo.RebuildBalance(ctx, accountCode, periodID)
	if err != nil {
		logger.Error("failed to rebuild ledger balance",
			slog.String("account_code", accountCode), slog.Int64("period_id", periodID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("ledger balance rebuilt",
		slog.String("account_code", accountCode),
		slog.Int64("period_id", periodID),
		slog.String("debit_turnover", balance.DebitTurnover.String()),
		slog.String("credit_turnover", balance.CreditTurnover.String()),
		slog.String("rebuilt_by", userID))
	return balance, nil
}

// SetOpeningBalance sets the opening balance of (account, period). Used
// when onboarding a company mid-year and at year rollover. Openings live
// on postable accounts only; parent totals derive from their children.
func (s *ledgerService) SetOpeningBalance(ctx context.Context, accountCode string, periodID int64, opening decimal.Decimal, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountSvc.IsPostable(ctx, accountCode); err != nil {
		return err
	}
	if _, err := s.periodRepo.FindPeriodByID(ctx, periodID); err != nil {
		return err
	}

	if err := s.ledgerRepo.SetOpeningBalance(ctx, accountCode, periodID, opening); err != nil {
		logger.Error("failed to set opening balance",
			slog.String("account_code", accountCode), slog.Int64("period_id", periodID), slog.String("error", err.Error()))
		return err
	}

	if s.auditRepo != nil {
		event := domain.AuditEvent{
			EntityType: "ledger_balance",
			EntityID:   fmt.Sprintf("%s:%d", accountCode, periodID),
			Action:     domain.AuditActionUpdated,
			ActorID:    userID,
			Detail:     fmt.Sprintf("opening balance set to %s", opening.String()),
			OccurredAt: time.Now(),
		}
		if err := s.auditRepo.RecordEvent(ctx, event); err != nil {
			logger.Warn("failed to record audit event", slog.String("account_code", accountCode), slog.String("error", err.Error()))
		}
	}
	return nil
}
