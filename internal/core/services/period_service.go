package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
	portssvc "github.com/tonvq/ketoan_backend/internal/core/ports/services"
	"github.com/tonvq/ketoan_backend/internal/middleware"
)

// periodService implements accounting-period registry operations.
type periodService struct {
	periodRepo portsrepo.PeriodRepositoryFacade
	auditRepo  portsrepo.AuditRepositoryFacade
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, auditRepo portsrepo.AuditRepositoryFacade) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo: periodRepo,
		auditRepo:  auditRepo,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// PeriodCovering implements portssvc.PeriodReaderSvc.
func (s *periodService) PeriodCovering(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	return s.periodRepo.FindPeriodCovering(ctx, date)
}

// IsLocked reports whether the period covering the date is locked. A date
// covered by no period is treated as unlocked so that bootstrapping a new
// company does not require pre-creating every period.
func (s *periodService) IsLocked(ctx context.Context, date time.Time) (bool, error) {
	period, err := s.periodRepo.FindPeriodCovering(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return period.Status == domain.PeriodStatusLocked, nil
}

// GetPeriod implements portssvc.PeriodReaderSvc.
func (s *periodService) GetPeriod(ctx context.Context, periodID int64) (*domain.AccountingPeriod, error) {
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

// ListPeriods implements portssvc.PeriodReaderSvc.
func (s *periodService) ListPeriods(ctx context.Context, year int) ([]domain.AccountingPeriod, error) {
	return s.periodRepo.ListPeriods(ctx, year)
}

// CreatePeriod creates one open period for (year, month).
func (s *periodService) CreatePeriod(ctx context.Context, year, month int, creatorUserID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period := newOpenPeriod(year, month, creatorUserID, time.Now())
	saved, err := s.periodRepo.SavePeriod(ctx, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(409, fmt.Sprintf("period %d-%02d already exists", year, month), apperrors.ErrDuplicate)
		}
		logger.Error("failed to save period", slog.Int("year", year), slog.Int("month", month), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("period created", slog.Int("year", year), slog.Int("month", month), slog.String("created_by", creatorUserID))
	return saved, nil
}

// InitializeYear bulk-creates the 12 open periods of a year in one
// transaction. Fails if any month of the year already exists.
func (s *periodService) InitializeYear(ctx context.Context, year int, creatorUserID string) ([]domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.periodRepo.ListPeriods(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apperrors.NewAppError(409, fmt.Sprintf("year %d already has %d period(s)", year, len(existing)), apperrors.ErrDuplicate)
	}

	now := time.Now()
	periods := make([]domain.AccountingPeriod, 0, 12)
	for month := 1; month <= 12; month++ {
		periods = append(periods, newOpenPeriod(year, month, creatorUserID, now))
	}

	saved, err := s.periodRepo.SavePeriods(ctx, periods)
	if err != nil {
		logger.Error("failed to initialize year", slog.Int("year", year), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("year initialized", slog.Int("year", year), slog.String("created_by", creatorUserID))
	return saved, nil
}

// Lock freezes a period against journal mutation.
func (s *periodService) Lock(ctx context.Context, periodID int64, userID string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, periodID, domain.PeriodStatusOpen, domain.PeriodStatusLocked, domain.AuditActionPeriodLocked, userID)
}

// Unlock reopens a period for correction.
func (s *periodService) Unlock(ctx context.Context, periodID int64, userID string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, periodID, domain.PeriodStatusLocked, domain.PeriodStatusOpen, domain.AuditActionPeriodUnlocked, userID)
}

// transition moves a period between statuses with a compare-and-swap so a
// concurrent transition surfaces as InvalidStateError instead of silently
// winning twice.
func (s *periodService) transition(ctx context.Context, periodID int64, from, to domain.PeriodStatus, action domain.AuditAction, userID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.Status != from {
		return nil, &apperrors.InvalidStateError{Entity: "period", From: string(period.Status), To: string(to)}
	}

	now := time.Now()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, from, to, userID, now); err != nil {
		logger.Error("failed to transition period",
			slog.Int64("period_id", periodID), slog.String("to", string(to)), slog.String("error", err.Error()))
		return nil, err
	}

	period.Status = to
	period.LastUpdatedAt = now
	period.LastUpdatedBy = userID

	if s.auditRepo != nil {
		event := domain.AuditEvent{
			EntityType: "period",
			EntityID:   fmt.Sprintf("%d", periodID),
			Action:     action,
			ActorID:    userID,
			Detail:     fmt.Sprintf("period %d-%02d -> %s", period.Year, period.Month, to),
			OccurredAt: now,
		}
		if err := s.auditRepo.RecordEvent(ctx, event); err != nil {
			logger.Warn("failed to record audit event", slog.Int64("period_id", periodID), slog.String("error", err.Error()))
		}
	}

	logger.Info("period transitioned",
		slog.Int64("period_id", periodID), slog.String("from", string(from)), slog.String("to", string(to)), slog.String("by", userID))
	return period, nil
}

func newOpenPeriod(year, month int, creatorUserID string, now time.Time) domain.AccountingPeriod {
	start, end := domain.PeriodBounds(year, month)
	return domain.AccountingPeriod{
		Year:      year,
		Month:     month,
		StartDate: start,
		EndDate:   end,
		Status:    domain.PeriodStatusOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
}
