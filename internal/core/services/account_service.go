package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
	portssvc "github.com/tonvq/ketoan_backend/internal/core/ports/services"
	"github.com/tonvq/ketoan_backend/internal/dto"
	"github.com/tonvq/ketoan_backend/internal/middleware"
)

var (
	ErrAccountHasChildren = errors.New("account has child accounts and cannot be deleted")
	ErrAccountHasPostings = errors.New("account has journal postings and cannot be deleted")
	ErrParentNotFound     = errors.New("parent account not found")
	ErrLevelTooDeep       = errors.New("account level exceeds the maximum chart depth")
)

// accountService implements chart-of-accounts operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	auditRepo   portsrepo.AuditRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, auditRepo portsrepo.AuditRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// Exists implements portssvc.ChartValidatorSvc.
func (s *accountService) Exists(ctx context.Context, code string) (bool, error) {
	_, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsPostable reports whether journal lines may reference the account.
// Non-postable and inactive accounts fail with an AccountInvalidError so
// callers can surface the exact reason.
func (s *accountService) IsPostable(ctx context.Context, code string) (bool, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, &apperrors.AccountInvalidError{Code: code, Reason: apperrors.AccountReasonNotFound}
		}
		return false, err
	}
	if !account.Postable {
		return false, &apperrors.AccountInvalidError{Code: code, Reason: apperrors.AccountReasonNotPostable}
	}
	if !account.IsActive {
		return false, &apperrors.AccountInvalidError{Code: code, Reason: apperrors.AccountReasonInactive}
	}
	return true, nil
}

// ValidatePostable checks every code against the postability rules of
// IsPostable in one round trip, so a document with many lines does not
// fan out into per-account queries.
func (s *accountService) ValidatePostable(ctx context.Context, codes []string) error {
	if len(codes) == 0 {
		return nil
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return err
	}

	for _, code := range codes {
		account, ok := accounts[code]
		if !ok {
			return &apperrors.AccountInvalidError{Code: code, Reason: apperrors.AccountReasonNotFound}
		}
		if !account.Postable {
			return &apperrors.AccountInvalidError{Code: code, Reason: apperrors.AccountReasonNotPostable}
		}
		if !account.IsActive {
			return &apperrors.AccountInvalidError{Code: code, Reason: apperrors.AccountReasonInactive}
		}
	}
	return nil
}

// NatureOf implements portssvc.ChartValidatorSvc.
func (s *accountService) NatureOf(ctx context.Context, code string) (domain.AccountNature, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return "", err
	}
	return account.Nature, nil
}

// GetAccount implements portssvc.AccountReaderSvc.
func (s *accountService) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

// ListAccounts implements portssvc.AccountReaderSvc.
func (s *accountService) ListAccounts(ctx context.Context, class *domain.AccountClass, parentCode *string) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, class, parentCode)
}

// CreateAccount adds a new account to the chart. The level is derived from
// the parent: root accounts sit at level 1, children one below their parent.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, apperrors.NewAppError(400, "account code is required", apperrors.ErrValidation)
	}

	exists, err := s.Exists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewAppError(409, fmt.Sprintf("account %s already exists", code), apperrors.ErrDuplicate)
	}

	level := int16(1)
	if req.ParentCode != nil {
		parent, err := s.accountRepo.FindAccountByCode(ctx, *req.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		level = parent.Level + 1
		if level > domain.MaxAccountLevel {
			return nil, ErrLevelTooDeep
		}
		if !strings.HasPrefix(code, parent.Code) {
			logger.Warn("child account code does not extend parent code",
				slog.String("code", code), slog.String("parent_code", parent.Code))
		}
	}

	now := time.Now()
	account := domain.Account{
		Code:       code,
		Name:       req.Name,
		Class:      domain.AccountClass(req.Class),
		Level:      level,
		ParentCode: req.ParentCode,
		Nature:     domain.AccountNature(req.Nature),
		Postable:   req.Postable,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("failed to save account", slog.String("code", code), slog.String("error", err.Error()))
		return nil, err
	}

	s.recordAudit(ctx, code, domain.AuditActionCreated, creatorUserID, "account created")
	logger.Info("account created", slog.String("code", code), slog.String("created_by", creatorUserID))
	return &account, nil
}

// UpdateAccount updates the mutable fields of an account. Code, class,
// nature and parent are immutable once created.
func (s *accountService) UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Postable != nil {
		account.Postable = *req.Postable
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("failed to update account", slog.String("code", code), slog.String("error", err.Error()))
		return nil, err
	}

	s.recordAudit(ctx, code, domain.AuditActionUpdated, userID, "account updated")
	return account, nil
}

// DeleteAccount removes an account that has neither children nor postings.
func (s *accountService) DeleteAccount(ctx context.Context, code string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByCode(ctx, code); err != nil {
		return err
	}

	children, err := s.accountRepo.CountChildren(ctx, code)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrAccountHasChildren
	}

	hasPostings, err := s.accountRepo.HasPostings(ctx, code)
	if err != nil {
		return err
	}
	if hasPostings {
		return ErrAccountHasPostings
	}

	if err := s.accountRepo.DeleteAccount(ctx, code); err != nil {
		logger.Error("failed to delete account", slog.String("code", code), slog.String("error", err.Error()))
		return err
	}

	s.recordAudit(ctx, code, domain.AuditActionDeleted, userID, "account deleted")
	logger.Info("account deleted", slog.String("code", code), slog.String("deleted_by", userID))
	return nil
}

func (s *accountService) recordAudit(ctx context.Context, code string, action domain.AuditAction, actorID, detail string) {
	if s.auditRepo == nil {
		return
	}
	event := domain.AuditEvent{
		EntityType: "account",
		EntityID:   code,
		Action:     action,
		ActorID:    actorID,
		Detail:     detail,
		OccurredAt: time.Now(),
	}
	if err := s.auditRepo.RecordEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("failed to record audit event",
			slog.String("entity_id", code), slog.String("error", err.Error()))
	}
}
