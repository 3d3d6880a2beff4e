package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
	portssvc "github.com/tonvq/ketoan_backend/internal/core/ports/services"
	"github.com/tonvq/ketoan_backend/internal/dto"
	"github.com/tonvq/ketoan_backend/internal/middleware"
	"github.com/tonvq/ketoan_backend/internal/utils/accounting"
)

var (
	ErrDocumentMinLines      = errors.New("document must have at least one line")
	ErrLineAmountNotPositive = errors.New("line amount must be positive")
	ErrLineNoAccount         = errors.New("line must reference a debit account, a credit account, or both")
	ErrDateOrder             = errors.New("document date must not be after posting date")
	ErrInvalidDocumentType   = errors.New("unknown document type")
)

const defaultListLimit = 50

// journalService drives the journal document lifecycle. All state changes
// delegate to the repository, which runs them in a single transaction.
type journalService struct {
	documentRepo portsrepo.DocumentRepositoryFacade
	accountSvc   portssvc.ChartValidatorSvc
	periodSvc    portssvc.PeriodReaderSvc
	auditRepo    portsrepo.AuditRepositoryFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(documentRepo portsrepo.DocumentRepositoryFacade, accountSvc portssvc.ChartValidatorSvc, periodSvc portssvc.PeriodReaderSvc, auditRepo portsrepo.AuditRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		documentRepo: documentRepo,
		accountSvc:   accountSvc,
		periodSvc:    periodSvc,
		auditRepo:    auditRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateLines runs the per-line checks and the balance invariant over the
// whole set. The debit and credit totals must match exactly, no tolerance.
func (s *journalService) validateLines(ctx context.Context, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return ErrDocumentMinLines
	}

	seen := make(map[string]struct{})
	var accountCodes []string
	collect := func(code string) {
		if _, ok := seen[code]; !ok {
			seen[code] = struct{}{}
			accountCodes = append(accountCodes, code)
		}
	}

	for i := range lines {
		line := &lines[i]
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: line %d has amount %s", ErrLineAmountNotPositive, line.Sequence, line.Amount.String())
		}
		if !line.HasDebit() && !line.HasCredit() {
			return fmt.Errorf("%w: line %d", ErrLineNoAccount, line.Sequence)
		}
		if line.HasDebit() {
			collect(*line.DebitAccount)
		}
		if line.HasCredit() {
			collect(*line.CreditAccount)
		}
	}

	if err := s.accountSvc.ValidatePostable(ctx, accountCodes); err != nil {
		return err
	}

	return accounting.CheckBalanced(lines)
}

// validateDates enforces the date ordering rule and the period lock gate on
// the posting date.
func (s *journalService) validateDates(ctx context.Context, documentDate, postingDate time.Time) error {
	if documentDate.After(postingDate) {
		return fmt.Errorf("%w: document date %s, posting date %s",
			ErrDateOrder, documentDate.Format("2006-01-02"), postingDate.Format("2006-01-02"))
	}

	locked, err := s.periodSvc.IsLocked(ctx, postingDate)
	if err != nil {
		return err
	}
	if locked {
		return &apperrors.PeriodLockedError{Year: postingDate.Year(), Month: int(postingDate.Month())}
	}
	return nil
}

func linesFromRequests(reqs []dto.CreateLineRequest) []domain.JournalLine {
	lines := make([]domain.JournalLine, 0, len(reqs))
	for _, lr := range reqs {
		rate := lr.ExchangeRate
		if rate == nil {
			one := decimal.NewFromInt(1)
			rate = &one
		}
		currency := strings.TrimSpace(lr.CurrencyCode)
		if currency == "" {
			currency = "VND"
		}
		lines = append(lines, domain.JournalLine{
			Sequence:       lr.Sequence,
			DebitAccount:   lr.DebitAccount,
			CreditAccount:  lr.CreditAccount,
			Amount:         lr.Amount,
			FxAmount:       lr.FxAmount,
			CurrencyCode:   currency,
			ExchangeRate:   *rate,
			CounterpartyID: lr.CounterpartyID,
			ItemID:         lr.ItemID,
			Unit:           lr.Unit,
			Quantity:       lr.Quantity,
			UnitPrice:      lr.UnitPrice,
			Description:    lr.Description,
		})
	}
	return lines
}

// CreateDocument validates the request and persists a new draft document.
// The document number is allocated inside the save transaction so a failed
// create never burns a sequence value.
func (s *journalService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.JournalDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	docType := domain.DocumentType(req.DocumentType)
	if !docType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocumentType, req.DocumentType)
	}

	if err := s.validateDates(ctx, req.DocumentDate, req.PostingDate); err != nil {
		return nil, err
	}

	lines := linesFromRequests(req.Lines)
	if err := s.validateLines(ctx, lines); err != nil {
		return nil, err
	}

	now := time.Now()
	doc := domain.JournalDocument{
		DocumentType:   docType,
		DocumentDate:   req.DocumentDate,
		PostingDate:    req.PostingDate,
		Description:    req.Description,
		CounterpartyID: req.CounterpartyID,
		Status:         domain.DocumentStatusDraft,
		Lines:          lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	saved, err := s.documentRepo.SaveDocument(ctx, doc, lines)
	if err != nil {
		logger.Error("failed to save document", slog.String("document_type", string(docType)), slog.String("error", err.Error()))
		return nil, err
	}

	s.recordAudit(ctx, saved.DocumentID, domain.AuditActionCreated, creatorUserID, saved.DocumentNumber)
	logger.Info("document created",
		slog.Int64("document_id", saved.DocumentID),
		slog.String("document_number", saved.DocumentNumber),
		slog.String("created_by", creatorUserID))
	return saved, nil
}

// UpdateDocument mutates a draft. The allocated document number is never
// regenerated, even when the posting date moves to another month.
func (s *journalService) UpdateDocument(ctx context.Context, documentID int64, req dto.UpdateDocumentRequest, userID string) (*domain.JournalDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.DocumentStatusDraft {
		return nil, &apperrors.DocumentNotEditableError{DocumentID: documentID, Status: string(doc.Status)}
	}

	if req.DocumentDate != nil {
		doc.DocumentDate = *req.DocumentDate
	}
	if req.PostingDate != nil {
		doc.PostingDate = *req.PostingDate
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.CounterpartyID != nil {
		doc.CounterpartyID = req.CounterpartyID
	}

	if err := s.validateDates(ctx, doc.DocumentDate, doc.PostingDate); err != nil {
		return nil, err
	}

	var newLines []domain.JournalLine
	if req.Lines != nil {
		newLines = linesFromRequests(*req.Lines)
		if err := s.validateLines(ctx, newLines); err != nil {
			return nil, err
		}
		doc.Lines = newLines
	}

	doc.LastUpdatedAt = time.Now()
	doc.LastUpdatedBy = userID

	if err := s.documentRepo.UpdateDocument(ctx, *doc, newLines); err != nil {
		logger.Error("failed to update document", slog.Int64("document_id", documentID), slog.String("error", err.Error()))
		return nil, err
	}

	s.recordAudit(ctx, documentID, domain.AuditActionUpdated, userID, doc.DocumentNumber)
	return doc, nil
}

// DeleteDocument removes a draft and its lines. Approved documents are
// never deleted; they must be cancelled so the audit trail survives.
func (s *journalService) DeleteDocument(ctx context.Context, documentID int64, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.Status != domain.DocumentStatusDraft {
		return &apperrors.DocumentNotEditableError{DocumentID: documentID, Status: string(doc.Status)}
	}

	if err := s.documentRepo.DeleteDocument(ctx, documentID); err != nil {
		logger.Error("failed to delete document", slog.Int64("document_id", documentID), slog.String("error", err.Error()))
		return err
	}

	s.recordAudit(ctx, documentID, domain.AuditActionDeleted, userID, doc.DocumentNumber)
	logger.Info("document deleted", slog.Int64("document_id", documentID), slog.String("deleted_by", userID))
	return nil
}

// ApproveDocument transitions draft -> approved. Balance and period lock
// are re-checked here because the period may have been locked, or an
// account deactivated, between create and approve. The repository applies
// the ledger aggregation in the same transaction as the status flip.
func (s *journalService) ApproveDocument(ctx context.Context, documentID int64, userID string) (*domain.JournalDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.DocumentStatusDraft {
		return nil, &apperrors.InvalidStateError{Entity: "document", From: string(doc.Status), To: string(domain.DocumentStatusApproved)}
	}

	if err := s.validateDates(ctx, doc.DocumentDate, doc.PostingDate); err != nil {
		return nil, err
	}
	if err := s.validateLines(ctx, doc.Lines); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.documentRepo.ApproveDocument(ctx, documentID, userID, now); err != nil {
		logger.Error("failed to approve document", slog.Int64("document_id", documentID), slog.String("error", err.Error()))
		return nil, err
	}

	doc.Status = domain.DocumentStatusApproved
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = userID

	s.recordAudit(ctx, documentID, domain.AuditActionApproved, userID, doc.DocumentNumber)
	logger.Info("document approved",
		slog.Int64("document_id", documentID),
		slog.String("document_number", doc.DocumentNumber),
		slog.String("approved_by", userID))
	return doc, nil
}

// CancelDocument transitions approved -> cancelled. The period lock gate
// applies here too: cancelling a document in a locked period would change
// reported figures. The repository reverses the ledger aggregation in the
// same transaction.
func (s *journalService) CancelDocument(ctx context.Context, documentID int64, userID string) (*domain.JournalDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.DocumentStatusApproved {
		return nil, &apperrors.InvalidStateError{Entity: "document", From: string(doc.Status), To: string(domain.DocumentStatusCancelled)}
	}

	locked, err := s.periodSvc.IsLocked(ctx, doc.PostingDate)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, &apperrors.PeriodLockedError{Year: doc.PostingDate.Year(), Month: int(doc.PostingDate.Month())}
	}

	now := time.Now()
	if err := s.documentRepo.CancelDocument(ctx, documentID, userID, now); err != nil {
		logger.Error("failed to cancel document", slog.Int64("document_id", documentID), slog.String("error", err.Error()))
		return nil, err
	}

	doc.Status = domain.DocumentStatusCancelled
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = userID

	s.recordAudit(ctx, documentID, domain.AuditActionCancelled, userID, doc.DocumentNumber)
	logger.Info("document cancelled",
		slog.Int64("document_id", documentID),
		slog.String("document_number", doc.DocumentNumber),
		slog.String("cancelled_by", userID))
	return doc, nil
}

// GetDocument implements portssvc.JournalReaderSvc.
func (s *journalService) GetDocument(ctx context.Context, documentID int64) (*domain.JournalDocument, error) {
	return s.documentRepo.FindDocumentByID(ctx, documentID)
}

// ListDocuments implements portssvc.JournalReaderSvc.
func (s *journalService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	filter := portsrepo.ListDocumentsFilter{
		DocumentType:   params.DocumentType,
		Status:         params.Status,
		FromDate:       params.FromDate,
		ToDate:         params.ToDate,
		CounterpartyID: params.CounterpartyID,
		Search:         params.Search,
	}

	docs, nextToken, err := s.documentRepo.ListDocuments(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListDocumentsResponse{
		Documents: make([]dto.DocumentResponse, 0, len(docs)),
		NextToken: nextToken,
	}
	for i := range docs {
		resp.Documents = append(resp.Documents, dto.ToDocumentResponse(&docs[i]))
	}
	return resp, nil
}

func (s *journalService) recordAudit(ctx context.Context, documentID int64, action domain.AuditAction, actorID, detail string) {
	if s.auditRepo == nil {
		return
	}
	event := domain.AuditEvent{
		EntityType: "journal_document",
		EntityID:   fmt.Sprintf("%d", documentID),
		Action:     action,
		ActorID:    actorID,
		Detail:     detail,
		OccurredAt: time.Now(),
	}
	if err := s.auditRepo.RecordEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("failed to record audit event",
			slog.Int64("document_id", documentID), slog.String("error", err.Error()))
	}
}
