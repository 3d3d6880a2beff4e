package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portssvc "github.com/tonvq/ketoan_backend/internal/core/ports/services"
	"github.com/tonvq/ketoan_backend/internal/core/services"
	"github.com/tonvq/ketoan_backend/internal/dto"
)

func strPtr(s string) *string { return &s }

type JournalServiceTestSuite struct {
	suite.Suite
	mockDocRepo     *MockDocumentRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodRepo  *MockPeriodRepository
	service         portssvc.JournalSvcFacade

	userID       string
	openPeriod   domain.AccountingPeriod
	lockedPeriod domain.AccountingPeriod
	cashAccount  domain.Account
	salesAccount domain.Account
	salesParent  domain.Account
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.mockDocRepo = new(MockDocumentRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockPeriodRepo = new(MockPeriodRepository)

	accountSvc := services.NewAccountService(s.mockAccountRepo, nil)
	periodSvc := services.NewPeriodService(s.mockPeriodRepo, nil)
	s.service = services.NewJournalService(s.mockDocRepo, accountSvc, periodSvc, nil)

	s.userID = "user-1"

	start, end := domain.PeriodBounds(2025, 1)
	s.openPeriod = domain.AccountingPeriod{
		PeriodID: 1, Year: 2025, Month: 1, StartDate: start, EndDate: end,
		Status: domain.PeriodStatusOpen,
	}
	lockedStart, lockedEnd := domain.PeriodBounds(2024, 12)
	s.lockedPeriod = domain.AccountingPeriod{
		PeriodID: 2, Year: 2024, Month: 12, StartDate: lockedStart, EndDate: lockedEnd,
		Status: domain.PeriodStatusLocked,
	}

	s.cashAccount = domain.Account{
		Code: "1111", Name: "Tien Viet Nam", Class: domain.AccountClassAsset,
		Level: 2, ParentCode: strPtr("111"), Nature: domain.AccountNatureDebit,
		Postable: true, IsActive: true,
	}
	s.salesAccount = domain.Account{
		Code: "5111", Name: "Doanh thu ban hang hoa", Class: domain.AccountClassRevenue,
		Level: 2, ParentCode: strPtr("511"), Nature: domain.AccountNatureCredit,
		Postable: true, IsActive: true,
	}
	s.salesParent = domain.Account{
		Code: "511", Name: "Doanh thu ban hang", Class: domain.AccountClassRevenue,
		Level: 1, Nature: domain.AccountNatureCredit,
		Postable: false, IsActive: true,
	}
}

// expectAccounts stubs the batched chart lookup with the given accounts.
func (s *JournalServiceTestSuite) expectAccounts(accounts ...domain.Account) {
	byCode := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	s.mockAccountRepo.On("FindAccountsByCodes", mock.Anything, mock.AnythingOfType("[]string")).Return(byCode, nil)
}

func (s *JournalServiceTestSuite) balancedRequest() dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{
		DocumentType: domain.DocumentTypeCashReceipt,
		DocumentDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		PostingDate:  time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Description:  "Thu tien ban hang",
		Lines: []dto.CreateLineRequest{
			{Sequence: 1, DebitAccount: strPtr("1111"), Amount: decimal.NewFromInt(100000)},
			{Sequence: 2, CreditAccount: strPtr("5111"), Amount: decimal.NewFromInt(100000)},
		},
	}
}

func (s *JournalServiceTestSuite) TestCreateDocument_Success() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.mockPeriodRepo.On("FindPeriodCovering", ctx, req.PostingDate).Return(&s.openPeriod, nil).Once()
	s.expectAccounts(s.cashAccount, s.salesAccount)

	saved := domain.JournalDocument{
		DocumentID:     7,
		DocumentNumber: "PT202501-00001",
		DocumentType:   domain.DocumentTypeCashReceipt,
		Status:         domain.DocumentStatusDraft,
	}
	s.mockDocRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.JournalDocument"), mock.AnythingOfType("[]domain.JournalLine")).Return(&saved, nil).Once()

	doc, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(doc)
	s.Equal("PT202501-00001", doc.DocumentNumber)
	s.Equal(domain.DocumentStatusDraft, doc.Status)
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCreateDocument_BatchedAccountLookup() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.mockPeriodRepo.On("FindPeriodCovering", ctx, req.PostingDate).Return(&s.openPeriod, nil).Once()
	s.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.MatchedBy(func(codes []string) bool {
		return len(codes) == 2 && codes[0] == "1111" && codes[1] == "5111"
	})).Return(map[string]domain.Account{
		"1111": s.cashAccount,
		"5111": s.salesAccount,
	}, nil).Once()
	saved := domain.JournalDocument{DocumentID: 9, DocumentNumber: "PT202501-00003", Status: domain.DocumentStatusDraft}
	s.mockDocRepo.On("SaveDocument", ctx, mock.Anything, mock.Anything).Return(&saved, nil).Once()

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().NoError(err)
	// Line validation must not fan out into per-account queries.
	s.mockAccountRepo.AssertNotCalled(s.T(), "FindAccountByCode", mock.Anything, mock.Anything)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCreateDocument_Unbalanced() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Lines[1].Amount = decimal.NewFromInt(90000)

	s.mockPeriodRepo.On("FindPeriodCovering", ctx, req.PostingDate).Return(&s.openPeriod, nil).Once()
	s.expectAccounts(s.cashAccount, s.salesAccount)

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnbalancedPosting)
	s.mockDocRepo.AssertNotCalled(s.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateDocument_LockedPeriod() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.DocumentDate = time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	req.PostingDate = time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)

	s.mockPeriodRepo.On("FindPeriodCovering", ctx, req.PostingDate).Return(&s.lockedPeriod, nil).Once()

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)
	s.mockDocRepo.AssertNotCalled(s.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateDocument_NoCoveringPeriodIsAllowed() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.mockPeriodRepo.On("FindPeriodCovering", ctx, req.PostingDate).Return(nil, apperrors.ErrNotFound).Once()
	s.expectAccounts(s.cashAccount, s.salesAccount)
	saved := domain.JournalDocument{DocumentID: 8, DocumentNumber: "PT202501-00002", Status: domain.DocumentStatusDraft}
	s.mockDocRepo.On("SaveDocument", ctx, mock.Anything, mock.Anything).Return(&saved, nil).Once()

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().NoError(err)
}

func (s *JournalServiceTestSuite) TestCreateDocument_DateOrderViolation() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.DocumentDate = time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	req.PostingDate = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrDateOrder)
}

func (s *JournalServiceTestSuite) TestCreateDocument_NonPostableAccount() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Lines[1].CreditAccount = strPtr("511")

	s.mockPeriodRepo.On("FindPeriodCovering", ctx, req.PostingDate).Return(&s.openPeriod, nil).Once()
	s.expectAccounts(s.cashAccount, s.salesParent)

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAccountInvalid)
}

func (s *JournalServiceTestSuite) TestCreateDocument_UnknownAccount() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Lines[0].DebitAccount = strPtr("9999")

	s.mockPeriodRepo.On("FindPeriodCovering", ctx, req.PostingDate).Return(&s.openPeriod, nil).Once()
	s.expectAccounts(s.salesAccount)

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAccountInvalid)
}

func (s *JournalServiceTestSuite) TestCreateDocument_NonPositiveAmount() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Lines[0].Amount = decimal.Zero

	s.mockPeriodRepo.On("FindPeriodCovering", ctx, req.PostingDate).Return(&s.openPeriod, nil).Once()

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrLineAmountNotPositive)
}

func (s *JournalServiceTestSuite) draftDocument() *domain.JournalDocument {
	return &domain.JournalDocument{
		DocumentID:     42,
		DocumentNumber: "PT202501-00042",
		DocumentType:   domain.DocumentTypeCashReceipt,
		DocumentDate:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		PostingDate:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:         domain.DocumentStatusDraft,
		Lines: []domain.JournalLine{
			{Sequence: 1, DebitAccount: strPtr("1111"), Amount: decimal.NewFromInt(100000), ExchangeRate: decimal.NewFromInt(1), CurrencyCode: "VND"},
			{Sequence: 2, CreditAccount: strPtr("5111"), Amount: decimal.NewFromInt(100000), ExchangeRate: decimal.NewFromInt(1), CurrencyCode: "VND"},
		},
	}
}

func (s *JournalServiceTestSuite) TestUpdateDocument_NotDraft() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Status = domain.DocumentStatusApproved
	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(doc, nil).Once()

	newDesc := "changed"
	_, err := s.service.UpdateDocument(ctx, 42, dto.UpdateDocumentRequest{Description: &newDesc}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDocumentNotEditable)
	s.mockDocRepo.AssertNotCalled(s.T(), "UpdateDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestUpdateDocument_PostingDateMoveToLockedPeriod() {
	ctx := context.Background()
	doc := s.draftDocument()
	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(doc, nil).Once()

	lockedDate := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	s.mockPeriodRepo.On("FindPeriodCovering", ctx, lockedDate).Return(&s.lockedPeriod, nil).Once()

	_, err := s.service.UpdateDocument(ctx, 42, dto.UpdateDocumentRequest{DocumentDate: &lockedDate, PostingDate: &lockedDate}, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)
}

func (s *JournalServiceTestSuite) TestUpdateDocument_KeepsDocumentNumber() {
	ctx := context.Background()
	doc := s.draftDocument()
	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(doc, nil).Once()

	newDate := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	s.mockPeriodRepo.On("FindPeriodCovering", ctx, newDate).Return(&s.openPeriod, nil).Once()
	s.mockDocRepo.On("UpdateDocument", ctx, mock.MatchedBy(func(d domain.JournalDocument) bool {
		return d.DocumentNumber == "PT202501-00042"
	}), mock.Anything).Return(nil).Once()

	updated, err := s.service.UpdateDocument(ctx, 42, dto.UpdateDocumentRequest{DocumentDate: &newDate, PostingDate: &newDate}, s.userID)

	s.Require().NoError(err)
	s.Equal("PT202501-00042", updated.DocumentNumber)
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestDeleteDocument_Draft() {
	ctx := context.Background()
	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(s.draftDocument(), nil).Once()
	s.mockDocRepo.On("DeleteDocument", ctx, int64(42)).Return(nil).Once()

	err := s.service.DeleteDocument(ctx, 42, s.userID)

	s.Require().NoError(err)
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestDeleteDocument_Approved() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Status = domain.DocumentStatusApproved
	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(doc, nil).Once()

	err := s.service.DeleteDocument(ctx, 42, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDocumentNotEditable)
}

func (s *JournalServiceTestSuite) TestApproveDocument_Success() {
	ctx := context.Background()
	doc := s.draftDocument()
	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(doc, nil).Once()
	s.mockPeriodRepo.On("FindPeriodCovering", ctx, doc.PostingDate).Return(&s.openPeriod, nil).Once()
	s.expectAccounts(s.cashAccount, s.salesAccount)
	s.mockDocRepo.On("ApproveDocument", ctx, int64(42), s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	approved, err := s.service.ApproveDocument(ctx, 42, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.DocumentStatusApproved, approved.Status)
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestApproveDocument_AlreadyApproved() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Status = domain.DocumentStatusApproved
	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(doc, nil).Once()

	_, err := s.service.ApproveDocument(ctx, 42, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *JournalServiceTestSuite) TestApproveDocument_AccountDeactivatedSinceDraft() {
	ctx := context.Background()
	doc := s.draftDocument()
	inactive := s.cashAccount
	inactive.IsActive = false

	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(doc, nil).Once()
	s.mockPeriodRepo.On("FindPeriodCovering", ctx, doc.PostingDate).Return(&s.openPeriod, nil).Once()
	s.expectAccounts(inactive, s.salesAccount)

	_, err := s.service.ApproveDocument(ctx, 42, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAccountInvalid)
	s.mockDocRepo.AssertNotCalled(s.T(), "ApproveDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCancelDocument_Success() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Status = domain.DocumentStatusApproved
	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(doc, nil).Once()
	s.mockPeriodRepo.On("FindPeriodCovering", ctx, doc.PostingDate).Return(&s.openPeriod, nil).Once()
	s.mockDocRepo.On("CancelDocument", ctx, int64(42), s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	cancelled, err := s.service.CancelDocument(ctx, 42, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.DocumentStatusCancelled, cancelled.Status)
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCancelDocument_LockedPeriod() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Status = domain.DocumentStatusApproved
	doc.PostingDate = time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(doc, nil).Once()
	s.mockPeriodRepo.On("FindPeriodCovering", ctx, doc.PostingDate).Return(&s.lockedPeriod, nil).Once()

	_, err := s.service.CancelDocument(ctx, 42, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)
	s.mockDocRepo.AssertNotCalled(s.T(), "CancelDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCancelDocument_Draft() {
	ctx := context.Background()
	s.mockDocRepo.On("FindDocumentByID", ctx, int64(42)).Return(s.draftDocument(), nil).Once()

	_, err := s.service.CancelDocument(ctx, 42, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
