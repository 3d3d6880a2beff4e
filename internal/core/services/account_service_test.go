package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portssvc "github.com/tonvq/ketoan_backend/internal/core/ports/services"
	"github.com/tonvq/ketoan_backend/internal/core/services"
	"github.com/tonvq/ketoan_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockAuditRepo   *MockAuditRepository
	service         portssvc.AccountSvcFacade
	ctx             context.Context

	cashAccount   domain.Account
	parentAccount domain.Account
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockAuditRepo = new(MockAuditRepository)
	s.service = services.NewAccountService(s.mockAccountRepo, s.mockAuditRepo)
	s.ctx = context.Background()

	parentCode := "111"
	s.cashAccount = domain.Account{
		Code:       "1111",
		Name:       "Tien mat VND",
		Class:      domain.AccountClassAsset,
		Level:      2,
		ParentCode: &parentCode,
		Nature:     domain.AccountNatureDebit,
		Postable:   true,
		IsActive:   true,
	}
	s.parentAccount = domain.Account{
		Code:     "111",
		Name:     "Tien mat",
		Class:    domain.AccountClassAsset,
		Level:    1,
		Nature:   domain.AccountNatureDebit,
		Postable: false,
		IsActive: true,
	}
}

func (s *AccountServiceTestSuite) TestIsPostable_Success() {
	cash := s.cashAccount
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "1111").Return(&cash, nil).Once()

	ok, err := s.service.IsPostable(s.ctx, "1111")

	s.Require().NoError(err)
	s.True(ok)
}

func (s *AccountServiceTestSuite) TestIsPostable_NotFound() {
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "9999").Return(nil, apperrors.NewNotFoundError("account 9999 not found")).Once()

	ok, err := s.service.IsPostable(s.ctx, "9999")

	s.False(ok)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrAccountInvalid)
	var accErr *apperrors.AccountInvalidError
	s.Require().ErrorAs(err, &accErr)
	s.Equal("9999", accErr.Code)
	s.Equal(apperrors.AccountReasonNotFound, accErr.Reason)
}

func (s *AccountServiceTestSuite) TestIsPostable_NonPostableParent() {
	parent := s.parentAccount
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "111").Return(&parent, nil).Once()

	ok, err := s.service.IsPostable(s.ctx, "111")

	s.False(ok)
	s.Require().Error(err)
	var accErr *apperrors.AccountInvalidError
	s.Require().ErrorAs(err, &accErr)
	s.Equal(apperrors.AccountReasonNotPostable, accErr.Reason)
}

func (s *AccountServiceTestSuite) TestIsPostable_InactiveAccount() {
	inactive := s.cashAccount
	inactive.IsActive = false
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "1111").Return(&inactive, nil).Once()

	ok, err := s.service.IsPostable(s.ctx, "1111")

	s.False(ok)
	var accErr *apperrors.AccountInvalidError
	s.Require().ErrorAs(err, &accErr)
	s.Equal(apperrors.AccountReasonInactive, accErr.Reason)
}

func (s *AccountServiceTestSuite) TestValidatePostable_AllPostable() {
	sales := domain.Account{Code: "5111", Nature: domain.AccountNatureCredit, Postable: true, IsActive: true}
	s.mockAccountRepo.On("FindAccountsByCodes", s.ctx, []string{"1111", "5111"}).Return(map[string]domain.Account{
		"1111": s.cashAccount,
		"5111": sales,
	}, nil).Once()

	err := s.service.ValidatePostable(s.ctx, []string{"1111", "5111"})

	s.Require().NoError(err)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestValidatePostable_MissingCode() {
	s.mockAccountRepo.On("FindAccountsByCodes", s.ctx, []string{"1111", "9999"}).Return(map[string]domain.Account{
		"1111": s.cashAccount,
	}, nil).Once()

	err := s.service.ValidatePostable(s.ctx, []string{"1111", "9999"})

	s.Require().Error(err)
	var accErr *apperrors.AccountInvalidError
	s.Require().ErrorAs(err, &accErr)
	s.Equal("9999", accErr.Code)
	s.Equal(apperrors.AccountReasonNotFound, accErr.Reason)
}

func (s *AccountServiceTestSuite) TestValidatePostable_NonPostable() {
	s.mockAccountRepo.On("FindAccountsByCodes", s.ctx, []string{"111"}).Return(map[string]domain.Account{
		"111": s.parentAccount,
	}, nil).Once()

	err := s.service.ValidatePostable(s.ctx, []string{"111"})

	var accErr *apperrors.AccountInvalidError
	s.Require().ErrorAs(err, &accErr)
	s.Equal(apperrors.AccountReasonNotPostable, accErr.Reason)
}

func (s *AccountServiceTestSuite) TestValidatePostable_EmptySetSkipsLookup() {
	err := s.service.ValidatePostable(s.ctx, nil)

	s.Require().NoError(err)
	s.mockAccountRepo.AssertNotCalled(s.T(), "FindAccountsByCodes", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestExists() {
	cash := s.cashAccount
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "1111").Return(&cash, nil).Once()
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "9999").Return(nil, apperrors.NewNotFoundError("not found")).Once()

	ok, err := s.service.Exists(s.ctx, "1111")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.service.Exists(s.ctx, "9999")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *AccountServiceTestSuite) TestNatureOf() {
	cash := s.cashAccount
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "1111").Return(&cash, nil).Once()

	nature, err := s.service.NatureOf(s.ctx, "1111")

	s.Require().NoError(err)
	s.Equal(domain.AccountNatureDebit, nature)
}

func (s *AccountServiceTestSuite) TestCreateAccount_RootLevel() {
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "642").Return(nil, apperrors.NewNotFoundError("not found")).Once()
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "642" && a.Level == 1 && a.IsActive
	})).Return(nil).Once()
	s.mockAuditRepo.On("RecordEvent", s.ctx, mock.MatchedBy(func(e domain.AuditEvent) bool {
		return e.EntityType == "account" && e.Action == domain.AuditActionCreated
	})).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code:   "642",
		Name:   "Chi phi quan ly",
		Class:  domain.AccountClassExpense,
		Nature: domain.AccountNatureDebit,
	}, "admin-1")

	s.Require().NoError(err)
	s.Equal(int16(1), account.Level)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAccount_ChildLevelDerivedFromParent() {
	parent := s.parentAccount
	parentCode := "111"
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "1112").Return(nil, apperrors.NewNotFoundError("not found")).Once()
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "111").Return(&parent, nil).Once()
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "1112" && a.Level == 2
	})).Return(nil).Once()
	s.mockAuditRepo.On("RecordEvent", s.ctx, mock.Anything).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code:       "1112",
		Name:       "Ngoai te",
		Class:      domain.AccountClassAsset,
		ParentCode: &parentCode,
		Nature:     domain.AccountNatureDebit,
		Postable:   true,
	}, "admin-1")

	s.Require().NoError(err)
	s.Equal(int16(2), account.Level)
}

func (s *AccountServiceTestSuite) TestCreateAccount_Duplicate() {
	cash := s.cashAccount
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "1111").Return(&cash, nil).Once()

	_, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code:   "1111",
		Name:   "Tien mat VND",
		Class:  domain.AccountClassAsset,
		Nature: domain.AccountNatureDebit,
	}, "admin-1")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ParentNotFound() {
	missing := "999"
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "9991").Return(nil, apperrors.NewNotFoundError("not found")).Once()
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "999").Return(nil, apperrors.NewNotFoundError("not found")).Once()

	_, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code:       "9991",
		Name:       "Orphan",
		Class:      domain.AccountClassAsset,
		ParentCode: &missing,
		Nature:     domain.AccountNatureDebit,
	}, "admin-1")

	s.Require().ErrorIs(err, services.ErrParentNotFound)
}

func (s *AccountServiceTestSuite) TestCreateAccount_LevelTooDeep() {
	deepCode := "1111"
	deepParent := domain.Account{Code: "1111", Level: domain.MaxAccountLevel, Nature: domain.AccountNatureDebit, IsActive: true}
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "11111").Return(nil, apperrors.NewNotFoundError("not found")).Once()
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "1111").Return(&deepParent, nil).Once()

	_, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code:       "11111",
		Name:       "Too deep",
		Class:      domain.AccountClassAsset,
		ParentCode: &deepCode,
		Nature:     domain.AccountNatureDebit,
	}, "admin-1")

	s.Require().ErrorIs(err, services.ErrLevelTooDeep)
}

func (s *AccountServiceTestSuite) TestUpdateAccount_MutableFieldsOnly() {
	cash := s.cashAccount
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "1111").Return(&cash, nil).Once()
	s.mockAccountRepo.On("UpdateAccount", s.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "1111" && a.Name == "Tien mat (VND)" && !a.IsActive
	})).Return(nil).Once()
	s.mockAuditRepo.On("RecordEvent", s.ctx, mock.Anything).Return(nil).Once()

	newName := "Tien mat (VND)"
	inactive := false
	account, err := s.service.UpdateAccount(s.ctx, "1111", dto.UpdateAccountRequest{
		Name:     &newName,
		IsActive: &inactive,
	}, "admin-1")

	s.Require().NoError(err)
	s.Equal("Tien mat (VND)", account.Name)
	s.False(account.IsActive)
	// Untouched fields keep their values.
	s.True(account.Postable)
}

func (s *AccountServiceTestSuite) TestDeleteAccount_Success() {
	cash := s.cashAccount
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "1111").Return(&cash, nil).Once()
	s.mockAccountRepo.On("CountChildren", s.ctx, "1111").Return(0, nil).Once()
	s.mockAccountRepo.On("HasPostings", s.ctx, "1111").Return(false, nil).Once()
	s.mockAccountRepo.On("DeleteAccount", s.ctx, "1111").Return(nil).Once()
	s.mockAuditRepo.On("RecordEvent", s.ctx, mock.MatchedBy(func(e domain.AuditEvent) bool {
		return e.Action == domain.AuditActionDeleted
	})).Return(nil).Once()

	err := s.service.DeleteAccount(s.ctx, "1111", "admin-1")

	s.Require().NoError(err)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestDeleteAccount_HasChildren() {
	parent := s.parentAccount
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "111").Return(&parent, nil).Once()
	s.mockAccountRepo.On("CountChildren", s.ctx, "111").Return(2, nil).Once()

	err := s.service.DeleteAccount(s.ctx, "111", "admin-1")

	s.Require().ErrorIs(err, services.ErrAccountHasChildren)
	s.mockAccountRepo.AssertNotCalled(s.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeleteAccount_HasPostings() {
	cash := s.cashAccount
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, "1111").Return(&cash, nil).Once()
	s.mockAccountRepo.On("CountChildren", s.ctx, "1111").Return(0, nil).Once()
	s.mockAccountRepo.On("HasPostings", s.ctx, "1111").Return(true, nil).Once()

	err := s.service.DeleteAccount(s.ctx, "1111", "admin-1")

	s.Require().ErrorIs(err, services.ErrAccountHasPostings)
	s.mockAccountRepo.AssertNotCalled(s.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
