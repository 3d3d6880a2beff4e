package services

import (
	"context"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
	"github.com/tonvq/ketoan_backend/internal/dto"
)

// ChartValidatorSvc is the validation surface the journal engine (and any
// module that synthesizes documents programmatically) consumes.
type ChartValidatorSvc interface {
	// Exists reports whether the account code is present in the chart.
	Exists(ctx context.Context, code string) (bool, error)

	// IsPostable reports whether lines may post to the account. Returns an
	// AccountInvalidError distinguishing "missing" from "not postable".
	IsPostable(ctx context.Context, code string) (bool, error)

	// ValidatePostable checks every code with a single batched lookup and
	// fails with an AccountInvalidError on the first offending account.
	ValidatePostable(ctx context.Context, codes []string) error

	// NatureOf returns the account's normal balance side.
	NatureOf(ctx context.Context, code string) (domain.AccountNature, error)
}

// AccountReaderSvc defines read operations for chart-of-accounts data.
type AccountReaderSvc interface {
	// GetAccount retrieves a single account by code.
	GetAccount(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves accounts filtered by class and/or parent.
	ListAccounts(ctx context.Context, class *domain.AccountClass, parentCode *string) ([]domain.Account, error)
}

// AccountWriterSvc defines admin mutations of the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount adds a new account under an optional parent.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates the mutable fields of an account.
	UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account that has no children and no
	// postings; otherwise callers must deactivate instead.
	DeleteAccount(ctx context.Context, code string, userID string) error
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	ChartValidatorSvc
	AccountReaderSvc
	AccountWriterSvc
}
