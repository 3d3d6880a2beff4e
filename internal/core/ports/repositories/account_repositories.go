package repositories

import (
	"context"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByCode retrieves a single account by its code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts keyed by code.
	// Missing codes are simply absent from the map.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts filtered by class and/or parent code.
	// Nil filters match everything.
	ListAccounts(ctx context.Context, class *domain.AccountClass, parentCode *string) ([]domain.Account, error)

	// CountChildren returns the number of child accounts under the given code.
	CountChildren(ctx context.Context, code string) (int, error)

	// HasPostings reports whether any journal line references the account.
	HasPostings(ctx context.Context, code string) (bool, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates name, postability and active flag of an account.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. Callers must have verified it has
	// no children and no postings.
	DeleteAccount(ctx context.Context, code string) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
