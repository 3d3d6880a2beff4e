package services

import (
	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
	portssvc "github.com/tonvq/ketoan_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly wired dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account and period services come first since the journal engine
	// validates against both.
	container.Account = NewAccountService(repos.AccountRepo, repos.AuditRepo)
	container.Period = NewPeriodService(repos.PeriodRepo, repos.AuditRepo)

	container.Journal = NewJournalService(repos.DocumentRepo, container.Account, container.Period, repos.AuditRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.PeriodRepo, container.Account, repos.AuditRepo)

	return container
}
