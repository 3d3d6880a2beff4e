package repositories

// RepositoryProvider bundles every repository facade for wiring.
type RepositoryProvider struct {
	AccountRepo  AccountRepositoryFacade
	PeriodRepo   PeriodRepositoryFacade
	DocumentRepo DocumentRepositoryFacade
	LedgerRepo   LedgerRepositoryFacade
	AuditRepo    AuditRepositoryFacade
}
