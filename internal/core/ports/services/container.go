package services

// ServiceContainer holds all service facades for dependency injection.
type ServiceContainer struct {
	Account AccountSvcFacade
	Period  PeriodSvcFacade
	Journal JournalSvcFacade
	Ledger  LedgerSvcFacade
}
