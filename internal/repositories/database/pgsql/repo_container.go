package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		PeriodRepo:   newPgxPeriodRepository(dbPool),
		DocumentRepo: newPgxDocumentRepository(dbPool),
		LedgerRepo:   newPgxLedgerRepository(dbPool),
		AuditRepo:    newPgxAuditRepository(dbPool),
	}
}
