package repositories

import (
	"context"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// AuditRepositoryFacade persists lifecycle transition records. The sink
// records transitions but never gates them; callers treat failures as
// log-and-continue.
type AuditRepositoryFacade interface {
	RecordEvent(ctx context.Context, event domain.AuditEvent) error
}
