package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for audit events.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// RecordEvent appends one lifecycle transition record.
func (r *PgxAuditRepository) RecordEvent(ctx context.Context, event domain.AuditEvent) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO audit_events (entity_type, entity_id, action, actor_id, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, event.EntityType, event.EntityID, string(event.Action), event.ActorID, event.Detail, event.OccurredAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit event", err)
	}
	return nil
}
