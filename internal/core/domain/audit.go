package domain

import "time"

// AuditAction names a recorded lifecycle transition.
type AuditAction string

const (
	AuditActionCreated        AuditAction = "CREATED"
	AuditActionUpdated        AuditAction = "UPDATED"
	AuditActionDeleted        AuditAction = "DELETED"
	AuditActionApproved       AuditAction = "APPROVED"
	AuditActionCancelled      AuditAction = "CANCELLED"
	AuditActionPeriodLocked   AuditAction = "PERIOD_LOCKED"
	AuditActionPeriodUnlocked AuditAction = "PERIOD_UNLOCKED"
)

// AuditEvent records one lifecycle transition for the audit-log sink.
// Recording is best-effort and never gates the transition itself.
type AuditEvent struct {
	EventID    int64       `json:"eventID"`
	EntityType string      `json:"entityType"` // "document" or "period"
	EntityID   string      `json:"entityID"`
	Action     AuditAction `json:"action"`
	ActorID    string      `json:"actorID"`
	Detail     string      `json:"detail"`
	OccurredAt time.Time   `json:"occurredAt"`
}
