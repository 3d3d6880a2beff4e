package models

import "time"

// Account is the database representation of a chart-of-accounts entry.
type Account struct {
	Code       string
	Name       string
	Class      string
	Level      int16
	ParentCode *string
	Nature     string
	Postable   bool
	IsActive   bool
	AuditFields
}

// AuditFields holds the audit columns shared by mutable tables.
type AuditFields struct {
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
