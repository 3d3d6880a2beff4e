package models

import "time"

// AccountingPeriod is the database representation of one fiscal month.
type AccountingPeriod struct {
	PeriodID  int64
	Year      int
	Month     int
	StartDate time.Time
	EndDate   time.Time
	Status    string
	AuditFields
}
