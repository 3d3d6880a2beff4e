package domain

import "time"

// PeriodStatus indicates whether an accounting period accepts postings.
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "OPEN"
	PeriodStatusLocked PeriodStatus = "LOCKED"
)

// AccountingPeriod is one calendar month of the fiscal year. At most one
// period covers any given date; a locked period rejects every document
// mutation whose posting date falls inside it.
type AccountingPeriod struct {
	PeriodID  int64        `json:"periodID"`
	Year      int          `json:"year"`
	Month     int          `json:"month"` // 1..12
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// PeriodBounds returns the first and last calendar day of the given month.
func PeriodBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}
