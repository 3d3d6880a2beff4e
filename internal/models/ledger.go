package models

import "github.com/shopspring/decimal"

// LedgerBalance is the database representation of one aggregate row,
// keyed by (account_code, period_id).
type LedgerBalance struct {
	AccountCode    string
	PeriodID       int64
	Opening        decimal.Decimal
	DebitTurnover  decimal.Decimal
	CreditTurnover decimal.Decimal
}
