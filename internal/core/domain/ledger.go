package domain

import "github.com/shopspring/decimal"

// LedgerBalance is the per-account, per-period aggregate of approved
// postings. It is a derived read model owned exclusively by the ledger
// aggregator; the journal line table is always the source of truth and the
// row can be rebuilt from it at any time.
type LedgerBalance struct {
	AccountCode    string          `json:"accountCode"`
	PeriodID       int64           `json:"periodID"`
	Opening        decimal.Decimal `json:"opening"`
	DebitTurnover  decimal.Decimal `json:"debitTurnover"`
	CreditTurnover decimal.Decimal `json:"creditTurnover"`
}

// Closing computes the closing balance in the stored sign convention:
// opening + debit turnover - credit turnover. Presentation inverts the sign
// for credit-normal accounts; the stored value never does.
func (b LedgerBalance) Closing() decimal.Decimal {
	return b.Opening.Add(b.DebitTurnover).Sub(b.CreditTurnover)
}
