package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// BalanceResponse defines the aggregate returned for (account, period).
// Closing is computed, never stored.
type BalanceResponse struct {
	AccountCode    string          `json:"accountCode"`
	PeriodID       int64           `json:"periodID"`
	Opening        decimal.Decimal `json:"opening"`
	DebitTurnover  decimal.Decimal `json:"debitTurnover"`
	CreditTurnover decimal.Decimal `json:"creditTurnover"`
	Closing        decimal.Decimal `json:"closing"`
}

// SetOpeningBalanceRequest defines the payload for the opening-balance admin operation.
type SetOpeningBalanceRequest struct {
	Opening decimal.Decimal `json:"opening"`
}

// TrialBalanceResponse lists every account with movement in a period.
type TrialBalanceResponse struct {
	PeriodID int64             `json:"periodID"`
	Rows     []BalanceResponse `json:"rows"`
}

// ToBalanceResponse converts a domain.LedgerBalance to BalanceResponse DTO.
func ToBalanceResponse(b *domain.LedgerBalance) BalanceResponse {
	return BalanceResponse{
		AccountCode:    b.AccountCode,
		PeriodID:       b.PeriodID,
		Opening:        b.Opening,
		DebitTurnover:  b.DebitTurnover,
		CreditTurnover: b.CreditTurnover,
		Closing:        b.Closing(),
	}
}
