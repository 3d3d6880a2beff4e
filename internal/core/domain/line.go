package domain

import "github.com/shopspring/decimal"

// JournalLine is one debit/credit posting within a document. A line may set
// both account sides (a self-contained balanced micro-posting) or only one,
// in which case other lines in the same document supply the offsetting side.
// Lines are immutable once the parent document leaves draft.
type JournalLine struct {
	LineID        int64            `json:"lineID"`
	DocumentID    int64            `json:"documentID"`
	Sequence      int              `json:"sequence"` // Unique within the document
	DebitAccount  *string          `json:"debitAccount"`
	CreditAccount *string          `json:"creditAccount"`
	Amount        decimal.Decimal  `json:"amount"` // Always > 0, VND, 2 fractional digits
	FxAmount      *decimal.Decimal `json:"fxAmount"`
	CurrencyCode  string           `json:"currencyCode"` // Default VND
	ExchangeRate  decimal.Decimal  `json:"exchangeRate"` // Default 1, up to 4 fractional digits

	// Optional sub-ledger detail.
	CounterpartyID *int64           `json:"counterpartyID"`
	ItemID         *int64           `json:"itemID"`
	Unit           *string          `json:"unit"`
	Quantity       *decimal.Decimal `json:"quantity"`
	UnitPrice      *decimal.Decimal `json:"unitPrice"`
	Description    string           `json:"description"`
}

// HasDebit reports whether the line posts to a debit account.
func (l JournalLine) HasDebit() bool {
	return l.DebitAccount != nil && *l.DebitAccount != ""
}

// HasCredit reports whether the line posts to a credit account.
func (l JournalLine) HasCredit() bool {
	return l.CreditAccount != nil && *l.CreditAccount != ""
}
