package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalDocument is the database representation of a document header.
type JournalDocument struct {
	DocumentID     int64
	DocumentNumber string
	DocumentType   string
	DocumentDate   time.Time
	PostingDate    time.Time
	Description    string
	CounterpartyID *int64
	Status         string
	AuditFields
}

// JournalLine is the database representation of one posting line.
type JournalLine struct {
	LineID         int64
	DocumentID     int64
	Sequence       int
	DebitAccount   *string
	CreditAccount  *string
	Amount         decimal.Decimal
	FxAmount       *decimal.Decimal
	CurrencyCode   string
	ExchangeRate   decimal.Decimal
	CounterpartyID *int64
	ItemID         *int64
	Unit           *string
	Quantity       *decimal.Decimal
	UnitPrice      *decimal.Decimal
	Description    string
}
