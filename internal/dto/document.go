package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// CreateLineRequest defines one posting line of a document payload.
// At least one of debitAccount/creditAccount must be set; a line may set
// both when it fully represents a balanced micro-posting on its own.
type CreateLineRequest struct {
	Sequence       int              `json:"sequence" binding:"required,min=1"`
	DebitAccount   *string          `json:"debitAccount"`
	CreditAccount  *string          `json:"creditAccount"`
	Amount         decimal.Decimal  `json:"amount" binding:"required"`
	FxAmount       *decimal.Decimal `json:"fxAmount"`
	CurrencyCode   string           `json:"currencyCode"` // defaults to VND
	ExchangeRate   *decimal.Decimal `json:"exchangeRate"` // defaults to 1
	CounterpartyID *int64           `json:"counterpartyID"`
	ItemID         *int64           `json:"itemID"`
	Unit           *string          `json:"unit"`
	Quantity       *decimal.Decimal `json:"quantity"`
	UnitPrice      *decimal.Decimal `json:"unitPrice"`
	Description    string           `json:"description"`
}

// CreateDocumentRequest defines the payload for creating a draft document.
type CreateDocumentRequest struct {
	DocumentType   domain.DocumentType `json:"documentType" binding:"required,oneof=PC PT BN BC PNK PXK HDMH HDBL"`
	DocumentDate   time.Time           `json:"documentDate" binding:"required"`
	PostingDate    time.Time           `json:"postingDate" binding:"required"`
	Description    string              `json:"description"`
	CounterpartyID *int64              `json:"counterpartyID"`
	Lines          []CreateLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateDocumentRequest defines the mutable fields of a draft document.
// When Lines is non-nil the entire line set is replaced; line-level patching
// is not supported.
type UpdateDocumentRequest struct {
	DocumentDate   *time.Time           `json:"documentDate"`
	PostingDate    *time.Time           `json:"postingDate"`
	Description    *string              `json:"description"`
	CounterpartyID *int64               `json:"counterpartyID"`
	Lines          *[]CreateLineRequest `json:"lines"`
}

// ListDocumentsParams holds filters and pagination for listing documents.
type ListDocumentsParams struct {
	DocumentType   *domain.DocumentType
	Status         *domain.DocumentStatus
	FromDate       *time.Time
	ToDate         *time.Time
	CounterpartyID *int64
	Search         string
	Limit          int
	NextToken      *string
}

// LineResponse defines the data returned for one journal line.
type LineResponse struct {
	LineID         int64            `json:"lineID"`
	Sequence       int              `json:"sequence"`
	DebitAccount   *string          `json:"debitAccount"`
	CreditAccount  *string          `json:"creditAccount"`
	Amount         decimal.Decimal  `json:"amount"`
	FxAmount       *decimal.Decimal `json:"fxAmount,omitempty"`
	CurrencyCode   string           `json:"currencyCode"`
	ExchangeRate   decimal.Decimal  `json:"exchangeRate"`
	CounterpartyID *int64           `json:"counterpartyID,omitempty"`
	ItemID         *int64           `json:"itemID,omitempty"`
	Unit           *string          `json:"unit,omitempty"`
	Quantity       *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice      *decimal.Decimal `json:"unitPrice,omitempty"`
	Description    string           `json:"description"`
}

// DocumentResponse defines the data returned for a journal document.
type DocumentResponse struct {
	DocumentID     int64          `json:"documentID"`
	DocumentNumber string         `json:"documentNumber"`
	DocumentType   string         `json:"documentType"`
	DocumentDate   time.Time      `json:"documentDate"`
	PostingDate    time.Time      `json:"postingDate"`
	Description    string         `json:"description"`
	CounterpartyID *int64         `json:"counterpartyID,omitempty"`
	Status         string         `json:"status"`
	Lines          []LineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	CreatedBy      string         `json:"createdBy"`
}

// ListDocumentsResponse is a page of documents plus the next-page token.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to LineResponse DTO.
func ToLineResponse(l *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:         l.LineID,
		Sequence:       l.Sequence,
		DebitAccount:   l.DebitAccount,
		CreditAccount:  l.CreditAccount,
		Amount:         l.Amount,
		FxAmount:       l.FxAmount,
		CurrencyCode:   l.CurrencyCode,
		ExchangeRate:   l.ExchangeRate,
		CounterpartyID: l.CounterpartyID,
		ItemID:         l.ItemID,
		Unit:           l.Unit,
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice,
		Description:    l.Description,
	}
}

// ToDocumentResponse converts a domain.JournalDocument (with any loaded
// lines) to DocumentResponse DTO.
func ToDocumentResponse(d *domain.JournalDocument) DocumentResponse {
	lines := make([]LineResponse, len(d.Lines))
	for i := range d.Lines {
		lines[i] = ToLineResponse(&d.Lines[i])
	}
	return DocumentResponse{
		DocumentID:     d.DocumentID,
		DocumentNumber: d.DocumentNumber,
		DocumentType:   string(d.DocumentType),
		DocumentDate:   d.DocumentDate,
		PostingDate:    d.PostingDate,
		Description:    d.Description,
		CounterpartyID: d.CounterpartyID,
		Status:         string(d.Status),
		Lines:          lines,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}
