package mapping

import (
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	"github.com/tonvq/ketoan_backend/internal/models"
)

// ToModelDocument converts a domain JournalDocument header to its model form.
// Lines are mapped separately.
func ToModelDocument(d domain.JournalDocument) models.JournalDocument {
	return models.JournalDocument{
		DocumentID:     d.DocumentID,
		DocumentNumber: d.DocumentNumber,
		DocumentType:   string(d.DocumentType),
		DocumentDate:   d.DocumentDate,
		PostingDate:    d.PostingDate,
		Description:    d.Description,
		CounterpartyID: d.CounterpartyID,
		Status:         string(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model JournalDocument header to its domain form.
func ToDomainDocument(m models.JournalDocument) domain.JournalDocument {
	return domain.JournalDocument{
		DocumentID:     m.DocumentID,
		DocumentNumber: m.DocumentNumber,
		DocumentType:   domain.DocumentType(m.DocumentType),
		DocumentDate:   m.DocumentDate,
		PostingDate:    m.PostingDate,
		Description:    m.Description,
		CounterpartyID: m.CounterpartyID,
		Status:         domain.DocumentStatus(m.Status),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLine converts a domain JournalLine to its model form.
func ToModelLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:         d.LineID,
		DocumentID:     d.DocumentID,
		Sequence:       d.Sequence,
		DebitAccount:   d.DebitAccount,
		CreditAccount:  d.CreditAccount,
		Amount:         d.Amount,
		FxAmount:       d.FxAmount,
		CurrencyCode:   d.CurrencyCode,
		ExchangeRate:   d.ExchangeRate,
		CounterpartyID: d.CounterpartyID,
		ItemID:         d.ItemID,
		Unit:           d.Unit,
		Quantity:       d.Quantity,
		UnitPrice:      d.UnitPrice,
		Description:    d.Description,
	}
}

// ToDomainLine converts a model JournalLine to its domain form.
func ToDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:         m.LineID,
		DocumentID:     m.DocumentID,
		Sequence:       m.Sequence,
		DebitAccount:   m.DebitAccount,
		CreditAccount:  m.CreditAccount,
		Amount:         m.Amount,
		FxAmount:       m.FxAmount,
		CurrencyCode:   m.CurrencyCode,
		ExchangeRate:   m.ExchangeRate,
		CounterpartyID: m.CounterpartyID,
		ItemID:         m.ItemID,
		Unit:           m.Unit,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		Description:    m.Description,
	}
}

// ToDomainLineSlice converts a slice of model lines to domain lines.
func ToDomainLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLine(m)
	}
	return ds
}

// ToDomainLedgerBalance converts a model LedgerBalance to its domain form.
func ToDomainLedgerBalance(m models.LedgerBalance) domain.LedgerBalance {
	return domain.LedgerBalance{
		AccountCode:    m.AccountCode,
		PeriodID:       m.PeriodID,
		Opening:        m.Opening,
		DebitTurnover:  m.DebitTurnover,
		CreditTurnover: m.CreditTurnover,
	}
}
