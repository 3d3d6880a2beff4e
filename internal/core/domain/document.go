package domain

import "time"

// DocumentType enumerates the statutory journal document kinds. The codes
// are part of the document number contract (PC202501-00001) and are parsed
// back by downstream modules, so they must never change.
type DocumentType string

const (
	DocumentTypeCashPayment      DocumentType = "PC"   // Phiếu chi
	DocumentTypeCashReceipt      DocumentType = "PT"   // Phiếu thu
	DocumentTypeBankDebitAdvice  DocumentType = "BN"   // Báo nợ
	DocumentTypeBankCreditAdvice DocumentType = "BC"   // Báo có
	DocumentTypeGoodsReceipt     DocumentType = "PNK"  // Phiếu nhập kho
	DocumentTypeGoodsIssue       DocumentType = "PXK"  // Phiếu xuất kho
	DocumentTypePurchaseInvoice  DocumentType = "HDMH" // Hóa đơn mua hàng
	DocumentTypeSalesInvoice     DocumentType = "HDBL" // Hóa đơn bán lẻ
)

// DocumentTypes lists every valid document type.
var DocumentTypes = []DocumentType{
	DocumentTypeCashPayment, DocumentTypeCashReceipt,
	DocumentTypeBankDebitAdvice, DocumentTypeBankCreditAdvice,
	DocumentTypeGoodsReceipt, DocumentTypeGoodsIssue,
	DocumentTypePurchaseInvoice, DocumentTypeSalesInvoice,
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	for _, dt := range DocumentTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// DocumentStatus is the lifecycle state of a journal document.
// Draft documents are the only mutable state; Approved and Cancelled are
// terminal for edits.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "DRAFT"
	DocumentStatusApproved  DocumentStatus = "APPROVED"
	DocumentStatusCancelled DocumentStatus = "CANCELLED"
)

// JournalDocument groups the journal lines of a single accounting
// transaction under one system-generated document number.
type JournalDocument struct {
	DocumentID     int64          `json:"documentID"`
	DocumentNumber string         `json:"documentNumber"` // Unique, {TYPE}{YYYY}{MM}-{NNNNN}
	DocumentType   DocumentType   `json:"documentType"`
	DocumentDate   time.Time      `json:"documentDate"`
	PostingDate    time.Time      `json:"postingDate"` // Must fall in an open period
	Description    string         `json:"description"`
	CounterpartyID *int64         `json:"counterpartyID"` // Optional master-data reference
	Status         DocumentStatus `json:"status"`
	Lines          []JournalLine  `json:"lines,omitempty"` // Ordered by Sequence; often loaded separately
	AuditFields
}
