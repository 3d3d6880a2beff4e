package repositories

import (
	"context"
	"time"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// ListDocumentsFilter narrows ListDocuments results. Nil fields match everything.
type ListDocumentsFilter struct {
	DocumentType   *domain.DocumentType
	Status         *domain.DocumentStatus
	FromDate       *time.Time // inclusive, on posting date
	ToDate         *time.Time // inclusive, on posting date
	CounterpartyID *int64
	Search         string // matches document number or description
}

// DocumentReader defines read operations for journal documents.
type DocumentReader interface {
	// FindDocumentByID retrieves a document header by its identifier.
	FindDocumentByID(ctx context.Context, documentID int64) (*domain.JournalDocument, error)

	// FindLinesByDocumentID retrieves the document's lines ordered by sequence.
	FindLinesByDocumentID(ctx context.Context, documentID int64) ([]domain.JournalLine, error)

	// ListDocuments retrieves a filtered, token-paginated list of document
	// headers. Returns the page, a token for the next page, and an error.
	ListDocuments(ctx context.Context, filter ListDocumentsFilter, limit int, nextToken *string) ([]domain.JournalDocument, *string, error)
}

// DocumentWriter defines the atomic lifecycle operations for journal
// documents. Each method is one database transaction: the document, its
// lines, the allocated number and any ledger effect commit together or not
// at all.
type DocumentWriter interface {
	// SaveDocument allocates the next document number for the document's
	// type and posting month inside the transaction, then inserts the header
	// and its lines in draft status. The serialization point is a per
	// (type, year, month) sequence row locked with SELECT ... FOR UPDATE and
	// a bounded lock wait; on wait expiry the call fails with
	// apperrors.ErrAllocatorBusy and nothing commits.
	SaveDocument(ctx context.Context, doc domain.JournalDocument, lines []domain.JournalLine) (*domain.JournalDocument, error)

	// UpdateDocument updates the draft header; when lines is non-nil the
	// whole line set is replaced in the same transaction (line-level patch
	// is not supported).
	UpdateDocument(ctx context.Context, doc domain.JournalDocument, lines []domain.JournalLine) error

	// DeleteDocument removes a draft document and cascades its lines.
	DeleteDocument(ctx context.Context, documentID int64) error

	// ApproveDocument locks the document row (and thereby its immutable
	// line set), re-validates the balance invariant and the period lock
	// against current state, flips the status to approved and applies the
	// lines to the ledger aggregate, all in one transaction.
	ApproveDocument(ctx context.Context, documentID int64, userID string, at time.Time) error

	// CancelDocument locks the document row, verifies approved status,
	// flips to cancelled and reverses the ledger aggregate in the same
	// transaction. Lines are never mutated.
	CancelDocument(ctx context.Context, documentID int64, userID string, at time.Time) error
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
