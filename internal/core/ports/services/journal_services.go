package services

import (
	"context"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
	"github.com/tonvq/ketoan_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal documents.
type JournalReaderSvc interface {
	// GetDocument retrieves a document with its lines.
	GetDocument(ctx context.Context, documentID int64) (*domain.JournalDocument, error)

	// ListDocuments retrieves a filtered, paginated list of document headers.
	ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)
}

// JournalWriterSvc drives the document lifecycle state machine:
// draft --approve--> approved --cancel--> cancelled; draft --delete--> gone.
type JournalWriterSvc interface {
	// CreateDocument validates the request (open period, date ordering,
	// postable accounts, balance invariant), allocates a document number and
	// persists the document with its lines atomically in draft status.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.JournalDocument, error)

	// UpdateDocument mutates a draft document; a posting-date change
	// re-validates the period lock and a line replacement re-runs the full
	// line validation pipeline.
	UpdateDocument(ctx context.Context, documentID int64, req dto.UpdateDocumentRequest, userID string) (*domain.JournalDocument, error)

	// DeleteDocument removes a draft document, cascading its lines.
	DeleteDocument(ctx context.Context, documentID int64, userID string) error

	// ApproveDocument transitions draft -> approved, re-validating balance
	// and period lock under a write lock, and applies the lines to the
	// ledger aggregate in the same transaction.
	ApproveDocument(ctx context.Context, documentID int64, userID string) (*domain.JournalDocument, error)

	// CancelDocument transitions approved -> cancelled and reverses the
	// ledger aggregate in the same transaction. Lines are preserved.
	CancelDocument(ctx context.Context, documentID int64, userID string) (*domain.JournalDocument, error)
}

// JournalSvcFacade combines all journal service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
