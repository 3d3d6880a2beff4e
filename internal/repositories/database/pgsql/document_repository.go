package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
	"github.com/tonvq/ketoan_backend/internal/models"
	"github.com/tonvq/ketoan_backend/internal/utils/accounting"
	"github.com/tonvq/ketoan_backend/internal/utils/mapping"
	"github.com/tonvq/ketoan_backend/internal/utils/numbering"
	"github.com/tonvq/ketoan_backend/internal/utils/pagination"
)

const documentColumns = `document_id, document_number, document_type, document_date, posting_date, description, counterparty_id, status, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, document_id, sequence, debit_account, credit_account, amount, fx_amount, currency_code, exchange_rate, counterparty_id, item_id, unit, quantity, unit_price, description`

// allocatorLockTimeout bounds the wait on the sequence row so a stuck
// transaction surfaces as ErrAllocatorBusy instead of a hung request.
const allocatorLockTimeout = "3s"

// isLockNotAvailable reports whether the error is Postgres 55P03, raised
// when lock_timeout expires while waiting on a row lock.
func isLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for journal documents.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

func scanDocument(row pgx.Row) (*models.JournalDocument, error) {
	var m models.JournalDocument
	err := row.Scan(
		&m.DocumentID, &m.DocumentNumber, &m.DocumentType, &m.DocumentDate, &m.PostingDate,
		&m.Description, &m.CounterpartyID, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanLine(row pgx.Row) (*models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID, &m.DocumentID, &m.Sequence, &m.DebitAccount, &m.CreditAccount,
		&m.Amount, &m.FxAmount, &m.CurrencyCode, &m.ExchangeRate,
		&m.CounterpartyID, &m.ItemID, &m.Unit, &m.Quantity, &m.UnitPrice, &m.Description,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindDocumentByID retrieves the document header with its lines.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID int64) (*domain.JournalDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM journal_documents WHERE document_id = $1;`

	m, err := scanDocument(r.Pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("document %d not found", documentID))
		}
		return nil, apperrors.NewAppError(500, "failed to find document", err)
	}

	doc := mapping.ToDomainDocument(*m)
	lines, err := r.FindLinesByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return &doc, nil
}

// FindLinesByDocumentID retrieves the document's lines ordered by sequence.
func (r *PgxDocumentRepository) FindLinesByDocumentID(ctx context.Context, documentID int64) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE document_id = $1 ORDER BY sequence;`

	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query document lines", err)
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row", err)
		}
		lines = append(lines, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows", err)
	}
	return mapping.ToDomainLineSlice(lines), nil
}

// ListDocuments retrieves a filtered page of document headers using keyset
// pagination on (posting_date, document_id) descending.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.ListDocumentsFilter, limit int, nextToken *string) ([]domain.JournalDocument, *string, error) {
	query := `SELECT ` + documentColumns + ` FROM journal_documents WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	addArg := func(clause string, value interface{}) {
		query += fmt.Sprintf(clause, argNum)
		args = append(args, value)
		argNum++
	}

	if filter.DocumentType != nil {
		addArg(" AND document_type = $%d", string(*filter.DocumentType))
	}
	if filter.Status != nil {
		addArg(" AND status = $%d", string(*filter.Status))
	}
	if filter.FromDate != nil {
		addArg(" AND posting_date >= $%d", *filter.FromDate)
	}
	if filter.ToDate != nil {
		addArg(" AND posting_date <= $%d", *filter.ToDate)
	}
	if filter.CounterpartyID != nil {
		addArg(" AND counterparty_id = $%d", *filter.CounterpartyID)
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (document_number ILIKE $%d OR description ILIKE $%d)", argNum, argNum)
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	if nextToken != nil {
		date, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		query += fmt.Sprintf(" AND (posting_date, document_id) < ($%d, $%d)", argNum, argNum+1)
		args = append(args, date, id)
		argNum += 2
	}

	query += fmt.Sprintf(" ORDER BY posting_date DESC, document_id DESC LIMIT $%d;", argNum)
	args = append(args, limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list documents", err)
	}
	defer rows.Close()

	var docs []domain.JournalDocument
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan document row", err)
		}
		docs = append(docs, mapping.ToDomainDocument(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating document rows", err)
	}

	var token *string
	if len(docs) == limit {
		last := docs[len(docs)-1]
		t := pagination.EncodeToken(last.PostingDate, last.DocumentID)
		token = &t
	}
	return docs, token, nil
}

// allocateNumber reserves the next document number for (type, year, month)
// of the posting date. The per-month counter row is the serialization
// point: SELECT ... FOR UPDATE holds it until the surrounding transaction
// commits, so two concurrent creates for the same month queue up and get
// consecutive values with no gaps from rollbacks.
func (r *PgxDocumentRepository) allocateNumber(ctx context.Context, tx pgx.Tx, docType domain.DocumentType, postingDate time.Time) (string, error) {
	year, month := postingDate.Year(), int(postingDate.Month())

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s';", allocatorLockTimeout)); err != nil {
		return "", apperrors.NewAppError(500, "failed to set lock timeout", err)
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO document_sequences (document_type, year, month, next_value)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (document_type, year, month) DO NOTHING;
	`, string(docType), year, month)
	if err != nil {
		// Two transactions racing to create a fresh month's counter row
		// can block here too, under the same lock_timeout.
		if isLockNotAvailable(err) {
			return "", apperrors.ErrAllocatorBusy
		}
		return "", apperrors.NewAppError(500, "failed to ensure sequence row", err)
	}

	var next int
	err = tx.QueryRow(ctx, `
		SELECT next_value FROM document_sequences
		WHERE document_type = $1 AND year = $2 AND month = $3
		FOR UPDATE;
	`, string(docType), year, month).Scan(&next)
	if err != nil {
		if isLockNotAvailable(err) {
			return "", apperrors.ErrAllocatorBusy
		}
		return "", apperrors.NewAppError(500, "failed to lock sequence row", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE document_sequences SET next_value = next_value + 1
		WHERE document_type = $1 AND year = $2 AND month = $3;
	`, string(docType), year, month)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to advance sequence", err)
	}

	return numbering.Format(docType, year, month, next), nil
}

func insertLines(ctx context.Context, tx pgx.Tx, documentID int64, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_lines (document_id, sequence, debit_account, credit_account, amount, fx_amount, currency_code, exchange_rate, counterparty_id, item_id, unit, quantity, unit_price, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for i := range lines {
		m := mapping.ToModelLine(lines[i])
		batch.Queue(query,
			documentID, m.Sequence, m.DebitAccount, m.CreditAccount, m.Amount, m.FxAmount,
			m.CurrencyCode, m.ExchangeRate, m.CounterpartyID, m.ItemID, m.Unit, m.Quantity, m.UnitPrice, m.Description,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert journal line", err)
		}
	}
	return nil
}

// SaveDocument allocates the document number and inserts the header and
// lines in one transaction. A failed insert rolls the counter back with
// the rest, so numbers stay gapless.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.JournalDocument, lines []domain.JournalLine) (*domain.JournalDocument, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	number, err := r.allocateNumber(ctx, tx, doc.DocumentType, doc.PostingDate)
	if err != nil {
		return nil, err
	}
	doc.DocumentNumber = number

	m := mapping.ToModelDocument(doc)
	err = tx.QueryRow(ctx, `
		INSERT INTO journal_documents (document_number, document_type, document_date, posting_date, description, counterparty_id, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING document_id;
	`,
		m.DocumentNumber, m.DocumentType, m.DocumentDate, m.PostingDate, m.Description,
		m.CounterpartyID, m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&doc.DocumentID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, &apperrors.DuplicateNumberError{Number: number}
		}
		return nil, apperrors.NewAppError(500, "failed to insert document", err)
	}

	for i := range lines {
		lines[i].DocumentID = doc.DocumentID
	}
	if err := insertLines(ctx, tx, doc.DocumentID, lines); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	doc.Lines = lines
	return &doc, nil
}

// UpdateDocument updates the draft header and, when lines is non-nil,
// replaces the whole line set in the same transaction.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, doc domain.JournalDocument, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelDocument(doc)
	tag, err := tx.Exec(ctx, `
		UPDATE journal_documents
		SET document_date = $2, posting_date = $3, description = $4, counterparty_id = $5, last_updated_at = $6, last_updated_by = $7
		WHERE document_id = $1 AND status = $8;
	`,
		m.DocumentID, m.DocumentDate, m.PostingDate, m.Description, m.CounterpartyID,
		m.LastUpdatedAt, m.LastUpdatedBy, string(domain.DocumentStatusDraft),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update document", err)
	}
	if tag.RowsAffected() == 0 {
		return r.editabilityError(ctx, doc.DocumentID)
	}

	if lines != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE document_id = $1;`, doc.DocumentID); err != nil {
			return apperrors.NewAppError(500, "failed to delete old lines", err)
		}
		for i := range lines {
			lines[i].DocumentID = doc.DocumentID
		}
		if err := insertLines(ctx, tx, doc.DocumentID, lines); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteDocument removes a draft document; the lines go with it via the
// foreign key cascade.
func (r *PgxDocumentRepository) DeleteDocument(ctx context.Context, documentID int64) error {
	tag, err := r.Pool.Exec(ctx, `
		DELETE FROM journal_documents WHERE document_id = $1 AND status = $2;
	`, documentID, string(domain.DocumentStatusDraft))
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete document", err)
	}
	if tag.RowsAffected() == 0 {
		return r.editabilityError(ctx, documentID)
	}
	return nil
}

// editabilityError distinguishes "document missing" from "document not in
// draft" after a guarded write matched zero rows.
func (r *PgxDocumentRepository) editabilityError(ctx context.Context, documentID int64) error {
	var status string
	err := r.Pool.QueryRow(ctx, `SELECT status FROM journal_documents WHERE document_id = $1;`, documentID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError(fmt.Sprintf("document %d not found", documentID))
		}
		return apperrors.NewAppError(500, "failed to check document status", err)
	}
	return &apperrors.DocumentNotEditableError{DocumentID: documentID, Status: status}
}

// ApproveDocument flips draft -> approved and applies the lines to the
// ledger aggregate atomically. The document row is locked first so the
// line set cannot change underneath, the balance invariant is re-checked
// on the locked set, and the covering period row is read inside the
// transaction so a concurrent lock loses cleanly.
func (r *PgxDocumentRepository) ApproveDocument(ctx context.Context, documentID int64, userID string, at time.Time) error {
	return r.transition(ctx, documentID, domain.DocumentStatusDraft, domain.DocumentStatusApproved, 1, userID, at)
}

// CancelDocument flips approved -> cancelled and reverses the ledger
// aggregate in the same transaction. Lines are preserved for audit.
func (r *PgxDocumentRepository) CancelDocument(ctx context.Context, documentID int64, userID string, at time.Time) error {
	return r.transition(ctx, documentID, domain.DocumentStatusApproved, domain.DocumentStatusCancelled, -1, userID, at)
}

func (r *PgxDocumentRepository) transition(ctx context.Context, documentID int64, from, to domain.DocumentStatus, sign int64, userID string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status string
	var postingDate time.Time
	err = tx.QueryRow(ctx, `
		SELECT status, posting_date FROM journal_documents WHERE document_id = $1 FOR UPDATE;
	`, documentID).Scan(&status, &postingDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError(fmt.Sprintf("document %d not found", documentID))
		}
		return apperrors.NewAppError(500, "failed to lock document", err)
	}
	if status != string(from) {
		return &apperrors.InvalidStateError{Entity: "document", From: status, To: string(to)}
	}

	lines, err := lockedDocumentLines(ctx, tx, documentID)
	if err != nil {
		return err
	}
	if to == domain.DocumentStatusApproved {
		if err := accounting.CheckBalanced(lines); err != nil {
			return err
		}
	}

	periodID, err := r.openPeriodID(ctx, tx, postingDate)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE journal_documents SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE document_id = $1;
	`, documentID, string(to), at, userID); err != nil {
		return apperrors.NewAppError(500, "failed to update document status", err)
	}

	if err := r.applyToLedger(ctx, tx, lines, periodID, sign); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// lockedDocumentLines reads the line set inside the transaction that
// holds the document-row lock. Line writers run behind a guarded update
// of the same row, so the set cannot change until this commits.
func lockedDocumentLines(ctx context.Context, tx pgx.Tx, documentID int64) ([]domain.JournalLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT debit_account, credit_account, amount FROM journal_lines WHERE document_id = $1;
	`, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read document lines", err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var line domain.JournalLine
		if err := rows.Scan(&line.DebitAccount, &line.CreditAccount, &line.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows", err)
	}
	return lines, nil
}

// openPeriodID returns the id of the open period covering the posting
// date. The row is locked FOR SHARE so a concurrent period lock waits for
// this transaction instead of racing it.
func (r *PgxDocumentRepository) openPeriodID(ctx context.Context, tx pgx.Tx, postingDate time.Time) (int64, error) {
	var periodID int64
	var status string
	err := tx.QueryRow(ctx, `
		SELECT period_id, status FROM accounting_periods
		WHERE start_date <= $1 AND end_date >= $1
		FOR SHARE;
	`, postingDate).Scan(&periodID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewNotFoundError(fmt.Sprintf("no accounting period covers %s", postingDate.Format("2006-01-02")))
		}
		return 0, apperrors.NewAppError(500, "failed to read covering period", err)
	}
	if status != string(domain.PeriodStatusOpen) {
		return 0, &apperrors.PeriodLockedError{Year: postingDate.Year(), Month: int(postingDate.Month())}
	}
	return periodID, nil
}

// applyToLedger folds the document's lines into the (account, period)
// aggregates. sign +1 applies, -1 reverses. Amounts are grouped per
// account first so each touched row gets exactly one upsert.
func (r *PgxDocumentRepository) applyToLedger(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine, periodID, sign int64) error {
	type turnover struct {
		debit  decimal.Decimal
		credit decimal.Decimal
	}
	changes := make(map[string]turnover)

	factor := decimal.NewFromInt(sign)
	for i := range lines {
		line := &lines[i]
		signed := line.Amount.Mul(factor)
		if line.HasDebit() {
			t := changes[*line.DebitAccount]
			t.debit = t.debit.Add(signed)
			changes[*line.DebitAccount] = t
		}
		if line.HasCredit() {
			t := changes[*line.CreditAccount]
			t.credit = t.credit.Add(signed)
			changes[*line.CreditAccount] = t
		}
	}

	batch := &pgx.Batch{}
	for code, t := range changes {
		batch.Queue(`
			INSERT INTO ledger_balances (account_code, period_id, opening, debit_turnover, credit_turnover)
			VALUES ($1, $2, 0, $3, $4)
			ON CONFLICT (account_code, period_id) DO UPDATE
			SET debit_turnover = ledger_balances.debit_turnover + EXCLUDED.debit_turnover,
			    credit_turnover = ledger_balances.credit_turnover + EXCLUDED.credit_turnover;
		`, code, periodID, t.debit, t.credit)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range changes {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to upsert ledger balance", err)
		}
	}
	return nil
}
