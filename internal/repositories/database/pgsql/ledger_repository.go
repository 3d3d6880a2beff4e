package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
	"github.com/tonvq/ketoan_backend/internal/models"
	"github.com/tonvq/ketoan_backend/internal/utils/mapping"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger aggregates.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// FindBalance retrieves the aggregate row for (account, period). A missing
// row means no opening balance and no movement, returned as zeros.
func (r *PgxLedgerRepository) FindBalance(ctx context.Context, accountCode string, periodID int64) (*domain.LedgerBalance, error) {
	var m models.LedgerBalance
	err := r.Pool.QueryRow(ctx, `
		SELECT account_code, period_id, opening, debit_turnover, credit_turnover
		FROM ledger_balances WHERE account_code = $1 AND period_id = $2;
	`, accountCode, periodID).Scan(&m.AccountCode, &m.PeriodID, &m.Opening, &m.DebitTurnover, &m.CreditTurnover)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.LedgerBalance{
				AccountCode:    accountCode,
				PeriodID:       periodID,
				Opening:        decimal.Zero,
				DebitTurnover:  decimal.Zero,
				CreditTurnover: decimal.Zero,
			}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger balance", err)
	}
	balance := mapping.ToDomainLedgerBalance(m)
	return &balance, nil
}

// ListBalancesByPeriod retrieves every aggregate row of a period ordered by
// account code.
func (r *PgxLedgerRepository) ListBalancesByPeriod(ctx context.Context, periodID int64) ([]domain.LedgerBalance, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT account_code, period_id, opening, debit_turnover, credit_turnover
		FROM ledger_balances WHERE period_id = $1 ORDER BY account_code;
	`, periodID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list ledger balances", err)
	}
	defer rows.Close()

	var balances []domain.LedgerBalance
	for rows.Next() {
		var m models.LedgerBalance
		if err := rows.Scan(&m.AccountCode, &m.PeriodID, &m.Opening, &m.DebitTurnover, &m.CreditTurnover); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger balance row", err)
		}
		balances = append(balances, mapping.ToDomainLedgerBalance(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger balance rows", err)
	}
	return balances, nil
}

// RebuildBalance recomputes the turnovers of (account, period) by summing
// the lines of approved documents posted in the period's date range. The
// opening balance is preserved. This is the repair path when the
// incremental aggregate is suspected to have drifted.
func (r *PgxLedgerRepository) RebuildBalance(ctx context.Context, accountCode string, periodID int64) (*domain.LedgerBalance, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var m models.LedgerBalance
	err = tx.QueryRow(ctx, `
		WITH turnovers AS (
			SELECT
				COALESCE(SUM(l.amount) FILTER (WHERE l.debit_account = $1), 0) AS debit_turnover,
				COALESCE(SUM(l.amount) FILTER (WHERE l.credit_account = $1), 0) AS credit_turnover
			FROM journal_lines l
			JOIN journal_documents d ON d.document_id = l.document_id
			JOIN accounting_periods p ON p.period_id = $2
			WHERE d.status = 'APPROVED'
			  AND d.posting_date >= p.start_date
			  AND d.posting_date <= p.end_date
			  AND (l.debit_account = $1 OR l.credit_account = $1)
		)
		INSERT INTO ledger_balances (account_code, period_id, opening, debit_turnover, credit_turnover)
		SELECT $1, $2, 0, t.debit_turnover, t.credit_turnover FROM turnovers t
		ON CONFLICT (account_code, period_id) DO UPDATE
		SET debit_turnover = EXCLUDED.debit_turnover,
		    credit_turnover = EXCLUDED.credit_turnover
		RETURNING account_code, period_id, opening, debit_turnover, credit_turnover;
	`, accountCode, periodID).Scan(&m.AccountCode, &m.PeriodID, &m.Opening, &m.DebitTurnover, &m.CreditTurnover)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to rebuild ledger balance", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	balance := mapping.ToDomainLedgerBalance(m)
	return &balance, nil
}

// SetOpeningBalance upserts the opening balance of (account, period)
// without touching turnovers.
func (r *PgxLedgerRepository) SetOpeningBalance(ctx context.Context, accountCode string, periodID int64, opening decimal.Decimal) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO ledger_balances (account_code, period_id, opening, debit_turnover, credit_turnover)
		VALUES ($1, $2, $3, 0, 0)
		ON CONFLICT (account_code, period_id) DO UPDATE SET opening = EXCLUDED.opening;
	`, accountCode, periodID, opening)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set opening balance", err)
	}
	return nil
}
