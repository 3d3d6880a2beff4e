package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
	"github.com/tonvq/ketoan_backend/internal/models"
	"github.com/tonvq/ketoan_backend/internal/utils/mapping"
)

const periodColumns = `period_id, year, month, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for accounting periods.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (*models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID, &m.Year, &m.Month, &m.StartDate, &m.EndDate, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindPeriodByID implements portsrepo.PeriodReader.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID int64) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1;`

	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("period %d not found", periodID))
		}
		return nil, apperrors.NewAppError(500, "failed to find period", err)
	}

	period := mapping.ToDomainPeriod(*m)
	return &period, nil
}

// FindPeriodCovering implements portsrepo.PeriodReader.
func (r *PgxPeriodRepository) FindPeriodCovering(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE start_date <= $1 AND end_date >= $1;`

	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no period covers %s", date.Format("2006-01-02")))
		}
		return nil, apperrors.NewAppError(500, "failed to find covering period", err)
	}

	period := mapping.ToDomainPeriod(*m)
	return &period, nil
}

// ListPeriods implements portsrepo.PeriodReader.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, year int) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE year = $1 ORDER BY month;`

	rows, err := r.Pool.Query(ctx, query, year)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list periods", err)
	}
	defer rows.Close()

	var periods []domain.AccountingPeriod
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period row", err)
		}
		periods = append(periods, mapping.ToDomainPeriod(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period rows", err)
	}
	return periods, nil
}

const insertPeriodQuery = `
	INSERT INTO accounting_periods (year, month, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING period_id;
`

// SavePeriod implements portsrepo.PeriodWriter.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) (*domain.AccountingPeriod, error) {
	m := mapping.ToModelPeriod(period)

	err := r.Pool.QueryRow(ctx, insertPeriodQuery,
		m.Year, m.Month, m.StartDate, m.EndDate, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&period.PeriodID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, apperrors.NewAppError(409, fmt.Sprintf("period %d-%02d already exists", m.Year, m.Month), apperrors.ErrDuplicate)
		}
		return nil, apperrors.NewAppError(500, "failed to insert period", err)
	}
	return &period, nil
}

// SavePeriods inserts several periods in one transaction. Used by year
// initialization, all twelve rows commit or none do.
func (r *PgxPeriodRepository) SavePeriods(ctx context.Context, periods []domain.AccountingPeriod) ([]domain.AccountingPeriod, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	saved := make([]domain.AccountingPeriod, len(periods))
	for i, period := range periods {
		m := mapping.ToModelPeriod(period)
		err := tx.QueryRow(ctx, insertPeriodQuery,
			m.Year, m.Month, m.StartDate, m.EndDate, m.Status,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		).Scan(&period.PeriodID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return nil, apperrors.NewAppError(409, fmt.Sprintf("period %d-%02d already exists", m.Year, m.Month), apperrors.ErrDuplicate)
			}
			return nil, apperrors.NewAppError(500, "failed to insert period", err)
		}
		saved[i] = period
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

// UpdatePeriodStatus flips a period's status with the expected current
// status in the WHERE clause. Zero rows affected means either a missing
// period or a concurrent transition; the follow-up existence check tells
// the two apart.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID int64, from, to domain.PeriodStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE accounting_periods
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, periodID, string(from), string(to), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update period status", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounting_periods WHERE period_id = $1);`, periodID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check period existence", err)
		}
		if !exists {
			return apperrors.NewNotFoundError(fmt.Sprintf("period %d not found", periodID))
		}
		return &apperrors.InvalidStateError{Entity: "period", From: string(from), To: string(to)}
	}
	return nil
}
