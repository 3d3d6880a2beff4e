package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tonvq/ketoan_backend/internal/apperrors"
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portsrepo "github.com/tonvq/ketoan_backend/internal/core/ports/repositories"
	"github.com/tonvq/ketoan_backend/internal/models"
	"github.com/tonvq/ketoan_backend/internal/utils/mapping"
)

const accountColumns = `code, name, class, level, parent_code, nature, postable, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.Code, &m.Name, &m.Class, &m.Level, &m.ParentCode, &m.Nature, &m.Postable, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindAccountByCode implements portsrepo.AccountReader.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", code))
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+code, err)
	}

	account := mapping.ToDomainAccount(*m)
	return &account, nil
}

// FindAccountsByCodes implements portsrepo.AccountReader.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	if len(codes) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, codes)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by codes", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(codes))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts[m.Code] = mapping.ToDomainAccount(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// ListAccounts implements portsrepo.AccountReader.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, class *domain.AccountClass, parentCode *string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if class != nil {
		query += fmt.Sprintf(" AND class = $%d", argNum)
		args = append(args, string(*class))
		argNum++
	}
	if parentCode != nil {
		query += fmt.Sprintf(" AND parent_code = $%d", argNum)
		args = append(args, *parentCode)
		argNum++
	}
	query += " ORDER BY code;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// CountChildren implements portsrepo.AccountReader.
func (r *PgxAccountRepository) CountChildren(ctx context.Context, code string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM accounts WHERE parent_code = $1;`
	if err := r.Pool.QueryRow(ctx, query, code).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count child accounts of "+code, err)
	}
	return count, nil
}

// HasPostings implements portsrepo.AccountReader.
func (r *PgxAccountRepository) HasPostings(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM journal_lines WHERE debit_account = $1 OR credit_account = $1);`
	if err := r.Pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check postings of account "+code, err)
	}
	return exists, nil
}

// SaveAccount implements portsrepo.AccountWriter.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.Code, m.Name, m.Class, m.Level, m.ParentCode, m.Nature, m.Postable, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewAppError(409, fmt.Sprintf("account %s already exists", m.Code), apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert account "+m.Code, err)
	}
	return nil
}

// UpdateAccount implements portsrepo.AccountWriter.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, postable = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE code = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.Code, m.Name, m.Postable, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update account "+m.Code, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", m.Code))
	}
	return nil
}

// DeleteAccount implements portsrepo.AccountWriter.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, code string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE code = $1;`, code)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete account "+code, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", code))
	}
	return nil
}
