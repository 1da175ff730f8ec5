package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/club-admin/internal/domain"
)

// Sentinel errors surfaced by repositories.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// StaffRepository handles persistence for staff accounts. Emails are unique
// case-insensitively; lookups by email ignore case. Accounts are never hard
// deleted, deactivation is the only removal.
//
// Mutations are per-field setters, never a whole-record write. Two writers
// touching the same account can interleave with reads; a setter that only
// owns its column cannot clobber a concurrent deactivation or role change
// with a stale snapshot.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffAccount) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateActive(ctx context.Context, id string, active bool) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	GetByID(ctx context.Context, id string) (*domain.StaffAccount, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffAccount, error)
	List(ctx context.Context) ([]domain.StaffAccount, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the Postgres-backed repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, name, email, password_hash, role, active_flag, last_login, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffAccount) error {
	const query = `
        INSERT INTO staff_accounts (name, email, password_hash, role, active_flag, last_login)
        VALUES ($1, lower($2), $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.Active,
		staff.LastLogin,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *staffRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE staff_accounts SET password_hash=$2, updated_at=NOW() WHERE id=$1`
	return r.execOne(ctx, query, id, passwordHash)
}

func (r *staffRepository) UpdateActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE staff_accounts SET active_flag=$2, updated_at=NOW() WHERE id=$1`
	return r.execOne(ctx, query, id, active)
}

func (r *staffRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	const query = `UPDATE staff_accounts SET role=$2, updated_at=NOW() WHERE id=$1`
	return r.execOne(ctx, query, id, role)
}

func (r *staffRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE staff_accounts SET last_login=$2, updated_at=NOW() WHERE id=$1`
	return r.execOne(ctx, query, id, at)
}

func (r *staffRepository) execOne(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffAccount, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff_accounts WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffAccount, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff_accounts WHERE email=lower($1)`
	return r.scanOne(r.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
}

func (r *staffRepository) List(ctx context.Context) ([]domain.StaffAccount, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff_accounts ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffAccount
	for rows.Next() {
		var staff domain.StaffAccount
		if err := rows.Scan(
			&staff.ID,
			&staff.Name,
			&staff.Email,
			&staff.PasswordHash,
			&staff.Role,
			&staff.Active,
			&staff.LastLogin,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) scanOne(row pgx.Row) (*domain.StaffAccount, error) {
	var staff domain.StaffAccount
	if err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.Active,
		&staff.LastLogin,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
