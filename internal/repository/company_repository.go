package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcnexs/backend/internal/domain"
)

// CompanyFilter narrows the company listing.
type CompanyFilter struct {
	Industry *string
	Limit    int
	Offset   int
}

// CompanyRepository defines persistence access for companies.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	Update(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	GetByEmail(ctx context.Context, email string) (*domain.Company, error)
	List(ctx context.Context, filter CompanyFilter) ([]domain.Company, int64, error)
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository returns a Postgres-backed implementation.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

const companyColumns = `id, name, industry, email, password_hash, founded_year, services,
        description, profile_photo, role, version, created_at, updated_at`

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO companies (name, industry, email, password_hash, founded_year, services, description, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, version, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		company.Name,
		company.Industry,
		company.Email,
		company.PasswordHash,
		company.FoundedYear,
		company.Services,
		company.Description,
		company.Role,
	).Scan(&company.ID, &company.Version, &company.CreatedAt, &company.UpdatedAt)
	return translateWriteError(err)
}

// Update writes profile fields guarded by the version read earlier. Role and
// password hash are carried through unchanged by callers that do not own them.
func (r *companyRepository) Update(ctx context.Context, company *domain.Company) error {
	const query = `
        UPDATE companies SET name=$1, industry=$2, email=$3, password_hash=$4, founded_year=$5,
            services=$6, description=$7, profile_photo=$8, role=$9,
            version=version+1, updated_at=NOW()
        WHERE id=$10 AND version=$11
        RETURNING version, updated_at`

	err := r.pool.QueryRow(ctx, query,
		company.Name,
		company.Industry,
		company.Email,
		company.PasswordHash,
		company.FoundedYear,
		company.Services,
		company.Description,
		company.ProfilePhoto,
		company.Role,
		company.ID,
		company.Version,
	).Scan(&company.Version, &company.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return missOrConflict(ctx, r.pool, "companies", company.ID)
	}
	return translateWriteError(err)
}

func (r *companyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id=$1`
	return scanCompany(r.pool.QueryRow(ctx, query, id))
}

func (r *companyRepository) GetByEmail(ctx context.Context, email string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE email=$1`
	return scanCompany(r.pool.QueryRow(ctx, query, email))
}

func (r *companyRepository) List(ctx context.Context, filter CompanyFilter) ([]domain.Company, int64, error) {
	var w where
	if filter.Industry != nil {
		w.add("industry=$%[1]d", *filter.Industry)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM companies%s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		companyColumns, w.String(), limit, offset)

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *company)
	}
	return result, total, rows.Err()
}

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Industry,
		&c.Email,
		&c.PasswordHash,
		&c.FoundedYear,
		&c.Services,
		&c.Description,
		&c.ProfilePhoto,
		&c.Role,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// companySummaryColumns selects the public part of a joined company row.
func companySummaryColumns(alias string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.name, %[1]s.email, %[1]s.industry, %[1]s.profile_photo, %[1]s.role", alias)
}

func companySummaryDest(c *domain.Company) []any {
	return []any{&c.ID, &c.Name, &c.Email, &c.Industry, &c.ProfilePhoto, &c.Role}
}
