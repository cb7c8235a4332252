package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcnexs/backend/internal/domain"
)

// ProjectFilter captures listing filters. MemberID restricts rows to
// projects where that company is customer or executor.
type ProjectFilter struct {
	Stage    *domain.ProjectStage
	Status   *string
	MemberID *int64
	Limit    int
	Offset   int
}

// ProjectRepository encapsulates project persistence.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id, version int64) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, int64, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository instantiates repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

var projectSelect = `SELECT p.id, p.name, p.status, p.description, p.stage, p.customer_company_id,
               p.executor_company_id, p.functions, p.expected_result, p.version, p.created_at, p.updated_at,
               ` + companySummaryColumns("cc") + `, ` + companySummaryColumns("ce") + `
        FROM projects p
        JOIN companies cc ON cc.id = p.customer_company_id
        JOIN companies ce ON ce.id = p.executor_company_id`

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	const query = `
        INSERT INTO projects (name, status, description, stage, customer_company_id, executor_company_id, functions, expected_result)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, version, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		p.Name,
		p.Status,
		p.Description,
		p.Stage,
		p.CustomerCompanyID,
		p.ExecutorCompanyID,
		p.Functions,
		p.ExpectedResult,
	).Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	return translateWriteError(err)
}

// Update rewrites descriptive fields. Both relationship slots are immutable.
func (r *projectRepository) Update(ctx context.Context, p *domain.Project) error {
	const query = `
        UPDATE projects SET name=$1, status=$2, description=$3, stage=$4, functions=$5, expected_result=$6,
            version=version+1, updated_at=NOW()
        WHERE id=$7 AND version=$8
        RETURNING version, updated_at`
	err := r.pool.QueryRow(ctx, query,
		p.Name,
		p.Status,
		p.Description,
		p.Stage,
		p.Functions,
		p.ExpectedResult,
		p.ID,
		p.Version,
	).Scan(&p.Version, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return missOrConflict(ctx, r.pool, "projects", p.ID)
	}
	return err
}

func (r *projectRepository) Delete(ctx context.Context, id, version int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id=$1 AND version=$2`, id, version)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return missOrConflict(ctx, r.pool, "projects", id)
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return scanProject(r.pool.QueryRow(ctx, projectSelect+` WHERE p.id=$1`, id))
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]domain.Project, int64, error) {
	var w where
	if filter.Stage != nil {
		w.add("p.stage=$%[1]d", *filter.Stage)
	}
	if filter.Status != nil {
		w.add("p.status=$%[1]d", *filter.Status)
	}
	if filter.MemberID != nil {
		w.add("(p.customer_company_id=$%[1]d OR p.executor_company_id=$%[1]d)", *filter.MemberID)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects p`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s%s ORDER BY p.created_at DESC, p.id DESC LIMIT %d OFFSET %d`,
		projectSelect, w.String(), limit, offset)

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	return result, total, rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	customer, executor := &domain.Company{}, &domain.Company{}
	dest := []any{
		&p.ID,
		&p.Name,
		&p.Status,
		&p.Description,
		&p.Stage,
		&p.CustomerCompanyID,
		&p.ExecutorCompanyID,
		&p.Functions,
		&p.ExpectedResult,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	dest = append(dest, companySummaryDest(customer)...)
	dest = append(dest, companySummaryDest(executor)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	p.CustomerCompany = customer
	p.ExecutorCompany = executor
	return &p, nil
}
