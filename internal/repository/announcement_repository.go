package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcnexs/backend/internal/domain"
)

// AnnouncementFilter captures listing filters.
type AnnouncementFilter struct {
	Type      *domain.AnnouncementType
	CompanyID *int64
	Limit     int
	Offset    int
}

// AnnouncementRepository encapsulates announcement persistence.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *domain.Announcement) error
	Update(ctx context.Context, a *domain.Announcement) error
	Delete(ctx context.Context, id, version int64) error
	GetByID(ctx context.Context, id int64) (*domain.Announcement, error)
	List(ctx context.Context, filter AnnouncementFilter) ([]domain.Announcement, int64, error)
}

type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository instantiates repository.
func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{pool: pool}
}

var announcementSelect = `SELECT a.id, a.title, a.description, a.type, a.list_of_requirements_or_services, a.company_id,
               a.version, a.created_at, a.updated_at, ` + companySummaryColumns("c") + `
        FROM announcements a JOIN companies c ON c.id = a.company_id`

func (r *announcementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	const query = `
        INSERT INTO announcements (title, description, type, list_of_requirements_or_services, company_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, version, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		a.Title,
		a.Description,
		a.Type,
		a.Requirements,
		a.CompanyID,
	).Scan(&a.ID, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	return translateWriteError(err)
}

// Update rewrites the content fields. Ownership is never changed here.
func (r *announcementRepository) Update(ctx context.Context, a *domain.Announcement) error {
	const query = `
        UPDATE announcements SET title=$1, description=$2, type=$3, list_of_requirements_or_services=$4,
            version=version+1, updated_at=NOW()
        WHERE id=$5 AND version=$6
        RETURNING version, updated_at`
	err := r.pool.QueryRow(ctx, query,
		a.Title,
		a.Description,
		a.Type,
		a.Requirements,
		a.ID,
		a.Version,
	).Scan(&a.Version, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return missOrConflict(ctx, r.pool, "announcements", a.ID)
	}
	return err
}

func (r *announcementRepository) Delete(ctx context.Context, id, version int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id=$1 AND version=$2`, id, version)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return missOrConflict(ctx, r.pool, "announcements", id)
	}
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id int64) (*domain.Announcement, error) {
	return scanAnnouncement(r.pool.QueryRow(ctx, announcementSelect+` WHERE a.id=$1`, id))
}

func (r *announcementRepository) List(ctx context.Context, filter AnnouncementFilter) ([]domain.Announcement, int64, error) {
	var w where
	if filter.Type != nil {
		w.add("a.type=$%[1]d", *filter.Type)
	}
	if filter.CompanyID != nil {
		w.add("a.company_id=$%[1]d", *filter.CompanyID)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM announcements a`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s%s ORDER BY a.created_at DESC, a.id DESC LIMIT %d OFFSET %d`,
		announcementSelect, w.String(), limit, offset)

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *a)
	}
	return result, total, rows.Err()
}

func scanAnnouncement(row pgx.Row) (*domain.Announcement, error) {
	var a domain.Announcement
	owner := &domain.Company{}
	dest := []any{
		&a.ID,
		&a.Title,
		&a.Description,
		&a.Type,
		&a.Requirements,
		&a.CompanyID,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
	if err := row.Scan(append(dest, companySummaryDest(owner)...)...); err != nil {
		return nil, err
	}
	a.Company = owner
	return &a, nil
}
