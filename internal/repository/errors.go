package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcnexs/backend/internal/listing"
)

var (
	// ErrVersionConflict means the row changed after it was read.
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicateEmail means another company already uses the email.
	ErrDuplicateEmail = errors.New("duplicate company email")
	// ErrMissingReference means a referenced company does not exist.
	ErrMissingReference = errors.New("referenced company does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func translateWriteError(err error) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return ErrDuplicateEmail
	case pgForeignKeyViolation:
		return ErrMissingReference
	}
	return err
}

// missOrConflict explains an UPDATE/DELETE that matched no rows: the row is
// either gone (pgx.ErrNoRows) or its version moved on (ErrVersionConflict).
func missOrConflict(ctx context.Context, pool *pgxpool.Pool, table string, id int64) error {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id=$1)`, table)
	if err := pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrVersionConflict
	}
	return pgx.ErrNoRows
}

// where accumulates AND-ed predicates with positional arguments.
type where struct {
	clauses []string
	args    []any
}

// add appends a predicate; every %[1]d in format becomes the new argument's position.
func (w *where) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = listing.DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
