package storage

import (
	"errors"
	"time"

	"github.com/agrotalent/talent-hub/shared/postgresql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

type Storage struct {
	db *sqlx.DB
	pg *postgresql.Client
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
		pg: pg,
	}
}

// Cursor is a keyset pagination position over (created_at, id) descending
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
