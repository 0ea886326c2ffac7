package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agrotalent/talent-hub/internal/worker/domain"
	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// LoadApplication reads a candidate row together with the job it applied to.
// A candidate whose job was deleted is reported as not found.
func (s *Storage) LoadApplication(ctx context.Context, candidateID, jobID string) (*domain.Application, error) {
	query := `
		SELECT
			c.id AS candidate_id,
			c.name AS candidate_name,
			c.email AS candidate_email,
			c.phone AS candidate_phone,
			c.region,
			c.category,
			c.seniority,
			c.resume_url,
			c.created_at AS submitted_at,
			j.id AS job_id,
			j.title AS job_title,
			j.company,
			j.owner_email
		FROM candidates c
		JOIN jobs j ON j.id = c.job_id
		WHERE c.id = $1 AND j.id = $2
	`

	var app domain.Application
	err := s.db.GetContext(ctx, &app, query, candidateID, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("Application no longer exists",
				slog.String("candidate_id", candidateID),
				slog.String("job_id", jobID),
			)
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	return &app, nil
}
