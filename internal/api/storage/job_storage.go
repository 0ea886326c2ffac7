package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/api/model"
	"github.com/jmoiron/sqlx"
)

const jobColumns = `
	id, title, company, location, type, description, image_url,
	owner_email, owner_phone, status, is_approved, created_at, updated_at
`

func (s *Storage) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Type,
		job.Description,
		job.ImageURL,
		job.OwnerEmail,
		job.OwnerPhone,
		job.Status,
		job.IsApproved,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *Storage) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	err := s.db.GetContext(ctx, &job, query, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// IsJobOpen reports whether the job exists and is publicly listed
func (s *Storage) IsJobOpen(ctx context.Context, jobID string) (bool, error) {
	var open bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM jobs
			WHERE id = $1 AND status = $2 AND is_approved
		)
	`
	if err := s.db.GetContext(ctx, &open, query, jobID, domain.JobStatusActive); err != nil {
		return false, fmt.Errorf("failed to check job: %w", err)
	}
	return open, nil
}

type JobFilter struct {
	PublicOnly bool
	Status     string
	PageSize   int
	Cursor     *Cursor
}

func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.PublicOnly {
		query += fmt.Sprintf(" AND status = $%d AND is_approved", argIdx)
		args = append(args, domain.JobStatusActive)
		argIdx++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.ID)
		argIdx += 2
	}

	query += " ORDER BY created_at DESC, id DESC"

	// one extra row tells the caller whether another page exists
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var jobs []model.Job
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// UpdateJob overwrites the editable fields of a job
func (s *Storage) UpdateJob(ctx context.Context, job *model.Job) error {
	query := `
		UPDATE jobs SET
			title = $2, company = $3, location = $4, type = $5,
			description = $6, owner_email = $7, owner_phone = $8,
			updated_at = $9
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Type,
		job.Description,
		job.OwnerEmail,
		job.OwnerPhone,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return expectOneRow(res, domain.ErrJobNotFound)
}

// SetJobModeration approves or rejects a job, moving status and approval together
func (s *Storage) SetJobModeration(ctx context.Context, jobID string, approved bool, at time.Time) (*model.Job, error) {
	var job model.Job
	query := `
		UPDATE jobs SET status = $2, is_approved = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + jobColumns

	err := s.db.GetContext(ctx, &job, query, jobID, domain.ModerationStatus(approved), approved, at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to moderate job: %w", err)
	}
	return &job, nil
}

// DeleteJob removes a job and returns the deleted row. Applications keep
// their rows with job_id cleared.
func (s *Storage) DeleteJob(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	err := s.pg.InTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &job, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, jobID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrJobNotFound
			}
			return fmt.Errorf("failed to load job: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, jobID); err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Storage) CountPublicJobs(ctx context.Context) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM jobs WHERE status = $1 AND is_approved`
	if err := s.db.GetContext(ctx, &n, query, domain.JobStatusActive); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
