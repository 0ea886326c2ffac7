package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/api/model"
	"github.com/agrotalent/talent-hub/internal/intake"
)

const candidateColumns = `
	id, email, name, phone, region, category, seniority, experience,
	resume_url, job_id, status, created_at
`

// LatestByEmail returns the most recently created candidate row for email
func (s *Storage) LatestByEmail(ctx context.Context, email string) (*intake.Candidate, error) {
	var row model.Candidate
	query := `
		SELECT ` + candidateColumns + `
		FROM candidates
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	err := s.db.GetContext(ctx, &row, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, intake.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up candidate: %w", err)
	}

	return row.Intake(), nil
}

// InsertCandidate writes one candidate row
func (s *Storage) InsertCandidate(ctx context.Context, c *intake.Candidate) error {
	row := model.CandidateFromIntake(c)
	query := `
		INSERT INTO candidates (` + candidateColumns + `) VALUES (
			:id, :email, :name, :phone, :region, :category, :seniority, :experience,
			:resume_url, :job_id, :status, :created_at
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return intake.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

func (s *Storage) GetCandidate(ctx context.Context, candidateID string) (*model.Candidate, error) {
	var row model.Candidate
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`

	err := s.db.GetContext(ctx, &row, query, candidateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return &row, nil
}

type CandidateFilter struct {
	Status   string
	JobID    string
	PoolOnly bool
	PageSize int
	Cursor   *Cursor
}

func (f CandidateFilter) where(argIdx int) (string, []interface{}, int) {
	clause := " WHERE 1=1"
	args := []interface{}{}

	if f.Status != "" {
		clause += fmt.Sprintf(" AND c.status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}

	if f.JobID != "" {
		clause += fmt.Sprintf(" AND c.job_id = $%d", argIdx)
		args = append(args, f.JobID)
		argIdx++
	} else if f.PoolOnly {
		clause += " AND c.job_id IS NULL"
	}

	if f.Cursor != nil {
		clause += fmt.Sprintf(" AND (c.created_at, c.id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, f.Cursor.CreatedAt, f.Cursor.ID)
		argIdx += 2
	}

	return clause, args, argIdx
}

func (s *Storage) ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.Candidate, error) {
	where, args, argIdx := filter.where(1)
	query := `
		SELECT c.id, c.email, c.name, c.phone, c.region, c.category, c.seniority,
			c.experience, c.resume_url, c.job_id, c.status, c.created_at
		FROM candidates c` + where +
		` ORDER BY c.created_at DESC, c.id DESC` +
		fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var rows []model.Candidate
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return rows, nil
}

// ListCandidatesForExport returns every matching candidate with its job title
func (s *Storage) ListCandidatesForExport(ctx context.Context, filter CandidateFilter) ([]model.CandidateExportRow, error) {
	filter.Cursor = nil
	where, args, _ := filter.where(1)
	query := `
		SELECT c.id, c.email, c.name, c.phone, c.region, c.category, c.seniority,
			c.experience, c.resume_url, c.job_id, c.status, c.created_at,
			j.title AS job_title
		FROM candidates c
		LEFT JOIN jobs j ON j.id = c.job_id` + where +
		` ORDER BY c.created_at DESC, c.id DESC`

	var rows []model.CandidateExportRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to export candidates: %w", err)
	}
	return rows, nil
}

func (s *Storage) UpdateCandidateStatus(ctx context.Context, candidateID, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE candidates SET status = $2 WHERE id = $1`, candidateID, status)
	if err != nil {
		return fmt.Errorf("failed to update candidate status: %w", err)
	}
	return expectOneRow(res, domain.ErrCandidateNotFound)
}

// DeleteCandidate removes a candidate and returns the deleted row
func (s *Storage) DeleteCandidate(ctx context.Context, candidateID string) (*model.Candidate, error) {
	var row model.Candidate
	query := `DELETE FROM candidates WHERE id = $1 RETURNING ` + candidateColumns

	err := s.db.GetContext(ctx, &row, query, candidateID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete candidate: %w", err)
	}
	return &row, nil
}

// CountResumeReferences counts candidate rows pointing at ref
func (s *Storage) CountResumeReferences(ctx context.Context, ref string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM candidates WHERE resume_url = $1`, ref); err != nil {
		return 0, fmt.Errorf("failed to count resume references: %w", err)
	}
	return n, nil
}

// CountCandidatesByStatus returns the number of candidates per status.
// Every known status is present, zero when unused.
func (s *Storage) CountCandidatesByStatus(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM candidates GROUP BY status`); err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}

	counts := make(map[string]int, len(intake.Statuses))
	for _, st := range intake.Statuses {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
