package model

import (
	"database/sql"
	"time"

	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/intake"
)

type Job struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Company     string    `db:"company"`
	Location    string    `db:"location"`
	Type        string    `db:"type"`
	Description string    `db:"description"`
	ImageURL    string    `db:"image_url"`
	OwnerEmail  string    `db:"owner_email"`
	OwnerPhone  string    `db:"owner_phone"`
	Status      string    `db:"status"`
	IsApproved  bool      `db:"is_approved"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// IsPublic reports whether the job is listed on the public board
func (j *Job) IsPublic() bool {
	return j.Status == domain.JobStatusActive && j.IsApproved
}

type Candidate struct {
	ID         string         `db:"id"`
	Email      string         `db:"email"`
	Name       string         `db:"name"`
	Phone      string         `db:"phone"`
	Region     string         `db:"region"`
	Category   string         `db:"category"`
	Seniority  string         `db:"seniority"`
	Experience string         `db:"experience"`
	ResumeURL  string         `db:"resume_url"`
	JobID      sql.NullString `db:"job_id"`
	Status     string         `db:"status"`
	CreatedAt  time.Time      `db:"created_at"`
}

// CandidateFromIntake converts a committed intake candidate to its row form
func CandidateFromIntake(c *intake.Candidate) *Candidate {
	row := &Candidate{
		ID:         c.ID,
		Email:      c.Email,
		Name:       c.Name,
		Phone:      c.Phone,
		Region:     c.Region,
		Category:   c.Category,
		Seniority:  c.Seniority,
		Experience: c.Experience,
		ResumeURL:  c.ResumeURL,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
	}
	if c.JobID != nil {
		row.JobID = sql.NullString{String: *c.JobID, Valid: true}
	}
	return row
}

// Intake converts the row to the intake kernel's candidate
func (c *Candidate) Intake() *intake.Candidate {
	out := &intake.Candidate{
		ID:         c.ID,
		Email:      c.Email,
		Name:       c.Name,
		Phone:      c.Phone,
		Region:     c.Region,
		Category:   c.Category,
		Seniority:  c.Seniority,
		Experience: c.Experience,
		ResumeURL:  c.ResumeURL,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
	}
	if c.JobID.Valid {
		jobID := c.JobID.String
		out.JobID = &jobID
	}
	return out
}

// CandidateExportRow is a candidate joined with the title of its job
type CandidateExportRow struct {
	Candidate
	JobTitle sql.NullString `db:"job_title"`
}

type Admin struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
