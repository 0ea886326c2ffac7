package dto

import "github.com/agrotalent/talent-hub/internal/intake"

// SubmissionForm is the multipart form shared by pool registrations and
// job applications. The resume travels as the "resume" file part.
// Job applications without a file reuse the resume on record.
type SubmissionForm struct {
	Name       string `form:"name"`
	Email      string `form:"email"`
	Phone      string `form:"phone"`
	Region     string `form:"region"`
	Category   string `form:"category"`
	Seniority  string `form:"seniority"`
	Experience string `form:"experience"`
	Consent    bool   `form:"consent"`
}

// Profile converts the form to the intake profile
func (f SubmissionForm) Profile() intake.Profile {
	return intake.Profile{
		Name:       f.Name,
		Email:      f.Email,
		Phone:      f.Phone,
		Region:     f.Region,
		Category:   f.Category,
		Seniority:  f.Seniority,
		Experience: f.Experience,
	}
}

// LookupResponse carries the data used to pre-fill a form. It never
// includes the candidate id, status, or resume location.
type LookupResponse struct {
	Profile      intake.Profile `json:"profile"`
	ResumeOnFile bool           `json:"resume_on_file"`
}

type SubmissionResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	JobID     string `json:"job_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListCandidatesRequest struct {
	Status   string `form:"status"`
	JobID    string `form:"job_id"`
	Pool     bool   `form:"pool"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type CandidateDTO struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Region     string `json:"region"`
	Category   string `json:"category"`
	Seniority  string `json:"seniority"`
	Experience string `json:"experience,omitempty"`
	HasResume  bool   `json:"has_resume"`
	JobID      string `json:"job_id,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

type ListCandidatesResponse struct {
	Candidates []CandidateDTO `json:"candidates"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
