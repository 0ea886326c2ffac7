package intake

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Candidate status values
const (
	StatusNew         = "new"
	StatusUnderReview = "under_review"
	StatusInterview   = "interview"
	StatusHired       = "hired"
)

// Statuses lists every workflow status in display order
var Statuses = []string{StatusNew, StatusUnderReview, StatusInterview, StatusHired}

// Categories lists the professional areas a candidate can pick
var Categories = []string{
	"agronomy",
	"livestock",
	"operations",
	"machinery",
	"logistics",
	"administration",
	"sales",
	"technology",
	"quality",
	"other",
}

// SeniorityLevels lists the accepted seniority values
var SeniorityLevels = []string{"intern", "junior", "mid", "senior", "specialist", "manager"}

// Candidate is a stored applicant profile. JobID is nil for talent pool rows.
type Candidate struct {
	ID         string
	Email      string
	Name       string
	Phone      string
	Region     string
	Category   string
	Seniority  string
	Experience string
	ResumeURL  string
	JobID      *string
	Status     string
	CreatedAt  time.Time
}

// Profile holds the fields a visitor fills in on either intake form.
type Profile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Region     string `json:"region"`
	Category   string `json:"category"`
	Seniority  string `json:"seniority"`
	Experience string `json:"experience,omitempty"`
}

// Profile returns the form-facing fields of the candidate.
func (c *Candidate) Profile() Profile {
	return Profile{
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Region:     c.Region,
		Category:   c.Category,
		Seniority:  c.Seniority,
		Experience: c.Experience,
	}
}

// IsValidStatus reports whether s is a known workflow status
func IsValidStatus(s string) bool {
	return contains(Statuses, s)
}

// NormalizeEmail is applied on every write and every read so that
// deduplication is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(email)))
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
