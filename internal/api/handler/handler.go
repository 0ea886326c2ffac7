package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/agrotalent/talent-hub/internal/api/auth"
	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/api/model"
	"github.com/agrotalent/talent-hub/internal/api/storage"
	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/agrotalent/talent-hub/shared/objectstore"
	"github.com/agrotalent/talent-hub/shared/postgresql"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type JobRepository interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, jobID string) (*model.Job, error)
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.Job, error)
	UpdateJob(ctx context.Context, job *model.Job) error
	SetJobModeration(ctx context.Context, jobID string, approved bool, at time.Time) (*model.Job, error)
	DeleteJob(ctx context.Context, jobID string) (*model.Job, error)
	CountPublicJobs(ctx context.Context) (int, error)
}

type CandidateRepository interface {
	intake.CandidateFinder
	GetCandidate(ctx context.Context, candidateID string) (*model.Candidate, error)
	ListCandidates(ctx context.Context, filter storage.CandidateFilter) ([]model.Candidate, error)
	ListCandidatesForExport(ctx context.Context, filter storage.CandidateFilter) ([]model.CandidateExportRow, error)
	UpdateCandidateStatus(ctx context.Context, candidateID, status string) error
	DeleteCandidate(ctx context.Context, candidateID string) (*model.Candidate, error)
	CountResumeReferences(ctx context.Context, ref string) (int, error)
	CountCandidatesByStatus(ctx context.Context) (map[string]int, error)
}

type AdminRepository interface {
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
}

// ObjectStore is the bucketed file storage used for resumes and job images
type ObjectStore interface {
	intake.ObjectUploader
	Open(bucket, objectPath string) (*objectstore.Object, error)
	Remove(ctx context.Context, bucket string, paths ...string) error
	IsPublic(bucket string) bool
	PublicURL(bucket, objectPath string) string
	PathFromURL(bucket, rawURL string) (string, bool)
	SignedURL(bucket, objectPath string, ttl time.Duration) (string, error)
	VerifySignature(bucket, objectPath, token string) error
}

type Committer interface {
	Commit(ctx context.Context, policy intake.Policy, sub intake.Submission) (*intake.CommitResult, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	Stats() postgresql.PoolStats
}

// Settings holds the tunables handlers read from configuration
type Settings struct {
	ServiceName         string
	ResumeURLTTL        time.Duration
	WhatsAppCountryCode string
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger     *slog.Logger
	Jobs       JobRepository
	Candidates CandidateRepository
	Admins     AdminRepository
	Objects    ObjectStore
	Committer  Committer
	Lookup     intake.Finder
	Tokens     *auth.Tokens
	Health     HealthChecker
	Settings   Settings
	Now        func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizePageSize(n int) int {
	if n <= 0 {
		return defaultPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

// intakeErrorStatus maps committer failures to HTTP responses
func intakeErrorStatus(err error) (int, string) {
	var validationErr *intake.ValidationError
	var uploadErr *intake.UploadError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, intake.ErrDuplicateEmail):
		return http.StatusConflict, err.Error()
	case errors.Is(err, intake.ErrJobUnavailable):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &uploadErr):
		return http.StatusBadGateway, "Failed to store resume"
	default:
		return http.StatusInternalServerError, "Failed to save submission"
	}
}

func notFoundOr500(c *gin.Context, err error, what string) {
	if errors.Is(err, domain.ErrJobNotFound) || errors.Is(err, domain.ErrCandidateNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + what})
}
