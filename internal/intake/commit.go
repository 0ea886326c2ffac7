package intake

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ResumeBucket is the private bucket holding uploaded resumes
const ResumeBucket = "resumes"

// CandidateStore is the slice of the relational store the committer writes to.
type CandidateStore interface {
	CandidateFinder
	InsertCandidate(ctx context.Context, c *Candidate) error
}

// JobDirectory answers whether a job currently accepts applications.
type JobDirectory interface {
	IsJobOpen(ctx context.Context, jobID string) (bool, error)
}

// ObjectUploader stores a file and returns its storage reference.
type ObjectUploader interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
}

// Notifier dispatches the job owner notification for a new application.
type Notifier interface {
	NotifyApplication(ctx context.Context, c *Candidate) error
}

// Submitter persists a validated submission. The Committer implements it
// in-process; remote clients implement it over HTTP.
type Submitter interface {
	Submit(ctx context.Context, policy Policy, sub Submission) (*Candidate, error)
}

// CommitResult describes a successful commit.
type CommitResult struct {
	Candidate      *Candidate
	ResumeUploaded bool
	Notified       bool
}

// CommitterConfig holds the committer collaborators
type CommitterConfig struct {
	Store    CandidateStore
	Jobs     JobDirectory
	Objects  ObjectUploader
	Notifier Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

// Committer writes resolved profiles to the candidate store.
type Committer struct {
	store    CandidateStore
	jobs     JobDirectory
	objects  ObjectUploader
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewCommitter creates a new Committer
func NewCommitter(cfg *CommitterConfig) *Committer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Committer{
		store:    cfg.Store,
		jobs:     cfg.Jobs,
		objects:  cfg.Objects,
		notifier: cfg.Notifier,
		logger:   logger,
		now:      now,
	}
}

// Commit validates, uploads the resume if one is attached, and inserts one
// candidate row. The upload always completes before the insert starts.
func (c *Committer) Commit(ctx context.Context, policy Policy, sub Submission) (*CommitResult, error) {
	sub.Profile.Email = NormalizeEmail(sub.Profile.Email)
	sub.Profile.Phone = MaskPhone(sub.Profile.Phone)

	if err := policy.Validate(&sub); err != nil {
		return nil, err
	}

	logger := c.logger.With(
		slog.String("policy", policy.Name),
		slog.String("email", sub.Profile.Email),
	)

	if !policy.AllowDuplicateEmail {
		_, err := c.store.LatestByEmail(ctx, sub.Profile.Email)
		switch {
		case err == nil:
			logger.Info("Rejected duplicate registration")
			return nil, ErrDuplicateEmail
		case !errors.Is(err, ErrNotFound):
			return nil, &StoreError{Op: "duplicate check", Err: err}
		}
	}

	if policy.ScopedToJob && c.jobs != nil {
		open, err := c.jobs.IsJobOpen(ctx, sub.JobID)
		if err != nil {
			return nil, &StoreError{Op: "job check", Err: err}
		}
		if !open {
			return nil, ErrJobUnavailable
		}
	}

	now := c.now().UTC()

	// Step 1: upload the new resume, if any
	var uploadedRef string
	if sub.Resume != nil {
		docType, _ := sub.Resume.detect(policy.ResumeTypes)
		path := ResumePath(sub.JobID, now, docType.Extension)
		ref, err := c.objects.Upload(ctx, ResumeBucket, path, sub.Resume.Data, docType.MIME)
		if err != nil {
			logger.Error("Resume upload failed", slog.Any("error", err))
			return nil, &UploadError{Err: err}
		}
		uploadedRef = ref
	}

	// Step 2: resolve the resume reference
	resumeRef := uploadedRef
	if resumeRef == "" {
		resumeRef = sub.ExistingResumeRef
	}
	if resumeRef == "" && policy.RequireResume {
		return nil, invalid("resume", "resume is required")
	}

	// Step 3: insert the candidate row
	candidate := &Candidate{
		ID:         uuid.NewString(),
		Email:      sub.Profile.Email,
		Name:       sub.Profile.Name,
		Phone:      sub.Profile.Phone,
		Region:     sub.Profile.Region,
		Category:   sub.Profile.Category,
		Seniority:  sub.Profile.Seniority,
		Experience: sub.Profile.Experience,
		ResumeURL:  resumeRef,
		Status:     StatusNew,
		CreatedAt:  now,
	}
	if policy.ScopedToJob {
		jobID := sub.JobID
		candidate.JobID = &jobID
	}

	if err := c.store.InsertCandidate(ctx, candidate); err != nil {
		if uploadedRef != "" {
			logger.Warn("Candidate insert failed after upload, object left orphaned",
				slog.String("resume_ref", uploadedRef),
			)
		}
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, &StoreError{Op: "insert", Err: err}
	}

	logger.Info("Candidate committed",
		slog.String("candidate_id", candidate.ID),
		slog.Bool("resume_uploaded", uploadedRef != ""),
	)

	result := &CommitResult{Candidate: candidate, ResumeUploaded: uploadedRef != ""}

	// Step 4: best-effort owner notification
	if policy.ScopedToJob && c.notifier != nil {
		if err := c.notifier.NotifyApplication(ctx, candidate); err != nil {
			logger.Error("Failed to dispatch application notification",
				slog.String("candidate_id", candidate.ID),
				slog.Any("error", err),
			)
		} else {
			result.Notified = true
		}
	}

	return result, nil
}

// Submit adapts Commit to the Submitter interface.
func (c *Committer) Submit(ctx context.Context, policy Policy, sub Submission) (*Candidate, error) {
	res, err := c.Commit(ctx, policy, sub)
	if err != nil {
		return nil, err
	}
	return res.Candidate, nil
}
