package handler

import (
	"log/slog"
	"net/http"

	"github.com/agrotalent/talent-hub/internal/api/dto"
	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CandidateHandler serves the two intake forms and the email lookup
type CandidateHandler struct {
	deps   *Dependencies
	logger *slog.Logger
}

func NewCandidateHandler(deps *Dependencies) *CandidateHandler {
	return &CandidateHandler{deps: deps, logger: deps.Logger}
}

// Lookup handles GET /api/v1/candidates/lookup?email=
// Returns the most recent profile for the email so a form can pre-fill
func (h *CandidateHandler) Lookup(c *gin.Context) {
	email := c.Query("email")

	h.logger.Info("Lookup called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	found, ok := h.deps.Lookup.Find(c.Request.Context(), email)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": intake.ErrNotFound.Error()})
		return
	}

	profile := found.Profile()
	profile.Phone = intake.MaskPhone(profile.Phone)
	c.JSON(http.StatusOK, dto.LookupResponse{
		Profile:      profile,
		ResumeOnFile: found.ResumeURL != "",
	})
}

// Register handles POST /api/v1/candidates
// Adds a profile to the general talent pool. Without a new file the latest
// resume on record for the email counts as attached, on both forms.
func (h *CandidateHandler) Register(c *gin.Context) {
	h.logger.Info("Register called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	sub, ok := h.bindSubmission(c)
	if !ok {
		return
	}
	h.commit(c, intake.PoolRegistration, sub)
}

// Apply handles POST /api/v1/jobs/:job_id/applications
func (h *CandidateHandler) Apply(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("Apply called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
		return
	}

	sub, ok := h.bindSubmission(c)
	if !ok {
		return
	}
	sub.JobID = jobID

	h.commit(c, intake.JobApplication, sub)
}

func (h *CandidateHandler) bindSubmission(c *gin.Context) (intake.Submission, bool) {
	var form dto.SubmissionForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return intake.Submission{}, false
	}

	data, filename, err := readFormFile(c, "resume", intake.MaxResumeSize)
	if err != nil {
		h.logger.Error("Invalid resume upload", slog.String("error", err.Error()))
		msg := "Invalid resume upload"
		if isTooLarge(err) {
			msg = "resume file exceeds 10 MiB"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return intake.Submission{}, false
	}

	sub := intake.Submission{
		Profile: form.Profile(),
		Consent: form.Consent,
	}
	if data != nil {
		sub.Resume = &intake.ResumeFile{Filename: filename, Data: data}
	}
	return sub, true
}

// commit resolves the prior resume when no file was sent, then runs the
// committer. The form is validated before the lookup so a bad request
// never reaches the store.
func (h *CandidateHandler) commit(c *gin.Context, policy intake.Policy, sub intake.Submission) {
	if sub.Resume == nil {
		sub.Profile.Email = intake.NormalizeEmail(sub.Profile.Email)
		if err := policy.ValidateForm(&sub); err != nil {
			h.reject(c, policy, err)
			return
		}
		if found, ok := h.deps.Lookup.Find(c.Request.Context(), sub.Profile.Email); ok {
			sub.ExistingResumeRef = found.ResumeURL
		}
	}

	res, err := h.deps.Committer.Commit(c.Request.Context(), policy, sub)
	if err != nil {
		h.reject(c, policy, err)
		return
	}

	c.JSON(http.StatusCreated, toSubmissionResponse(res.Candidate))
}

func (h *CandidateHandler) reject(c *gin.Context, policy intake.Policy, err error) {
	status, msg := intakeErrorStatus(err)
	h.logger.Warn("Submission rejected",
		slog.String("policy", policy.Name),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	c.JSON(status, gin.H{"error": msg})
}
