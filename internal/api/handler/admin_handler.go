package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/api/dto"
	"github.com/agrotalent/talent-hub/internal/api/export"
	"github.com/agrotalent/talent-hub/internal/api/storage"
	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler serves the moderation console. Every route sits behind
// the admin token middleware.
type AdminHandler struct {
	deps   *Dependencies
	logger *slog.Logger
}

func NewAdminHandler(deps *Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps, logger: deps.Logger}
}

// ListJobs handles GET /api/v1/admin/jobs
func (h *AdminHandler) ListJobs(c *gin.Context) {
	h.logger.Info("AdminListJobs called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	if req.Status != "" && req.Status != domain.JobStatusActive && req.Status != domain.JobStatusInactive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or inactive"})
		return
	}
	req.PageSize = normalizePageSize(req.PageSize)

	cursor, err := DecodeCursor(req.Cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		return
	}

	jobs, err := h.deps.Jobs.ListJobs(c.Request.Context(), storage.JobFilter{
		Status:   req.Status,
		PageSize: req.PageSize,
		Cursor:   cursor,
	})
	if err != nil {
		h.logger.Error("Failed to list jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs"})
		return
	}

	hasMore := len(jobs) > req.PageSize
	if hasMore {
		jobs = jobs[:req.PageSize]
	}

	resp := dto.AdminListJobsResponse{Jobs: make([]dto.AdminJobDTO, len(jobs))}
	for i := range jobs {
		resp.Jobs[i] = toAdminJobDTO(&jobs[i])
	}
	if hasMore {
		last := jobs[len(jobs)-1]
		resp.NextCursor = EncodeCursor(last.CreatedAt, last.ID)
	}

	c.JSON(http.StatusOK, resp)
}

// GetJob handles GET /api/v1/admin/jobs/:job_id
func (h *AdminHandler) GetJob(c *gin.Context) {
	jobID, ok := uuidParam(c, "job_id")
	if !ok {
		return
	}

	job, err := h.deps.Jobs.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to get job", slog.String("job_id", jobID), slog.String("error", err.Error()))
		notFoundOr500(c, err, "get job")
		return
	}

	c.JSON(http.StatusOK, toAdminJobDTO(job))
}

// UpdateJob handles PUT /api/v1/admin/jobs/:job_id
// Moderation state and image are left untouched
func (h *AdminHandler) UpdateJob(c *gin.Context) {
	jobID, ok := uuidParam(c, "job_id")
	if !ok {
		return
	}

	h.logger.Info("UpdateJob called", slog.String("job_id", jobID))

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !domain.IsValidJobType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of " + strings.Join(domain.JobTypes, ", ")})
		return
	}

	ctx := c.Request.Context()
	job, err := h.deps.Jobs.GetJobByID(ctx, jobID)
	if err != nil {
		notFoundOr500(c, err, "update job")
		return
	}

	job.Title = strings.TrimSpace(req.Title)
	job.Company = strings.TrimSpace(req.Company)
	job.Location = strings.TrimSpace(req.Location)
	job.Type = req.Type
	job.Description = strings.TrimSpace(req.Description)
	job.OwnerEmail = intake.NormalizeEmail(req.OwnerEmail)
	job.OwnerPhone = intake.MaskPhone(req.OwnerPhone)
	job.UpdatedAt = h.deps.now()

	if err := h.deps.Jobs.UpdateJob(ctx, job); err != nil {
		h.logger.Error("Failed to update job", slog.String("job_id", jobID), slog.String("error", err.Error()))
		notFoundOr500(c, err, "update job")
		return
	}

	c.JSON(http.StatusOK, toAdminJobDTO(job))
}

// ModerateJob handles POST /api/v1/admin/jobs/:job_id/moderation
func (h *AdminHandler) ModerateJob(c *gin.Context) {
	jobID, ok := uuidParam(c, "job_id")
	if !ok {
		return
	}

	var req dto.ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved is required"})
		return
	}

	job, err := h.deps.Jobs.SetJobModeration(c.Request.Context(), jobID, *req.Approved, h.deps.now())
	if err != nil {
		h.logger.Error("Failed to moderate job", slog.String("job_id", jobID), slog.String("error", err.Error()))
		notFoundOr500(c, err, "moderate job")
		return
	}

	h.logger.Info("Job moderated",
		slog.String("job_id", jobID),
		slog.Bool("approved", job.IsApproved),
		slog.String("admin", c.GetString(ContextAdminEmail)),
	)
	c.JSON(http.StatusOK, toAdminJobDTO(job))
}

// DeleteJob handles DELETE /api/v1/admin/jobs/:job_id
// Applications to the job stay in the database without a job
func (h *AdminHandler) DeleteJob(c *gin.Context) {
	jobID, ok := uuidParam(c, "job_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	job, err := h.deps.Jobs.DeleteJob(ctx, jobID)
	if err != nil {
		h.logger.Error("Failed to delete job", slog.String("job_id", jobID), slog.String("error", err.Error()))
		notFoundOr500(c, err, "delete job")
		return
	}

	if path, ok := h.deps.Objects.PathFromURL(domain.ImageBucket, job.ImageURL); ok {
		if err := h.deps.Objects.Remove(ctx, domain.ImageBucket, path); err != nil {
			h.logger.Warn("Failed to remove job image", slog.String("job_id", jobID), slog.String("error", err.Error()))
		}
	}

	h.logger.Info("Job deleted", slog.String("job_id", jobID))
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) candidateFilter(c *gin.Context) (storage.CandidateFilter, *dto.ListCandidatesRequest, bool) {
	var req dto.ListCandidatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return storage.CandidateFilter{}, nil, false
	}
	if req.Status != "" && !intake.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of " + strings.Join(intake.Statuses, ", ")})
		return storage.CandidateFilter{}, nil, false
	}
	if req.JobID != "" {
		if _, err := uuid.Parse(req.JobID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
			return storage.CandidateFilter{}, nil, false
		}
	}

	return storage.CandidateFilter{
		Status:   req.Status,
		JobID:    req.JobID,
		PoolOnly: req.Pool,
	}, &req, true
}

// ListCandidates handles GET /api/v1/admin/candidates
func (h *AdminHandler) ListCandidates(c *gin.Context) {
	h.logger.Info("ListCandidates called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	filter, req, ok := h.candidateFilter(c)
	if !ok {
		return
	}
	filter.PageSize = normalizePageSize(req.PageSize)

	cursor, err := DecodeCursor(req.Cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		return
	}
	filter.Cursor = cursor

	rows, err := h.deps.Candidates.ListCandidates(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list candidates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list candidates"})
		return
	}

	hasMore := len(rows) > filter.PageSize
	if hasMore {
		rows = rows[:filter.PageSize]
	}

	resp := dto.ListCandidatesResponse{Candidates: make([]dto.CandidateDTO, len(rows))}
	for i := range rows {
		resp.Candidates[i] = toCandidateDTO(&rows[i])
	}
	if hasMore {
		last := rows[len(rows)-1]
		resp.NextCursor = EncodeCursor(last.CreatedAt, last.ID)
	}

	c.JSON(http.StatusOK, resp)
}

// GetCandidate handles GET /api/v1/admin/candidates/:candidate_id
func (h *AdminHandler) GetCandidate(c *gin.Context) {
	id, ok := uuidParam(c, "candidate_id")
	if !ok {
		return
	}

	row, err := h.deps.Candidates.GetCandidate(c.Request.Context(), id)
	if err != nil {
		notFoundOr500(c, err, "get candidate")
		return
	}

	c.JSON(http.StatusOK, toCandidateDTO(row))
}

// UpdateCandidateStatus handles PATCH /api/v1/admin/candidates/:candidate_id/status
func (h *AdminHandler) UpdateCandidateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "candidate_id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !intake.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of " + strings.Join(intake.Statuses, ", ")})
		return
	}

	if err := h.deps.Candidates.UpdateCandidateStatus(c.Request.Context(), id, req.Status); err != nil {
		h.logger.Error("Failed to update candidate status", slog.String("candidate_id", id), slog.String("error", err.Error()))
		notFoundOr500(c, err, "update candidate")
		return
	}

	h.logger.Info("Candidate status changed", slog.String("candidate_id", id), slog.String("status", req.Status))
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// DeleteCandidate handles DELETE /api/v1/admin/candidates/:candidate_id
// The stored resume is removed once no other row references it
func (h *AdminHandler) DeleteCandidate(c *gin.Context) {
	id, ok := uuidParam(c, "candidate_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	row, err := h.deps.Candidates.DeleteCandidate(ctx, id)
	if err != nil {
		h.logger.Error("Failed to delete candidate", slog.String("candidate_id", id), slog.String("error", err.Error()))
		notFoundOr500(c, err, "delete candidate")
		return
	}

	if ref := row.ResumeURL; ref != "" && !intake.IsExternalRef(ref) {
		n, err := h.deps.Candidates.CountResumeReferences(ctx, ref)
		switch {
		case err != nil:
			h.logger.Warn("Failed to count resume references, keeping object", slog.String("resume_ref", ref), slog.String("error", err.Error()))
		case n == 0:
			if err := h.deps.Objects.Remove(ctx, intake.ResumeBucket, ref); err != nil {
				h.logger.Warn("Failed to remove resume", slog.String("resume_ref", ref), slog.String("error", err.Error()))
			}
		}
	}

	h.logger.Info("Candidate deleted", slog.String("candidate_id", id))
	c.Status(http.StatusNoContent)
}

// ResumeRedirect handles GET /api/v1/admin/candidates/:candidate_id/resume
// Absolute references are followed as-is; storage paths get a signed URL
func (h *AdminHandler) ResumeRedirect(c *gin.Context) {
	id, ok := uuidParam(c, "candidate_id")
	if !ok {
		return
	}

	row, err := h.deps.Candidates.GetCandidate(c.Request.Context(), id)
	if err != nil {
		notFoundOr500(c, err, "get candidate")
		return
	}
	if row.ResumeURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate has no resume"})
		return
	}

	if intake.IsExternalRef(row.ResumeURL) {
		c.Redirect(http.StatusFound, row.ResumeURL)
		return
	}

	signed, err := h.deps.Objects.SignedURL(intake.ResumeBucket, row.ResumeURL, h.deps.Settings.ResumeURLTTL)
	if err != nil {
		h.logger.Error("Failed to sign resume URL", slog.String("candidate_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open resume"})
		return
	}
	c.Redirect(http.StatusFound, signed)
}

// ExportCandidates handles GET /api/v1/admin/candidates/export
func (h *AdminHandler) ExportCandidates(c *gin.Context) {
	h.logger.Info("ExportCandidates called", slog.String("query", c.Request.URL.RawQuery))

	filter, _, ok := h.candidateFilter(c)
	if !ok {
		return
	}

	rows, err := h.deps.Candidates.ListCandidatesForExport(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to load candidates for export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export candidates"})
		return
	}

	data, err := export.CandidatesXLSX(rows, h.logger)
	if err != nil {
		h.logger.Error("Failed to build export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export candidates"})
		return
	}

	filename := fmt.Sprintf("candidates-%s.xlsx", h.deps.now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentType, data)
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	byStatus, err := h.deps.Candidates.CountCandidatesByStatus(ctx)
	if err != nil {
		h.logger.Error("Failed to count candidates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	publicJobs, err := h.deps.Jobs.CountPublicJobs(ctx)
	if err != nil {
		h.logger.Error("Failed to count jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}
	c.JSON(http.StatusOK, dto.StatsResponse{
		PublicJobs:         publicJobs,
		CandidatesByStatus: byStatus,
		TotalCandidates:    total,
	})
}

func uuidParam(c *gin.Context, name string) (string, bool) {
	v := c.Param(name)
	if _, err := uuid.Parse(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a valid UUID"})
		return "", false
	}
	return v, true
}

