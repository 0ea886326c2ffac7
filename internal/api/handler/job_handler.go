package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/api/dto"
	"github.com/agrotalent/talent-hub/internal/api/model"
	"github.com/agrotalent/talent-hub/internal/api/storage"
	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JobHandler serves the public job board
type JobHandler struct {
	deps   *Dependencies
	logger *slog.Logger
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{deps: deps, logger: deps.Logger}
}

// ListJobs handles GET /api/v1/jobs
// Lists active and approved jobs, newest first
func (h *JobHandler) ListJobs(c *gin.Context) {
	h.logger.Info("ListJobs called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
	)

	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	req.PageSize = normalizePageSize(req.PageSize)

	cursor, err := DecodeCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		return
	}

	jobs, err := h.deps.Jobs.ListJobs(c.Request.Context(), storage.JobFilter{
		PublicOnly: true,
		PageSize:   req.PageSize,
		Cursor:     cursor,
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

	resp := dto.ListJobsResponse{Jobs: make([]dto.JobDTO, len(jobs))}
	for i := range jobs {
		resp.Jobs[i] = toJobDTO(&jobs[i], h.deps.Settings.WhatsAppCountryCode)
	}
	if hasMore {
		last := jobs[len(jobs)-1]
		resp.NextCursor = EncodeCursor(last.CreatedAt, last.ID)
	}

	c.JSON(http.StatusOK, resp)
}

// GetJob handles GET /api/v1/jobs/:job_id
// Jobs that are not public are reported as missing
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("GetJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	if _, err := uuid.Parse(jobID); err != nil {
		h.logger.Error("Invalid job_id format", slog.String("job_id", jobID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
		return
	}

	job, err := h.deps.Jobs.GetJobByID(c.Request.Context(), jobID)
	if err == nil && !job.IsPublic() {
		err = domain.ErrJobNotFound
	}
	if err != nil {
		h.logger.Error("Failed to get job", slog.String("job_id", jobID), slog.String("error", err.Error()))
		notFoundOr500(c, err, "get job")
		return
	}

	c.JSON(http.StatusOK, toJobDTO(job, h.deps.Settings.WhatsAppCountryCode))
}

// CreateJob handles POST /api/v1/jobs
// Stores a new posting awaiting moderation, with an optional image
func (h *JobHandler) CreateJob(c *gin.Context) {
	h.logger.Info("CreateJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.CreateJobRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !domain.IsValidJobType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of " + strings.Join(domain.JobTypes, ", ")})
		return
	}
	if n := len(intake.UnmaskPhone(req.OwnerPhone)); n < 10 || n > 11 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_phone must have 10 or 11 digits"})
		return
	}

	image, _, err := readFormFile(c, "image", domain.MaxImageSize)
	if err != nil {
		h.logger.Error("Invalid image", slog.String("error", err.Error()))
		msg := "Invalid image upload"
		if isTooLarge(err) {
			msg = "image must be at most 5 MiB"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	now := h.deps.now()
	job := model.Job{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Location:    strings.TrimSpace(req.Location),
		Type:        req.Type,
		Description: strings.TrimSpace(req.Description),
		OwnerEmail:  intake.NormalizeEmail(req.OwnerEmail),
		OwnerPhone:  intake.MaskPhone(req.OwnerPhone),
		Status:      domain.JobStatusInactive,
		IsApproved:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if image != nil {
		mt := mimetype.Detect(image)
		ext, ok := domain.ImageExtensions[mt.String()]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image must be a PNG, JPEG, or WebP file"})
			return
		}
		path := fmt.Sprintf("%s/%d%s", job.ID, now.UnixMilli(), ext)
		ref, err := h.deps.Objects.Upload(c.Request.Context(), domain.ImageBucket, path, image, mt.String())
		if err != nil {
			h.logger.Error("Failed to upload job image", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to store image"})
			return
		}
		job.ImageURL = h.deps.Objects.PublicURL(domain.ImageBucket, ref)
	}

	if err := h.deps.Jobs.CreateJob(c.Request.Context(), &job); err != nil {
		h.logger.Error("Failed to create job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	h.logger.Info("Job submitted for moderation", slog.String("job_id", job.ID))
	c.JSON(http.StatusCreated, gin.H{
		"id":          job.ID,
		"status":      job.Status,
		"is_approved": job.IsApproved,
	})
}

func isTooLarge(err error) bool {
	return errors.Is(err, errFileTooLarge)
}
