package handler

import (
	"time"

	"github.com/agrotalent/talent-hub/internal/api/dto"
	"github.com/agrotalent/talent-hub/internal/api/model"
	"github.com/agrotalent/talent-hub/internal/intake"
)

func toJobDTO(job *model.Job, countryCode string) dto.JobDTO {
	return dto.JobDTO{
		ID:          job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Type:        job.Type,
		Description: job.Description,
		ImageURL:    job.ImageURL,
		WhatsAppURL: intake.WhatsAppLink(countryCode, job.OwnerPhone),
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
	}
}

func toAdminJobDTO(job *model.Job) dto.AdminJobDTO {
	return dto.AdminJobDTO{
		ID:          job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Type:        job.Type,
		Description: job.Description,
		ImageURL:    job.ImageURL,
		OwnerEmail:  job.OwnerEmail,
		OwnerPhone:  job.OwnerPhone,
		Status:      job.Status,
		IsApproved:  job.IsApproved,
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   job.UpdatedAt.Format(time.RFC3339),
	}
}

func toCandidateDTO(c *model.Candidate) dto.CandidateDTO {
	return dto.CandidateDTO{
		ID:         c.ID,
		Email:      c.Email,
		Name:       c.Name,
		Phone:      c.Phone,
		Region:     c.Region,
		Category:   c.Category,
		Seniority:  c.Seniority,
		Experience: c.Experience,
		HasResume:  c.ResumeURL != "",
		JobID:      c.JobID.String,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}

func toSubmissionResponse(c *intake.Candidate) dto.SubmissionResponse {
	resp := dto.SubmissionResponse{
		ID:        c.ID,
		Status:    c.Status,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.JobID != nil {
		resp.JobID = *c.JobID
	}
	return resp
}
