package dto

// CreateJobRequest is the multipart form of a public job posting
type CreateJobRequest struct {
	Title       string `form:"title" binding:"required"`
	Company     string `form:"company" binding:"required"`
	Location    string `form:"location" binding:"required"`
	Type        string `form:"type" binding:"required"`
	Description string `form:"description" binding:"required"`
	OwnerEmail  string `form:"owner_email" binding:"required,email"`
	OwnerPhone  string `form:"owner_phone" binding:"required"`
}

type UpdateJobRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Description string `json:"description" binding:"required"`
	OwnerEmail  string `json:"owner_email" binding:"required,email"`
	OwnerPhone  string `json:"owner_phone" binding:"required"`
}

type ModerationRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

type ListJobsRequest struct {
	Status   string `form:"status"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListJobsResponse struct {
	Jobs       []JobDTO `json:"jobs"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// JobDTO is the public view of a job. Owner contact details are reduced
// to a click-to-chat link.
type JobDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	WhatsAppURL string `json:"whatsapp_url,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type AdminJobDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	OwnerEmail  string `json:"owner_email"`
	OwnerPhone  string `json:"owner_phone"`
	Status      string `json:"status"`
	IsApproved  bool   `json:"is_approved"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type AdminListJobsResponse struct {
	Jobs       []AdminJobDTO `json:"jobs"`
	NextCursor string        `json:"next_cursor,omitempty"`
}
