package dto

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type StatsResponse struct {
	PublicJobs         int            `json:"public_jobs"`
	CandidatesByStatus map[string]int `json:"candidates_by_status"`
	TotalCandidates    int            `json:"total_candidates"`
}
