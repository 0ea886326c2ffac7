package router

import (
	"github.com/agrotalent/talent-hub/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, maxBodyBytes int64) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())
	r.Use(BodyLimitMiddleware(maxBodyBytes))

	r.GET("/health", handler.Health(deps))

	files := handler.NewFileHandler(deps)
	r.GET("/files/:bucket/*path", files.ServeFile)
	r.HEAD("/files/:bucket/*path", files.ServeFile)

	jobHandler := handler.NewJobHandler(deps)
	candidateHandler := handler.NewCandidateHandler(deps)
	authHandler := handler.NewAuthHandler(deps)
	adminHandler := handler.NewAdminHandler(deps)

	v1 := r.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			jobs.GET("", jobHandler.ListJobs)
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("/:job_id", jobHandler.GetJob)
			jobs.POST("/:job_id/applications", candidateHandler.Apply)
		}

		candidates := v1.Group("/candidates")
		{
			candidates.GET("/lookup", candidateHandler.Lookup)
			candidates.POST("", candidateHandler.Register)
		}

		v1.POST("/admin/login", authHandler.Login)

		admin := v1.Group("/admin", AdminAuthMiddleware(deps.Tokens, deps.Logger))
		{
			admin.GET("/stats", adminHandler.Stats)

			admin.GET("/jobs", adminHandler.ListJobs)
			admin.GET("/jobs/:job_id", adminHandler.GetJob)
			admin.PUT("/jobs/:job_id", adminHandler.UpdateJob)
			admin.POST("/jobs/:job_id/moderation", adminHandler.ModerateJob)
			admin.DELETE("/jobs/:job_id", adminHandler.DeleteJob)

			admin.GET("/candidates", adminHandler.ListCandidates)
			admin.GET("/candidates/export", adminHandler.ExportCandidates)
			admin.GET("/candidates/:candidate_id", adminHandler.GetCandidate)
			admin.PATCH("/candidates/:candidate_id/status", adminHandler.UpdateCandidateStatus)
			admin.DELETE("/candidates/:candidate_id", adminHandler.DeleteCandidate)
			admin.GET("/candidates/:candidate_id/resume", adminHandler.ResumeRedirect)
		}
	}

	return r
}
