package routes

import (
	"fund-admin-gateway/controllers"
	"fund-admin-gateway/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.GET("/health", controllers.HealthCheck)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Common lookups (all authenticated users)
			protected.GET("/years", controllers.GetYears)
			protected.GET("/categories", controllers.GetCategories)
			protected.GET("/subcategories", controllers.GetSubcategories)
			protected.GET("/statuses", controllers.GetStatuses)

			// Admin surface
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(3)) // 3 = admin
			{
				submissions := admin.Group("/submissions")
				{
					submissions.GET("", controllers.GetAdminSubmissions)
					submissions.GET("/export", controllers.ExportSubmissions)
					submissions.GET("/:id/details", controllers.GetAdminSubmissionDetails)

					submissions.POST("/:id/approve", controllers.ApproveSubmission)
					submissions.POST("/:id/reject", controllers.RejectSubmission)
					submissions.POST("/:id/request-revision", controllers.RequestSubmissionRevision)

					submissions.GET("/:id/research-fund/events", controllers.GetResearchFundEvents)
					submissions.POST("/:id/research-fund/events", controllers.CreateResearchFundEvent)
				}

				imports := admin.Group("/imports")
				{
					imports.POST("/scholar", controllers.TriggerScholarImport)
					imports.POST("/scopus", controllers.TriggerScopusImport)
					imports.POST("/kku-people", controllers.TriggerKKUPeopleScrape)
					imports.GET("/:source/runs/:runId", controllers.GetImportRunStatus)
					imports.GET("/:source/runs/:runId/logs", controllers.GetImportRunLogs)
				}
			}
		}
	}
}
