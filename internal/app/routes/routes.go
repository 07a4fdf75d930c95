package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/toma828/HinaBaby/internal/app/controllers"
	"github.com/toma828/HinaBaby/internal/app/models/dto"
	"github.com/toma828/HinaBaby/internal/middleware"
)

// SetupRouter configures all application routes under the /api mount
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	videoController *controllers.VideoController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// Public routes
	api.POST("/token", authController.Token)
	api.POST("/register", authController.Register)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Authenticated routes
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.RequireAuth())
	{
		authenticated.GET("/users/me", authController.Me)

		videos := authenticated.Group("/videos")
		{
			videos.GET("", videoController.List)
			videos.GET("/:id", videoController.GetByID)

			// Students upload; teachers annotate.
			videos.POST("", authMiddleware.StudentRequired(), videoController.Upload)

			teacherOnly := videos.Group("")
			teacherOnly.Use(authMiddleware.TeacherRequired())
			{
				teacherOnly.POST("/:id/feedback", videoController.AddFeedback)
				teacherOnly.POST("/:id/timestamps", videoController.AddTimeStamp)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")))
	})
}
