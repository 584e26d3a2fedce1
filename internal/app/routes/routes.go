package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hamza/campuscard/internal/app/controllers"
	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	cardController *controllers.CardController,
	importController *controllers.ImportController,
	verifyController *controllers.VerifyController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Public verification endpoint, outside the API group
	router.GET("/verify/:id", verifyController.Verify)

	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/stats", studentController.GetStats)

		students := authenticated.Group("/students")
		{
			students.GET("", studentController.ListStudents)
			students.POST("", studentController.CreateStudent)
			students.GET("/export/csv", studentController.ExportCSV)
			students.POST("/select-all", studentController.SelectAll)
			students.GET("/selection", studentController.GetSelection)
			students.DELETE("/selection", studentController.ClearSelection)
			students.GET("/:id", studentController.GetStudent)
			students.PUT("/:id", studentController.UpdateStudent)
			students.DELETE("/:id", studentController.DeleteStudent)
			students.POST("/:id/select", studentController.ToggleSelect)
			students.POST("/:id/photo", studentController.UploadPhoto)
			students.DELETE("/:id/photo", studentController.RemovePhoto)
		}

		cards := authenticated.Group("/cards")
		{
			cards.GET("/export/batch", cardController.ExportBatch)
			cards.GET("/:id/layout", cardController.GetLayout)
			cards.GET("/:id/image", cardController.ExportImage)
			cards.GET("/:id/document", cardController.ExportDocument)
			cards.GET("/:id/share", cardController.GetShareLink)
		}

		imports := authenticated.Group("/import")
		{
			imports.GET("/template", importController.DownloadTemplate)
			imports.POST("", importController.Upload)
			imports.GET("/:sessionId", importController.GetSession)
			imports.POST("/:sessionId/parse", importController.Parse)
			imports.POST("/:sessionId/commit", importController.Commit)
			imports.POST("/:sessionId/back", importController.Back)
		}
	}
}
