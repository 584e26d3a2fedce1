package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/app/services"
	"github.com/hamza/campuscard/internal/middleware"
)

// VerifyController serves the public card verification endpoint
type VerifyController struct {
	studentService *services.StudentService
}

// NewVerifyController creates a new VerifyController
func NewVerifyController(studentService *services.StudentService) *VerifyController {
	return &VerifyController{
		studentService: studentService,
	}
}

// Verify checks a card by student ID
// @Summary Verify a card
// @Description Returns the public-safe record fields and whether the card is still valid. No authentication required.
// @Tags verify
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyResponse} "Verification result"
// @Failure 404 {object} dto.ErrorResponse "Unknown card"
// @Router /verify/{id} [get]
func (c *VerifyController) Verify(ctx *gin.Context) {
	result, err := c.studentService.Verify(ctx.Param("id"), time.Now())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}
