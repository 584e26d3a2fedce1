package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/app/services"
	"github.com/hamza/campuscard/internal/middleware"
)

// CardController handles card rendering and export operations
type CardController struct {
	cardService   *services.CardService
	exportService *services.ExportService
}

// NewCardController creates a new CardController
func NewCardController(cardService *services.CardService, exportService *services.ExportService) *CardController {
	return &CardController{
		cardService:   cardService,
		exportService: exportService,
	}
}

// GetLayout returns the resolved card layout for one side
// @Summary Get card layout
// @Description Returns the resolved front or back layout of a student's card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param side query string false "Card side" Enums(front, back) default(front)
// @Success 200 {object} dto.APIResponse{data=dto.CardLayout} "Layout retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Unknown card side"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /cards/{id}/layout [get]
func (c *CardController) GetLayout(ctx *gin.Context) {
	side := ctx.DefaultQuery("side", dto.CardSideFront)

	layout, err := c.cardService.GetLayout(ctx.Param("id"), side)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      layout,
		Timestamp: time.Now(),
	})
}

// ExportImage downloads the card front as a print-density PNG
// @Summary Export card image
// @Description Renders the card front at three times the preview resolution and downloads it as PNG
// @Tags cards
// @Accept json
// @Produce image/png
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {file} file "PNG download"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Card capture failed"
// @Router /cards/{id}/image [get]
func (c *CardController) ExportImage(ctx *gin.Context) {
	name, data, err := c.exportService.ExportImage(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	ctx.Data(http.StatusOK, "image/png", data)
}

// ExportDocument downloads the card as a single-page PDF
// @Summary Export card PDF
// @Description Renders the card front into a PDF page sized exactly to the physical card format
// @Tags cards
// @Accept json
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {file} file "PDF download"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Card capture failed"
// @Router /cards/{id}/document [get]
func (c *CardController) ExportDocument(ctx *gin.Context) {
	name, data, err := c.exportService.ExportDocument(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	ctx.Data(http.StatusOK, "application/pdf", data)
}

// GetShareLink returns the WhatsApp share URL for a card
// @Summary Get share link
// @Description Returns the verification URL wrapped in a WhatsApp share link
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.ShareLinkResponse} "Share link retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /cards/{id}/share [get]
func (c *CardController) GetShareLink(ctx *gin.Context) {
	link, err := c.cardService.ShareLink(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      link,
		Timestamp: time.Now(),
	})
}

// ExportBatch downloads cards for the selected records as a ZIP
// @Summary Batch export cards
// @Description Renders PNG and PDF for every selected record, or all records when nothing is selected, into one ZIP archive
// @Tags cards
// @Accept json
// @Produce application/zip
// @Security BearerAuth
// @Success 200 {file} file "ZIP download"
// @Failure 400 {object} dto.ErrorResponse "No records to export"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Card capture failed"
// @Router /cards/export/batch [get]
func (c *CardController) ExportBatch(ctx *gin.Context) {
	name, data, err := c.exportService.ExportBatch()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	ctx.Data(http.StatusOK, "application/zip", data)
}
