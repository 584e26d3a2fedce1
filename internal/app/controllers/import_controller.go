package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/app/services"
	"github.com/hamza/campuscard/internal/middleware"
)

// ImportController handles the bulk import wizard
type ImportController struct {
	importService *services.ImportService
	exportService *services.ExportService
}

// NewImportController creates a new ImportController
func NewImportController(importService *services.ImportService, exportService *services.ExportService) *ImportController {
	return &ImportController{
		importService: importService,
		exportService: exportService,
	}
}

// DownloadTemplate downloads the import template CSV
// @Summary Download import template
// @Description Downloads the CSV template with the fixed import column names and no data rows
// @Tags import
// @Accept json
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV download"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /import/template [get]
func (c *ImportController) DownloadTemplate(ctx *gin.Context) {
	name, data := c.exportService.ExportTemplateCSV()
	ctx.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	ctx.Data(http.StatusOK, "text/csv", data)
}

// Upload starts an import session from an uploaded file
// @Summary Upload import file
// @Description Accepts a .csv or .xlsx file and starts a new import session at the mapping step
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV or XLSX file"
// @Success 201 {object} dto.APIResponse{data=dto.ImportSessionResponse} "Session started"
// @Failure 400 {object} dto.ErrorResponse "Missing file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Failure 422 {object} dto.ErrorResponse "File could not be parsed"
// @Router /import [post]
func (c *ImportController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Import file is required").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	session, err := c.importService.Upload(fileHeader.Filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      session,
		Timestamp: time.Now(),
	})
}

// GetSession returns the current wizard state
// @Summary Get import session
// @Description Returns the current step and data of an import session
// @Tags import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Import session ID"
// @Success 200 {object} dto.APIResponse{data=dto.ImportSessionResponse} "Session state"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Import session not found"
// @Router /import/{sessionId} [get]
func (c *ImportController) GetSession(ctx *gin.Context) {
	session, err := c.importService.State(ctx.Param("sessionId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      session,
		Timestamp: time.Now(),
	})
}

// Parse classifies the uploaded rows and moves the session to preview
// @Summary Parse import file
// @Description Applies the column mapping, classifies every row, and moves the session to the preview step
// @Tags import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Import session ID"
// @Success 200 {object} dto.APIResponse{data=dto.ImportSessionResponse} "Preview ready"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Import session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not at the mapping step"
// @Failure 422 {object} dto.ErrorResponse "File could not be parsed"
// @Router /import/{sessionId}/parse [post]
func (c *ImportController) Parse(ctx *gin.Context) {
	session, err := c.importService.Parse(ctx.Param("sessionId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      session,
		Timestamp: time.Now(),
	})
}

// Commit creates a record per valid row and completes the session
// @Summary Commit import
// @Description Creates one student record per valid preview row, serially, and completes the session
// @Tags import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Import session ID"
// @Success 200 {object} dto.APIResponse{data=dto.ImportSessionResponse} "Import complete"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Import session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not at the preview step"
// @Router /import/{sessionId}/commit [post]
func (c *ImportController) Commit(ctx *gin.Context) {
	session, err := c.importService.Commit(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      session,
		Timestamp: time.Now(),
	})
}

// Back moves the session one step back
// @Summary Step back
// @Description Moves the import session exactly one step back; stepping back from mapping discards the uploaded file
// @Tags import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Import session ID"
// @Success 200 {object} dto.APIResponse{data=dto.ImportSessionResponse} "Session state"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Import session not found"
// @Failure 409 {object} dto.ErrorResponse "Cannot step back from this step"
// @Router /import/{sessionId}/back [post]
func (c *ImportController) Back(ctx *gin.Context) {
	session, err := c.importService.Back(ctx.Param("sessionId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      session,
		Timestamp: time.Now(),
	})
}
