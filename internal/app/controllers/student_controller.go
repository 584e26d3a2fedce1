package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/app/services"
	"github.com/hamza/campuscard/internal/middleware"
	"github.com/hamza/campuscard/internal/pkg/helpers"
)

// StudentController handles student record operations
type StudentController struct {
	studentService *services.StudentService
	exportService  *services.ExportService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, exportService *services.ExportService) *StudentController {
	return &StudentController{
		studentService: studentService,
		exportService:  exportService,
	}
}

// ListStudents returns the student list, optionally filtered and paginated
// @Summary List students
// @Description Retrieves students in insertion order, optionally filtered by name or roll number
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search query string false "Filter by name or roll number, case-insensitive substring"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	search := ctx.Query("search")

	students, total := c.studentService.ListStudents(search, page, size)

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.StudentListResponse{
			Students:   students,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// GetStudent retrieves a single student record
// @Summary Get student by ID
// @Description Retrieves a student record by its ID
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.studentService.GetStudentByID(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// CreateStudent creates a new student record
// @Summary Create a student
// @Description Creates a new student record with a generated ID
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	student, err := c.studentService.CreateStudent(ctx.Request.Context(), req.ToData())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// UpdateStudent replaces an existing student record
// @Summary Update a student
// @Description Fully replaces an existing student record; creation time is preserved
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.StudentRequest true "Updated student information"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), ctx.Param("id"), req.ToData())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// DeleteStudent deletes a student record
// @Summary Delete a student
// @Description Deletes a student record; deleting an unknown ID succeeds without effect
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 204 "Student deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	if err := c.studentService.DeleteStudent(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ToggleSelect flips one student in or out of the selection set
// @Summary Toggle selection
// @Description Adds the student to the selection set, or removes it if already selected
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SelectionResponse} "Selection updated"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students/{id}/select [post]
func (c *StudentController) ToggleSelect(ctx *gin.Context) {
	ids, err := c.studentService.ToggleSelect(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SelectionResponse{SelectedIDs: ids, Count: len(ids)},
		Timestamp: time.Now(),
	})
}

// SelectAll selects every student record
// @Summary Select all students
// @Description Puts every student record into the selection set, in record order
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SelectionResponse} "Selection updated"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students/select-all [post]
func (c *StudentController) SelectAll(ctx *gin.Context) {
	ids := c.studentService.SelectAll()

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SelectionResponse{SelectedIDs: ids, Count: len(ids)},
		Timestamp: time.Now(),
	})
}

// ClearSelection empties the selection set
// @Summary Clear selection
// @Description Removes every student from the selection set
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SelectionResponse} "Selection cleared"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students/selection [delete]
func (c *StudentController) ClearSelection(ctx *gin.Context) {
	c.studentService.ClearSelection()

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SelectionResponse{SelectedIDs: []string{}, Count: 0},
		Timestamp: time.Now(),
	})
}

// GetSelection reports the current selection set
// @Summary Get selection
// @Description Returns the ordered IDs currently in the selection set
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SelectionResponse} "Current selection"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students/selection [get]
func (c *StudentController) GetSelection(ctx *gin.Context) {
	ids := c.studentService.Selection()

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SelectionResponse{SelectedIDs: ids, Count: len(ids)},
		Timestamp: time.Now(),
	})
}

// UploadPhoto stores a student photo
// @Summary Upload student photo
// @Description Stores the uploaded image and attaches it to the student record
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param photo formData file true "Photo file"
// @Success 200 {object} dto.APIResponse{data=dto.PhotoResponse} "Photo stored"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/photo [post]
func (c *StudentController) UploadPhoto(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Photo file is required").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentService.SetPhoto(ctx.Request.Context(), ctx.Param("id"), fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.PhotoResponse{PhotoURL: student.PhotoURL},
		Timestamp: time.Now(),
	})
}

// RemovePhoto detaches and deletes a student photo
// @Summary Remove student photo
// @Description Deletes the stored photo and clears it from the student record
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 204 "Photo removed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/photo [delete]
func (c *StudentController) RemovePhoto(ctx *gin.Context) {
	if _, err := c.studentService.RemovePhoto(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetStats returns the dashboard summary
// @Summary Dashboard statistics
// @Description Returns record totals, valid and expired card counts, and the per-department breakdown
// @Tags stats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StatsResponse} "Statistics retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /stats [get]
func (c *StudentController) GetStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      c.studentService.Stats(time.Now()),
		Timestamp: time.Now(),
	})
}

// ExportCSV downloads the full student list as CSV
// @Summary Export students as CSV
// @Description Downloads every student record as a CSV file with all fields quoted
// @Tags students
// @Accept json
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV download"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students/export/csv [get]
func (c *StudentController) ExportCSV(ctx *gin.Context) {
	name, data := c.exportService.ExportStudentsCSV()
	ctx.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	ctx.Data(http.StatusOK, "text/csv", data)
}
