package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"
	"time"

	"github.com/hamza/campuscard/internal/app/models"
	"github.com/hamza/campuscard/internal/app/models/dto"
	"github.com/hamza/campuscard/internal/app/store"
	"github.com/hamza/campuscard/internal/pkg/apperrors"
	"github.com/hamza/campuscard/internal/pkg/filestorage"
	"github.com/hamza/campuscard/internal/pkg/helpers"
)

var rollNoPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// StudentService handles student record operations on top of the store
type StudentService struct {
	store   *store.StudentStore
	storage filestorage.FileStorage
}

// NewStudentService creates a new student service instance
func NewStudentService(recordStore *store.StudentStore, storage filestorage.FileStorage) *StudentService {
	return &StudentService{
		store:   recordStore,
		storage: storage,
	}
}

// validateStudentData applies the field rules the binding layer cannot
// express: roll number charset and validity window ordering.
func (s *StudentService) validateStudentData(data models.StudentData) error {
	if !rollNoPattern.MatchString(data.RollNo) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "roll number may contain only letters, digits and hyphens")
	}

	if !models.IsValidBloodGroup(string(data.BloodGroup)) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "unknown blood group")
	}

	from, err := time.Parse(models.DateLayout, data.ValidFrom)
	if err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "valid_from must be an ISO 8601 date")
	}
	until, err := time.Parse(models.DateLayout, data.ValidUntil)
	if err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "valid_until must be an ISO 8601 date")
	}
	if until.Before(from) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "valid_until must not be before valid_from")
	}

	return nil
}

// CreateStudent validates and creates a new record
func (s *StudentService) CreateStudent(ctx context.Context, data models.StudentData) (*models.Student, error) {
	if err := s.validateStudentData(data); err != nil {
		return nil, err
	}

	student, err := s.store.Create(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return student, nil
}

// UpdateStudent fully replaces an existing record's fields
func (s *StudentService) UpdateStudent(ctx context.Context, id string, data models.StudentData) (*models.Student, error) {
	if err := s.validateStudentData(data); err != nil {
		return nil, err
	}

	student, err := s.store.Update(ctx, id, data)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes a record and its stored photo, if any
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	student, err := s.store.GetByID(id)
	if err != nil {
		// Deleting a missing record is a no-op by contract
		return nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}

	if student.PhotoURL != "" && s.storage != nil {
		if err := s.storage.DeleteFile(student.PhotoURL); err != nil {
			return fmt.Errorf("record deleted but photo cleanup failed: %w", err)
		}
	}
	return nil
}

// GetStudentByID retrieves a single record
func (s *StudentService) GetStudentByID(id string) (*models.Student, error) {
	return s.store.GetByID(id)
}

// ListStudents returns one page of records, optionally filtered by a
// case-insensitive search over name, roll number and department.
func (s *StudentService) ListStudents(search string, page, size int) ([]*models.Student, int64) {
	all := s.store.List()

	if search != "" {
		needle := strings.ToLower(search)
		filtered := make([]*models.Student, 0, len(all))
		for _, st := range all {
			if strings.Contains(strings.ToLower(st.Name), needle) ||
				strings.Contains(strings.ToLower(st.RollNo), needle) ||
				strings.Contains(strings.ToLower(st.Department), needle) {
				filtered = append(filtered, st)
			}
		}
		all = filtered
	}

	total := int64(len(all))
	start, end := helpers.CalculateSliceIndices(page, size, len(all))
	return all[start:end], total
}

// ToggleSelect flips a record's membership in the selection set
func (s *StudentService) ToggleSelect(id string) ([]string, error) {
	if _, err := s.store.GetByID(id); err != nil {
		return nil, err
	}
	s.store.ToggleSelect(id)
	return s.store.Selected(), nil
}

// SelectAll marks every record selected
func (s *StudentService) SelectAll() []string {
	s.store.SelectAll()
	return s.store.Selected()
}

// ClearSelection empties the selection set
func (s *StudentService) ClearSelection() {
	s.store.ClearSelection()
}

// Selection returns the current selection set
func (s *StudentService) Selection() []string {
	return s.store.Selected()
}

// SetPhoto stores an uploaded photo and attaches it to the record.
// A previously stored photo is replaced.
func (s *StudentService) SetPhoto(ctx context.Context, id string, fileHeader *multipart.FileHeader) (*models.Student, error) {
	student, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}

	photoURL, err := s.storage.SaveFileWithPath(fileHeader, "photos")
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	old := student.PhotoURL
	data := toData(student)
	data.PhotoURL = photoURL

	updated, err := s.store.Update(ctx, id, data)
	if err != nil {
		_ = s.storage.DeleteFile(photoURL)
		return nil, err
	}

	if old != "" {
		_ = s.storage.DeleteFile(old)
	}
	return updated, nil
}

// RemovePhoto detaches and deletes the record's stored photo
func (s *StudentService) RemovePhoto(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}

	old := student.PhotoURL
	data := toData(student)
	data.PhotoURL = ""

	updated, err := s.store.Update(ctx, id, data)
	if err != nil {
		return nil, err
	}

	if old != "" {
		_ = s.storage.DeleteFile(old)
	}
	return updated, nil
}

// Verify resolves a record id to the public verification view.
// Only public-safe fields are exposed; the endpoint carries no auth.
func (s *StudentService) Verify(id string, now time.Time) (*dto.VerifyResponse, error) {
	student, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}

	status := "valid"
	if student.Expired(now) {
		status = "expired"
	}

	return &dto.VerifyResponse{
		Status:     status,
		Name:       student.Name,
		RollNo:     student.RollNo,
		Department: student.Department,
		Program:    student.Program,
		FatherName: student.FatherName,
		Session:    student.Session,
		ValidFrom:  student.ValidFrom,
		ValidUntil: student.ValidUntil,
	}, nil
}

// Stats builds the dashboard summary
func (s *StudentService) Stats(now time.Time) *dto.StatsResponse {
	all := s.store.List()

	resp := &dto.StatsResponse{
		TotalStudents: len(all),
		SelectedCount: len(s.store.Selected()),
	}

	perDept := map[string]int{}
	order := []string{}
	for _, st := range all {
		if st.Expired(now) {
			resp.ExpiredCards++
		} else {
			resp.ValidCards++
		}
		if _, seen := perDept[st.Department]; !seen {
			order = append(order, st.Department)
		}
		perDept[st.Department]++
	}

	for _, dept := range order {
		resp.Departments = append(resp.Departments, dto.DepartmentCount{
			Department: dept,
			Count:      perDept[dept],
		})
	}
	return resp
}

// toData copies a record's caller-settable fields into a payload
func toData(st *models.Student) models.StudentData {
	return models.StudentData{
		RollNo:           st.RollNo,
		Name:             st.Name,
		FatherName:       st.FatherName,
		Department:       st.Department,
		Program:          st.Program,
		Session:          st.Session,
		BloodGroup:       st.BloodGroup,
		Contact:          st.Contact,
		EmergencyContact: st.EmergencyContact,
		Address:          st.Address,
		PhotoURL:         st.PhotoURL,
		ValidFrom:        st.ValidFrom,
		ValidUntil:       st.ValidUntil,
	}
}
