package dto

import "github.com/hamza/campuscard/internal/app/models"

// StudentRequest is the payload for creating or fully replacing a
// student record. Mirrors the admin form's field rules.
type StudentRequest struct {
	RollNo           string `json:"roll_no" binding:"required" validate:"required"`
	Name             string `json:"name" binding:"required,min=2,max=100" validate:"required,min=2,max=100"`
	FatherName       string `json:"father_name" binding:"required,min=2,max=100" validate:"required,min=2,max=100"`
	Department       string `json:"department" binding:"required,min=2" validate:"required,min=2"`
	Program          string `json:"program" binding:"required,min=2" validate:"required,min=2"`
	Session          string `json:"session" binding:"required,min=4" validate:"required,min=4"`
	BloodGroup       string `json:"blood_group" binding:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Contact          string `json:"contact" binding:"required,numeric,min=10,max=15" validate:"required,numeric,min=10,max=15"`
	EmergencyContact string `json:"emergency_contact" binding:"required,numeric,min=10,max=15" validate:"required,numeric,min=10,max=15"`
	Address          string `json:"address" binding:"required,min=10,max=200" validate:"required,min=10,max=200"`
	PhotoURL         string `json:"photo_url" binding:"omitempty,url" validate:"omitempty,url"`
	ValidFrom        string `json:"valid_from" binding:"required,datetime=2006-01-02" validate:"required,datetime=2006-01-02"`
	ValidUntil       string `json:"valid_until" binding:"required,datetime=2006-01-02" validate:"required,datetime=2006-01-02"`
}

// ToData converts the request into the store's payload type
func (r *StudentRequest) ToData() models.StudentData {
	return models.StudentData{
		RollNo:           r.RollNo,
		Name:             r.Name,
		FatherName:       r.FatherName,
		Department:       r.Department,
		Program:          r.Program,
		Session:          r.Session,
		BloodGroup:       models.BloodGroup(r.BloodGroup),
		Contact:          r.Contact,
		EmergencyContact: r.EmergencyContact,
		Address:          r.Address,
		PhotoURL:         r.PhotoURL,
		ValidFrom:        r.ValidFrom,
		ValidUntil:       r.ValidUntil,
	}
}

// StudentListResponse is the paginated student list
type StudentListResponse struct {
	Students   []*models.Student `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// SelectionResponse reports the current selection set
type SelectionResponse struct {
	SelectedIDs []string `json:"selectedIds"`
	Count       int      `json:"count"`
}

// VerifyResponse is the public verification view. It exposes only the
// public-safe subset of a record, never contact details or photo.
type VerifyResponse struct {
	Status     string `json:"status" example:"valid" enums:"valid,expired"`
	Name       string `json:"name"`
	RollNo     string `json:"roll_no"`
	Department string `json:"department"`
	Program    string `json:"program"`
	FatherName string `json:"father_name"`
	Session    string `json:"session"`
	ValidFrom  string `json:"valid_from"`
	ValidUntil string `json:"valid_until"`
}

// DepartmentCount is one slice of the dashboard department breakdown
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// StatsResponse is the dashboard summary
type StatsResponse struct {
	TotalStudents int               `json:"totalStudents"`
	ValidCards    int               `json:"validCards"`
	ExpiredCards  int               `json:"expiredCards"`
	SelectedCount int               `json:"selectedCount"`
	Departments   []DepartmentCount `json:"departments"`
}

// ShareLinkResponse carries the WhatsApp share URL for a card
type ShareLinkResponse struct {
	VerifyURL string `json:"verifyUrl"`
	ShareURL  string `json:"shareUrl"`
}

// PhotoResponse reports the stored photo location after an upload
type PhotoResponse struct {
	PhotoURL string `json:"photo_url"`
}
