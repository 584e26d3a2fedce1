package models

import "time"

// BloodGroup is one of the eight ABO/Rh blood groups printed on the card.
type BloodGroup string

const (
	BloodGroupAPositive  BloodGroup = "A+"
	BloodGroupANegative  BloodGroup = "A-"
	BloodGroupBPositive  BloodGroup = "B+"
	BloodGroupBNegative  BloodGroup = "B-"
	BloodGroupABPositive BloodGroup = "AB+"
	BloodGroupABNegative BloodGroup = "AB-"
	BloodGroupOPositive  BloodGroup = "O+"
	BloodGroupONegative  BloodGroup = "O-"
)

// BloodGroups lists every valid blood group value.
var BloodGroups = []BloodGroup{
	BloodGroupAPositive, BloodGroupANegative,
	BloodGroupBPositive, BloodGroupBNegative,
	BloodGroupABPositive, BloodGroupABNegative,
	BloodGroupOPositive, BloodGroupONegative,
}

// IsValidBloodGroup reports whether s is one of the eight known groups.
func IsValidBloodGroup(s string) bool {
	for _, bg := range BloodGroups {
		if string(bg) == s {
			return true
		}
	}
	return false
}

// DateLayout is the wire format for ValidFrom/ValidUntil.
const DateLayout = "2006-01-02"

// Student is the record backing an ID card. ID is assigned at creation
// and never changes; CreatedAt is set once, UpdatedAt on every mutation.
type Student struct {
	ID               string     `json:"id" example:"7b0d3ab4-9f2e-4a7c-8d2a-0f6a1c2b3d4e"`
	RollNo           string     `json:"roll_no" example:"UOS-2024-CS-001"`
	Name             string     `json:"name" example:"Ahmed Hassan"`
	FatherName       string     `json:"father_name" example:"Muhammad Hassan"`
	Department       string     `json:"department" example:"Computer Science"`
	Program          string     `json:"program" example:"BS Computer Science"`
	Session          string     `json:"session" example:"2024-2028"`
	BloodGroup       BloodGroup `json:"blood_group" example:"A+"`
	Contact          string     `json:"contact" example:"03001234567"`
	EmergencyContact string     `json:"emergency_contact" example:"03009876543"`
	Address          string     `json:"address" example:"123 University Road, Sahiwal"`
	PhotoURL         string     `json:"photo_url,omitempty"`
	ValidFrom        string     `json:"valid_from" example:"2024-09-01"` // ISO 8601 date
	ValidUntil       string     `json:"valid_until" example:"2028-08-31"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// StudentData carries every caller-settable field of a Student. It is
// the payload for both create and full-replace update; ID, CreatedAt
// and UpdatedAt are owned by the store.
type StudentData struct {
	RollNo           string
	Name             string
	FatherName       string
	Department       string
	Program          string
	Session          string
	BloodGroup       BloodGroup
	Contact          string
	EmergencyContact string
	Address          string
	PhotoURL         string
	ValidFrom        string
	ValidUntil       string
}

// Expired reports whether the card validity window has passed at the
// given instant. A card whose ValidUntil date equals today is still valid.
func (s *Student) Expired(now time.Time) bool {
	until, err := time.Parse(DateLayout, s.ValidUntil)
	if err != nil {
		return false
	}
	return !now.Before(until.AddDate(0, 0, 1))
}
