package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hamza/campuscard/internal/app/models"
	"github.com/hamza/campuscard/internal/app/store"
)

// demoStudents are the records loaded into a fresh store so the admin
// UI has something to show before real data arrives.
var demoStudents = []models.StudentData{
	{
		RollNo:           "UOS-2024-CS-001",
		Name:             "Ahmed Hassan",
		FatherName:       "Muhammad Hassan",
		Department:       "Computer Science",
		Program:          "BS Computer Science",
		Session:          "2024-2028",
		BloodGroup:       models.BloodGroupAPositive,
		Contact:          "03001234567",
		EmergencyContact: "03009876543",
		Address:          "123 University Road, Sahiwal",
		ValidFrom:        "2024-09-01",
		ValidUntil:       "2028-08-31",
	},
	{
		RollNo:           "UOS-2024-CS-002",
		Name:             "Fatima Ali",
		FatherName:       "Ali Raza",
		Department:       "Computer Science",
		Program:          "BS Software Engineering",
		Session:          "2024-2028",
		BloodGroup:       models.BloodGroupBPositive,
		Contact:          "03011234568",
		EmergencyContact: "03019876544",
		Address:          "45 Canal Colony, Sahiwal",
		ValidFrom:        "2024-09-01",
		ValidUntil:       "2028-08-31",
	},
	{
		RollNo:           "UOS-2023-EE-015",
		Name:             "Usman Khan",
		FatherName:       "Imran Khan",
		Department:       "Electrical Engineering",
		Program:          "BS Electrical Engineering",
		Session:          "2023-2027",
		BloodGroup:       models.BloodGroupOPositive,
		Contact:          "03021234569",
		EmergencyContact: "03029876545",
		Address:          "Block C, Farid Town, Sahiwal",
		ValidFrom:        "2023-09-01",
		ValidUntil:       "2027-08-31",
	},
	{
		RollNo:           "UOS-2024-BBA-003",
		Name:             "Ayesha Malik",
		FatherName:       "Tariq Malik",
		Department:       "Business Administration",
		Program:          "BBA",
		Session:          "2024-2028",
		BloodGroup:       models.BloodGroupABPositive,
		Contact:          "03031234570",
		EmergencyContact: "03039876546",
		Address:          "78 Jinnah Street, Sahiwal",
		ValidFrom:        "2024-09-01",
		ValidUntil:       "2028-08-31",
	},
}

// CreateDemoData loads the demo records into an empty store. A store
// that already has records is left untouched.
func CreateDemoData(ctx context.Context, recordStore *store.StudentStore, lgr zerolog.Logger) error {
	if recordStore.Count() > 0 {
		lgr.Info().Msg("Store already has records, skipping demo data")
		return nil
	}

	for _, data := range demoStudents {
		if _, err := recordStore.Create(ctx, data); err != nil {
			return fmt.Errorf("failed to seed demo record %s: %w", data.RollNo, err)
		}
	}

	lgr.Info().Int("count", len(demoStudents)).Msg("Demo data seeded")
	return nil
}
