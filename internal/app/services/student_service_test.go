package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamza/campuscard/internal/app/models"
	"github.com/hamza/campuscard/internal/app/store"
	"github.com/hamza/campuscard/internal/pkg/apperrors"
)

func setupStudentService() (*StudentService, *store.StudentStore) {
	recordStore := store.New(store.Config{})
	return NewStudentService(recordStore, nil), recordStore
}

func testStudentData(rollNo, name string) models.StudentData {
	return models.StudentData{
		RollNo:           rollNo,
		Name:             name,
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
	}
}

func TestCreateStudentRejectsBadRollNo(t *testing.T) {
	svc, _ := setupStudentService()

	data := testStudentData("UOS 2024!", "Ahmed")
	_, err := svc.CreateStudent(context.Background(), data)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestCreateStudentRejectsReversedValidityWindow(t *testing.T) {
	svc, _ := setupStudentService()

	data := testStudentData("UOS-1", "Ahmed")
	data.ValidFrom = "2028-08-31"
	data.ValidUntil = "2024-09-01"

	_, err := svc.CreateStudent(context.Background(), data)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestUpdateStudentUnknownIDReturnsNotFound(t *testing.T) {
	svc, _ := setupStudentService()

	_, err := svc.UpdateStudent(context.Background(), "no-such-id", testStudentData("UOS-1", "Ahmed"))
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestDeleteStudentUnknownIDIsNoOp(t *testing.T) {
	svc, _ := setupStudentService()

	if err := svc.DeleteStudent(context.Background(), "no-such-id"); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestListStudentsFiltersBySearch(t *testing.T) {
	svc, _ := setupStudentService()
	ctx := context.Background()

	svc.CreateStudent(ctx, testStudentData("UOS-2024-CS-001", "Ahmed Hassan"))
	svc.CreateStudent(ctx, testStudentData("UOS-2024-CS-002", "Fatima Ali"))

	students, total := svc.ListStudents("fatima", 1, 10)
	if total != 1 || len(students) != 1 {
		t.Fatalf("expected 1 match, got %d (total %d)", len(students), total)
	}
	if students[0].Name != "Fatima Ali" {
		t.Errorf("expected Fatima Ali, got %s", students[0].Name)
	}
}

func TestListStudentsPaginates(t *testing.T) {
	svc, _ := setupStudentService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		data := testStudentData("UOS-"+string(rune('1'+i)), "Student")
		if _, err := svc.CreateStudent(ctx, data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page1, total := svc.ListStudents("", 1, 2)
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(page1) != 2 {
		t.Errorf("expected 2 records on page 1, got %d", len(page1))
	}

	page3, _ := svc.ListStudents("", 3, 2)
	if len(page3) != 1 {
		t.Errorf("expected 1 record on page 3, got %d", len(page3))
	}
}

func TestToggleSelectUnknownIDReturnsNotFound(t *testing.T) {
	svc, _ := setupStudentService()

	_, err := svc.ToggleSelect("no-such-id")
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestVerifyExpiredCard(t *testing.T) {
	svc, _ := setupStudentService()

	data := testStudentData("UOS-1", "Ahmed")
	data.ValidFrom = "2020-09-01"
	data.ValidUntil = time.Now().AddDate(0, 0, -1).Format(models.DateLayout)

	st, err := svc.CreateStudent(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Verify(st.ID, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != "expired" {
		t.Errorf("expected status expired, got %s", result.Status)
	}
}

func TestVerifyValidCard(t *testing.T) {
	svc, _ := setupStudentService()

	data := testStudentData("UOS-1", "Ahmed")
	data.ValidUntil = time.Now().AddDate(0, 0, 1).Format(models.DateLayout)

	st, err := svc.CreateStudent(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Verify(st.ID, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != "valid" {
		t.Errorf("expected status valid, got %s", result.Status)
	}
}

func TestVerifyCardValidThroughItsLastDay(t *testing.T) {
	svc, _ := setupStudentService()

	data := testStudentData("UOS-1", "Ahmed")
	data.ValidUntil = time.Now().Format(models.DateLayout)

	st, _ := svc.CreateStudent(context.Background(), data)

	result, err := svc.Verify(st.ID, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != "valid" {
		t.Errorf("expected a card expiring today to still be valid, got %s", result.Status)
	}
}

func TestVerifyUnknownIDReturnsNotFound(t *testing.T) {
	svc, _ := setupStudentService()

	_, err := svc.Verify("no-such-id", time.Now())
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestVerifyExposesOnlyPublicFields(t *testing.T) {
	svc, _ := setupStudentService()

	st, _ := svc.CreateStudent(context.Background(), testStudentData("UOS-1", "Ahmed"))

	result, err := svc.Verify(st.ID, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "Ahmed" || result.RollNo != "UOS-1" {
		t.Errorf("unexpected public fields: %+v", result)
	}
}

func TestStatsCountsDepartmentsInInsertionOrder(t *testing.T) {
	svc, recordStore := setupStudentService()
	ctx := context.Background()

	cs := testStudentData("UOS-1", "Ahmed")
	svc.CreateStudent(ctx, cs)

	ee := testStudentData("UOS-2", "Usman")
	ee.Department = "Electrical Engineering"
	svc.CreateStudent(ctx, ee)

	cs2 := testStudentData("UOS-3", "Fatima")
	svc.CreateStudent(ctx, cs2)

	recordStore.SelectAll()

	stats := svc.Stats(time.Now())
	if stats.TotalStudents != 3 {
		t.Errorf("expected 3 students, got %d", stats.TotalStudents)
	}
	if stats.ValidCards != 3 || stats.ExpiredCards != 0 {
		t.Errorf("expected 3 valid / 0 expired, got %d / %d", stats.ValidCards, stats.ExpiredCards)
	}
	if stats.SelectedCount != 3 {
		t.Errorf("expected 3 selected, got %d", stats.SelectedCount)
	}

	if len(stats.Departments) != 2 {
		t.Fatalf("expected 2 departments, got %d", len(stats.Departments))
	}
	if stats.Departments[0].Department != "Computer Science" || stats.Departments[0].Count != 2 {
		t.Errorf("unexpected first department entry: %+v", stats.Departments[0])
	}
	if stats.Departments[1].Department != "Electrical Engineering" || stats.Departments[1].Count != 1 {
		t.Errorf("unexpected second department entry: %+v", stats.Departments[1])
	}
}
