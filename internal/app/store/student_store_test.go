package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamza/campuscard/internal/app/models"
	"github.com/hamza/campuscard/internal/pkg/apperrors"
)

func newTestStore() *StudentStore {
	return New(Config{})
}

func sampleData(rollNo, name string) models.StudentData {
	return models.StudentData{
		RollNo:     rollNo,
		Name:       name,
		Department: "Computer Science",
		Program:    "BS Computer Science",
		BloodGroup: models.BloodGroupOPositive,
		ValidFrom:  "2024-09-01",
		ValidUntil: "2028-08-31",
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	a, err := s.Create(ctx, sampleData("UOS-1", "Ahmed"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := s.Create(ctx, sampleData("UOS-2", "Fatima"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.ID == "" || b.ID == "" {
		t.Error("expected non-empty ids")
	}
	if a.ID == b.ID {
		t.Errorf("expected distinct ids, both were %s", a.ID)
	}
}

func TestCreateStampsEqualTimestamps(t *testing.T) {
	s := newTestStore()

	st, err := s.Create(context.Background(), sampleData("UOS-1", "Ahmed"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !st.CreatedAt.Equal(st.UpdatedAt) {
		t.Errorf("expected created_at == updated_at, got %v and %v", st.CreatedAt, st.UpdatedAt)
	}
	if st.CreatedAt.IsZero() {
		t.Error("expected non-zero created_at")
	}
}

func TestUpdatePreservesCreatedAtAndBumpsUpdatedAt(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	st, _ := s.Create(ctx, sampleData("UOS-1", "Ahmed"))

	updated, err := s.Update(ctx, st.ID, sampleData("UOS-1", "Ahmed Hassan"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.ID != st.ID {
		t.Errorf("expected id %s, got %s", st.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(st.CreatedAt) {
		t.Errorf("expected created_at preserved, got %v want %v", updated.CreatedAt, st.CreatedAt)
	}
	if !updated.UpdatedAt.After(st.UpdatedAt) {
		t.Errorf("expected updated_at to strictly increase, got %v after %v", updated.UpdatedAt, st.UpdatedAt)
	}
	if updated.Name != "Ahmed Hassan" {
		t.Errorf("expected name replaced, got %s", updated.Name)
	}
}

func TestUpdateUnknownIDReturnsNotFound(t *testing.T) {
	s := newTestStore()

	_, err := s.Update(context.Background(), "no-such-id", sampleData("UOS-1", "Ahmed"))
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	st, _ := s.Create(ctx, sampleData("UOS-1", "Ahmed"))
	if err := s.Delete(ctx, st.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.GetByID(st.ID); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound after delete, got %v", err)
	}
	if got := s.Count(); got != 0 {
		t.Errorf("expected empty store, got %d records", got)
	}
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	s.Create(ctx, sampleData("UOS-1", "Ahmed"))

	if err := s.Delete(ctx, "no-such-id"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if got := s.Count(); got != 1 {
		t.Errorf("expected 1 record, got %d", got)
	}
}

func TestDeleteScrubsSelection(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	a, _ := s.Create(ctx, sampleData("UOS-1", "Ahmed"))
	b, _ := s.Create(ctx, sampleData("UOS-2", "Fatima"))
	s.ToggleSelect(a.ID)
	s.ToggleSelect(b.ID)

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	selected := s.Selected()
	if len(selected) != 1 || selected[0] != b.ID {
		t.Errorf("expected selection [%s], got %v", b.ID, selected)
	}
}

func TestToggleSelectFlipsMembership(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	st, _ := s.Create(ctx, sampleData("UOS-1", "Ahmed"))

	s.ToggleSelect(st.ID)
	if got := s.Selected(); len(got) != 1 {
		t.Fatalf("expected 1 selected id, got %v", got)
	}

	s.ToggleSelect(st.ID)
	if got := s.Selected(); len(got) != 0 {
		t.Errorf("expected empty selection after second toggle, got %v", got)
	}
}

func TestToggleSelectIgnoresUnknownID(t *testing.T) {
	s := newTestStore()

	s.ToggleSelect("no-such-id")
	if got := s.Selected(); len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}
}

func TestSelectAllKeepsRecordOrder(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	a, _ := s.Create(ctx, sampleData("UOS-1", "Ahmed"))
	b, _ := s.Create(ctx, sampleData("UOS-2", "Fatima"))
	c, _ := s.Create(ctx, sampleData("UOS-3", "Usman"))

	s.SelectAll()

	want := []string{a.ID, b.ID, c.ID}
	got := s.Selected()
	if len(got) != len(want) {
		t.Fatalf("expected %d selected ids, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selection order mismatch at %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestListReturnsSnapshot(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	s.Create(ctx, sampleData("UOS-1", "Ahmed"))
	before := s.List()

	s.Create(ctx, sampleData("UOS-2", "Fatima"))

	if len(before) != 1 {
		t.Errorf("expected earlier snapshot to stay at 1 record, got %d", len(before))
	}
	if got := len(s.List()); got != 2 {
		t.Errorf("expected 2 records, got %d", got)
	}
}

func TestCreateHonorsContextCancellation(t *testing.T) {
	s := New(Config{WriteDelay: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Create(ctx, sampleData("UOS-1", "Ahmed")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
