package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hamza/campuscard/internal/app/models"
	"github.com/hamza/campuscard/internal/pkg/apperrors"
)

// Config controls the store's simulated backend latency. The delays
// stand in for a future remote persistence call; tests run with zero.
type Config struct {
	WriteDelay  time.Duration
	DeleteDelay time.Duration
}

// StudentStore holds the student records and the current selection set
// in memory. Mutations follow copy-on-write semantics: the record
// slice is replaced wholesale, never edited in place, so consumers may
// detect changes by reference comparison. The store is an explicit
// dependency handed to services by the bootstrap, never a global.
type StudentStore struct {
	mu       sync.RWMutex
	students []*models.Student
	selected []string
	cfg      Config
}

// New creates an empty StudentStore
func New(cfg Config) *StudentStore {
	return &StudentStore{cfg: cfg}
}

// sleep blocks for the given simulated latency, honoring context
// cancellation so an abandoned request does not hold its worker.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Create assigns a fresh id, stamps both timestamps with the same
// instant and appends the record.
func (s *StudentStore) Create(ctx context.Context, data models.StudentData) (*models.Student, error) {
	if err := sleep(ctx, s.cfg.WriteDelay); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	student := &models.Student{
		ID:               uuid.New().String(),
		RollNo:           data.RollNo,
		Name:             data.Name,
		FatherName:       data.FatherName,
		Department:       data.Department,
		Program:          data.Program,
		Session:          data.Session,
		BloodGroup:       data.BloodGroup,
		Contact:          data.Contact,
		EmergencyContact: data.EmergencyContact,
		Address:          data.Address,
		PhotoURL:         data.PhotoURL,
		ValidFrom:        data.ValidFrom,
		ValidUntil:       data.ValidUntil,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*models.Student, len(s.students), len(s.students)+1)
	copy(next, s.students)
	s.students = append(next, student)

	return student, nil
}

// Update fully replaces every caller-settable field of the record.
// ID and CreatedAt are preserved; UpdatedAt strictly increases.
// Returns ErrStudentNotFound for an unknown id.
func (s *StudentStore) Update(ctx context.Context, id string, data models.StudentData) (*models.Student, error) {
	if err := sleep(ctx, s.cfg.WriteDelay); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, apperrors.ErrStudentNotFound
	}
	prev := s.students[idx]

	now := time.Now().UTC()
	if !now.After(prev.UpdatedAt) {
		now = prev.UpdatedAt.Add(time.Nanosecond)
	}

	updated := &models.Student{
		ID:               prev.ID,
		RollNo:           data.RollNo,
		Name:             data.Name,
		FatherName:       data.FatherName,
		Department:       data.Department,
		Program:          data.Program,
		Session:          data.Session,
		BloodGroup:       data.BloodGroup,
		Contact:          data.Contact,
		EmergencyContact: data.EmergencyContact,
		Address:          data.Address,
		PhotoURL:         data.PhotoURL,
		ValidFrom:        data.ValidFrom,
		ValidUntil:       data.ValidUntil,
		CreatedAt:        prev.CreatedAt,
		UpdatedAt:        now,
	}

	next := make([]*models.Student, len(s.students))
	copy(next, s.students)
	next[idx] = updated
	s.students = next

	return updated, nil
}

// Delete removes the record and scrubs its id from the selection set.
// Deleting an unknown id is a no-op.
func (s *StudentStore) Delete(ctx context.Context, id string) error {
	if err := sleep(ctx, s.cfg.DeleteDelay); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	next := make([]*models.Student, 0, len(s.students)-1)
	next = append(next, s.students[:idx]...)
	next = append(next, s.students[idx+1:]...)
	s.students = next

	s.selected = removeID(s.selected, id)
	return nil
}

// GetByID returns the record, or ErrStudentNotFound
func (s *StudentStore) GetByID(id string) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.students[idx], nil
	}
	return nil, apperrors.ErrStudentNotFound
}

// List returns a snapshot of all records in insertion order
func (s *StudentStore) List() []*models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*models.Student, len(s.students))
	copy(snapshot, s.students)
	return snapshot
}

// Count returns the number of records
func (s *StudentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students)
}

// ToggleSelect flips the membership of id in the selection set.
// Ids without a live record are ignored, preserving the invariant that
// every selected id refers to an existing record.
func (s *StudentStore) ToggleSelect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return
	}

	for _, sel := range s.selected {
		if sel == id {
			s.selected = removeID(s.selected, id)
			return
		}
	}
	s.selected = append(append([]string{}, s.selected...), id)
}

// SelectAll marks every record as selected
func (s *StudentStore) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.students))
	for i, st := range s.students {
		ids[i] = st.ID
	}
	s.selected = ids
}

// ClearSelection empties the selection set
func (s *StudentStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Selected returns a snapshot of the selected ids in selection order
func (s *StudentStore) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.selected...)
}

// indexOf must be called with the lock held
func (s *StudentStore) indexOf(id string) int {
	for i, st := range s.students {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func removeID(ids []string, id string) []string {
	next := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			next = append(next, v)
		}
	}
	return next
}
