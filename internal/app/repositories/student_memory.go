package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/yigit/schoolconnector/internal/app/models"
)

// MemoryStudentRepository keeps students in process memory
type MemoryStudentRepository struct {
	mu       sync.RWMutex
	students map[string]*models.StudentRecord
}

var _ StudentRepository = (*MemoryStudentRepository)(nil)

// NewMemoryStudentRepository creates an empty in-memory store
func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{students: make(map[string]*models.StudentRecord)}
}

func (r *MemoryStudentRepository) Create(_ context.Context, student *models.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[student.ID]; ok {
		return ErrStudentAlreadyExists
	}
	if r.referenceTaken(student) {
		return ErrDuplicateReference
	}
	r.students[student.ID] = cloneStudent(student)
	return nil
}

// referenceTaken reports whether another record holds the template or
// relationship id of student. Callers hold the lock.
func (r *MemoryStudentRepository) referenceTaken(student *models.StudentRecord) bool {
	for id, other := range r.students {
		if id == student.ID {
			continue
		}
		if student.HasTemplate() && other.TemplateID() == student.TemplateID() {
			return true
		}
		if student.HasRelationship() && other.RelID() == student.RelID() {
			return true
		}
	}
	return false
}

func (r *MemoryStudentRepository) GetByID(_ context.Context, id string) (*models.StudentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	if !ok {
		return nil, ErrStudentNotFound
	}
	return cloneStudent(s), nil
}

func (r *MemoryStudentRepository) List(_ context.Context) ([]*models.StudentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.StudentRecord, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, cloneStudent(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryStudentRepository) findBy(match func(*models.StudentRecord) bool) (*models.StudentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.students {
		if match(s) {
			return cloneStudent(s), nil
		}
	}
	return nil, ErrStudentNotFound
}

func (r *MemoryStudentRepository) FindByTemplateID(_ context.Context, templateID string) (*models.StudentRecord, error) {
	return r.findBy(func(s *models.StudentRecord) bool {
		return s.HasTemplate() && s.TemplateID() == templateID
	})
}

func (r *MemoryStudentRepository) FindByRelationshipID(_ context.Context, relationshipID string) (*models.StudentRecord, error) {
	return r.findBy(func(s *models.StudentRecord) bool {
		return s.HasRelationship() && s.RelID() == relationshipID
	})
}

func (r *MemoryStudentRepository) Update(_ context.Context, student *models.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[student.ID]; !ok {
		return ErrStudentNotFound
	}
	if r.referenceTaken(student) {
		return ErrDuplicateReference
	}
	r.students[student.ID] = cloneStudent(student)
	return nil
}

func (r *MemoryStudentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[id]; !ok {
		return ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *MemoryStudentRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.students[id]
	return ok, nil
}
