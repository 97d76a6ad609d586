package iam

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/terraconstructs/logbook/internal/repository"
)

// mockStudentRepository is an in-memory StudentRepository. err, when set,
// is returned from every call to simulate a store outage.
type mockStudentRepository struct {
	mu       sync.Mutex
	students map[string]*models.Student
	err      error
	lookups  int
}

func newMockStudentRepository() *mockStudentRepository {
	return &mockStudentRepository{students: make(map[string]*models.Student)}
}

func (m *mockStudentRepository) Create(_ context.Context, s *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.students[s.MatricNum]; ok {
		return fmt.Errorf("create student %s: %w", s.MatricNum, repository.ErrAlreadyExists)
	}
	m.students[s.MatricNum] = s
	return nil
}

func (m *mockStudentRepository) GetByMatricNum(_ context.Context, matricNum string) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.students[matricNum]
	if !ok {
		return nil, fmt.Errorf("student %s: %w", matricNum, repository.ErrNotFound)
	}
	return s, nil
}

func (m *mockStudentRepository) List(_ context.Context, _ repository.StudentFilter) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, m.err
}

func (m *mockStudentRepository) delete(matricNum string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.students, matricNum)
}

type mockAdminRepository struct {
	mu     sync.Mutex
	admins map[int64]*models.Admin
	nextID int64
	err    error
}

func newMockAdminRepository() *mockAdminRepository {
	return &mockAdminRepository{admins: make(map[int64]*models.Admin)}
}

func (m *mockAdminRepository) Create(_ context.Context, a *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.admins {
		if existing.Name == a.Name {
			return fmt.Errorf("create admin %s: %w", a.Name, repository.ErrAlreadyExists)
		}
	}
	m.nextID++
	a.ID = m.nextID
	m.admins[a.ID] = a
	return nil
}

func (m *mockAdminRepository) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.admins[id]
	if !ok {
		return nil, fmt.Errorf("admin %d: %w", id, repository.ErrNotFound)
	}
	return a, nil
}

func (m *mockAdminRepository) GetByName(_ context.Context, name string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.admins {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("admin %q: %w", name, repository.ErrNotFound)
}

type mockCourseRepository struct{}

func (mockCourseRepository) List(context.Context) ([]models.Course, error) {
	return models.DefaultCourses, nil
}

func (mockCourseRepository) GetByCode(_ context.Context, code string) (*models.Course, error) {
	for _, c := range models.DefaultCourses {
		if c.Code == code {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (mockCourseRepository) GetByName(_ context.Context, name string) (*models.Course, error) {
	for _, c := range models.DefaultCourses {
		if strings.EqualFold(c.Name, name) {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeHasher prefixes plaintext and records every Verify call.
type fakeHasher struct {
	mu       sync.Mutex
	verified []string
	hashErr  error
}

func (h *fakeHasher) Hash(plaintext string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plaintext, nil
}

func (h *fakeHasher) Verify(hash, plaintext string) bool {
	h.mu.Lock()
	h.verified = append(h.verified, hash)
	h.mu.Unlock()
	return hash != "" && hash == "hashed:"+plaintext
}
