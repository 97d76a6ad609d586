package repository

import (
	"context"
	"errors"

	"github.com/terraconstructs/logbook/internal/db/models"
)

var (
	// ErrNotFound is returned by point lookups that match no row.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when an insert hits a primary key or unique constraint.
	ErrAlreadyExists = errors.New("already exists")
)

// StudentFilter narrows a student listing. Empty fields are ignored; set
// fields are case-insensitive substring matches combined with AND.
type StudentFilter struct {
	Name      string // first, middle or last name
	Course    string // course name
	MatricNum string
}

// StudentRepository exposes persistence operations for students.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByMatricNum(ctx context.Context, matricNum string) (*models.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
}

// AdminRepository exposes persistence operations for administrators.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	GetByName(ctx context.Context, name string) (*models.Admin, error)
}

// CourseRepository exposes the read-only course catalogue.
type CourseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	GetByName(ctx context.Context, name string) (*models.Course, error)
}

// LogRepository exposes persistence operations for log entries.
// Reads and deletes are always scoped to the owning student.
type LogRepository interface {
	Create(ctx context.Context, entry *models.LogEntry) error
	ListByStudent(ctx context.Context, matricNum string) ([]models.LogEntry, error)
	GetForStudent(ctx context.Context, matricNum string, id int64) (*models.LogEntry, error)
	DeleteForStudent(ctx context.Context, matricNum string, id int64) error
}
