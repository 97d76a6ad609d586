package logbook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/terraconstructs/logbook/internal/repository"
	"github.com/terraconstructs/logbook/internal/telemetry"
)

const tracerName = "logbookapi/services/logbook"

var (
	ErrIncompleteLogData = errors.New("incomplete log data")
	ErrInvalidEntryDate  = errors.New("invalid entry date")
	ErrLogNotFound       = errors.New("log not found")
	ErrStudentNotFound   = errors.New("student not found")
	ErrIncompleteQuery   = errors.New("incomplete request data")
	ErrUnsupportedSearch = errors.New("incorrect request format")
)

// Search attributes accepted by SearchStudents.
const (
	SearchByName      = "name"
	SearchByCourse    = "course"
	SearchByMatricNum = "matric_num"
)

// Service implements journal entries for students and the read-only
// student browser for administrators.
type Service struct {
	students repository.StudentRepository
	logs     repository.LogRepository
	courses  repository.CourseRepository
	validate *validator.Validate
}

// NewService creates a logbook service.
func NewService(students repository.StudentRepository, logs repository.LogRepository, courses repository.CourseRepository) *Service {
	return &Service{
		students: students,
		logs:     logs,
		courses:  courses,
		validate: validator.New(),
	}
}

// AddLogInput is the payload of POST /logs.
type AddLogInput struct {
	EntryDate string `json:"entry_date" validate:"required"`
	Data      string `json:"data" validate:"required"`
}

// StudentRecord is a student together with all of its entries.
type StudentRecord struct {
	Student *models.Student
	Logs    []models.LogEntry
}

// AddLog records an entry for matricNum. The owner always comes from the
// authenticated principal, never from the payload.
func (s *Service) AddLog(ctx context.Context, matricNum string, in AddLogInput) (*models.LogEntry, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, ErrIncompleteLogData
	}

	date, err := models.ParseDate(strings.TrimSpace(in.EntryDate))
	if err != nil {
		return nil, ErrInvalidEntryDate
	}

	entry := &models.LogEntry{
		EntryDate: date,
		Data:      in.Data,
		MatricNum: matricNum,
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("add log: %w", err)
	}
	return entry, nil
}

// ListLogs returns every entry owned by matricNum.
func (s *Service) ListLogs(ctx context.Context, matricNum string) ([]models.LogEntry, error) {
	entries, err := s.logs.ListByStudent(ctx, matricNum)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return entries, nil
}

// GetLog returns entry id if matricNum owns it.
func (s *Service) GetLog(ctx context.Context, matricNum string, id int64) (*models.LogEntry, error) {
	entry, err := s.logs.GetForStudent(ctx, matricNum, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("get log: %w", err)
	}
	return entry, nil
}

// DeleteLog removes entry id if matricNum owns it.
func (s *Service) DeleteLog(ctx context.Context, matricNum string, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "logbook.DeleteLog",
		attribute.Int64(telemetry.AttrLogID, id),
	)
	defer span.End()

	if err := s.logs.DeleteForStudent(ctx, matricNum, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLogNotFound
		}
		telemetry.RecordError(span, err)
		return fmt.Errorf("delete log: %w", err)
	}
	return nil
}

// ListStudents returns every registered student.
func (s *Service) ListStudents(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.List(ctx, repository.StudentFilter{})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// SearchStudents filters students by a single attribute. Both attribute and
// value are required; attribute must be one of the SearchBy constants.
func (s *Service) SearchStudents(ctx context.Context, attribute, value string) ([]models.Student, error) {
	if attribute == "" || value == "" {
		return nil, ErrIncompleteQuery
	}

	var filter repository.StudentFilter
	switch attribute {
	case SearchByName:
		filter.Name = value
	case SearchByCourse:
		filter.Course = value
	case SearchByMatricNum:
		filter.MatricNum = value
	default:
		return nil, ErrUnsupportedSearch
	}

	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search students by %s: %w", attribute, err)
	}
	return students, nil
}

// GetStudent returns a student with all of its entries.
func (s *Service) GetStudent(ctx context.Context, matricNum string) (*StudentRecord, error) {
	student, err := s.lookupStudent(ctx, matricNum)
	if err != nil {
		return nil, err
	}

	entries, err := s.logs.ListByStudent(ctx, student.MatricNum)
	if err != nil {
		return nil, fmt.Errorf("list logs for student: %w", err)
	}
	return &StudentRecord{Student: student, Logs: entries}, nil
}

// GetStudentLog returns one entry of a student. The student is checked first
// so callers can tell which of the two is missing.
func (s *Service) GetStudentLog(ctx context.Context, matricNum string, id int64) (*models.LogEntry, error) {
	student, err := s.lookupStudent(ctx, matricNum)
	if err != nil {
		return nil, err
	}
	return s.GetLog(ctx, student.MatricNum, id)
}

// ListCourses returns the course catalogue.
func (s *Service) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (s *Service) lookupStudent(ctx context.Context, matricNum string) (*models.Student, error) {
	student, err := s.students.GetByMatricNum(ctx, matricNum)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return student, nil
}
