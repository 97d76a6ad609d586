package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/terraconstructs/logbook/internal/db/bunx"
	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/uptrace/bun"
)

// BunStudentRepository implements StudentRepository using Bun ORM
type BunStudentRepository struct {
	db *bun.DB
}

// NewBunStudentRepository creates a new Bun-based student repository
func NewBunStudentRepository(db *bun.DB) *BunStudentRepository {
	return &BunStudentRepository{db: db}
}

// Create inserts a new student. A taken matric number yields ErrAlreadyExists.
func (r *BunStudentRepository) Create(ctx context.Context, student *models.Student) error {
	_, err := r.db.NewInsert().
		Model(student).
		Exec(ctx)
	if err != nil {
		if bunx.IsUniqueViolation(err) {
			return fmt.Errorf("create student %s: %w", student.MatricNum, ErrAlreadyExists)
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// GetByMatricNum retrieves a student and its course by matric number
func (r *BunStudentRepository) GetByMatricNum(ctx context.Context, matricNum string) (*models.Student, error) {
	student := new(models.Student)
	err := r.db.NewSelect().
		Model(student).
		Relation("Course").
		Where("s.matric_num = ?", matricNum).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student %s: %w", matricNum, ErrNotFound)
		}
		return nil, fmt.Errorf("get student by matric number: %w", err)
	}
	return student, nil
}

// List returns students matching filter ordered by matric number
func (r *BunStudentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	var students []models.Student
	q := r.db.NewSelect().
		Model(&students).
		Relation("Course").
		OrderExpr("s.matric_num ASC")

	if filter.Name != "" {
		pattern := likePattern(filter.Name)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(s.first_name) LIKE ?"+likeEscape, pattern).
				WhereOr("LOWER(s.middle_name) LIKE ?"+likeEscape, pattern).
				WhereOr("LOWER(s.last_name) LIKE ?"+likeEscape, pattern)
		})
	}
	if filter.Course != "" {
		q = q.Where("LOWER(course.name) LIKE ?"+likeEscape, likePattern(filter.Course))
	}
	if filter.MatricNum != "" {
		q = q.Where("LOWER(s.matric_num) LIKE ?"+likeEscape, likePattern(filter.MatricNum))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

const likeEscape = ` ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern lowercases v and wraps it for a case-insensitive substring
// match. Wildcards in v match literally.
func likePattern(v string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(v)) + "%"
}
