package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/uptrace/bun"
)

// BunCourseRepository implements CourseRepository using Bun ORM
type BunCourseRepository struct {
	db *bun.DB
}

// NewBunCourseRepository creates a new Bun-based course repository
func NewBunCourseRepository(db *bun.DB) *BunCourseRepository {
	return &BunCourseRepository{db: db}
}

// List returns the catalogue ordered by code
func (r *BunCourseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.NewSelect().
		Model(&courses).
		OrderExpr("code ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// GetByCode retrieves a course by its code
func (r *BunCourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	return r.getWhere(ctx, "code = ?", code)
}

// GetByName retrieves a course by its full name, ignoring case
func (r *BunCourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	return r.getWhere(ctx, "LOWER(name) = LOWER(?)", name)
}

func (r *BunCourseRepository) getWhere(ctx context.Context, where string, arg string) (*models.Course, error) {
	course := new(models.Course)
	err := r.db.NewSelect().
		Model(course).
		Where(where, arg).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course %q: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return course, nil
}
