package migrations

import (
	"context"
	"fmt"

	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20260301000001, down_20260301000001)
}

// up_20260301000001 seeds the course catalogue
func up_20260301000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] seeding courses...")

	courses := make([]models.Course, len(models.DefaultCourses))
	copy(courses, models.DefaultCourses)

	if _, err := db.NewInsert().
		Model(&courses).
		On("CONFLICT (code) DO NOTHING"). // Idempotent
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}

	fmt.Println(" OK")
	return nil
}

// down_20260301000001 removes the seeded courses
func down_20260301000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] removing seeded courses...")

	codes := make([]string, 0, len(models.DefaultCourses))
	for _, c := range models.DefaultCourses {
		codes = append(codes, c.Code)
	}

	if _, err := db.NewDelete().
		Model((*models.Course)(nil)).
		Where("code IN (?)", bun.In(codes)).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove seeded courses: %w", err)
	}

	fmt.Println(" OK")
	return nil
}
