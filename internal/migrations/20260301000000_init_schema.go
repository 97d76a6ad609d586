package migrations

import (
	"context"
	"fmt"

	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20260301000000, down_20260301000000)
}

// up_20260301000000 creates the courses, students, admins and logs tables
func up_20260301000000(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating courses table...")
	if _, err := db.NewCreateTable().
		Model((*models.Course)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create courses table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating students table...")
	if _, err := db.NewCreateTable().
		Model((*models.Student)(nil)).
		IfNotExists().
		ForeignKey(`(course_code) REFERENCES courses(code)`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create students table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating admins table...")
	if _, err := db.NewCreateTable().
		Model((*models.Admin)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create admins table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating logs table...")
	if _, err := db.NewCreateTable().
		Model((*models.LogEntry)(nil)).
		IfNotExists().
		ForeignKey(`(matric_num) REFERENCES students(matric_num) ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create logs table: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*models.LogEntry)(nil)).
		Index("idx_logs_matric_num_entry_date").
		Column("matric_num", "entry_date").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create logs index: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20260301000000 drops the tables in reverse dependency order
func down_20260301000000(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping logbook tables...")

	for _, model := range []any{
		(*models.LogEntry)(nil),
		(*models.Admin)(nil),
		(*models.Student)(nil),
		(*models.Course)(nil),
	} {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}

	fmt.Println(" OK")
	return nil
}
