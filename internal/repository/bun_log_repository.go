package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/uptrace/bun"
)

// BunLogRepository implements LogRepository using Bun ORM
type BunLogRepository struct {
	db *bun.DB
}

// NewBunLogRepository creates a new Bun-based log repository
func NewBunLogRepository(db *bun.DB) *BunLogRepository {
	return &BunLogRepository{db: db}
}

// Create inserts a log entry and sets its generated ID
func (r *BunLogRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	_, err := r.db.NewInsert().
		Model(entry).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create log entry: %w", err)
	}
	return nil
}

// ListByStudent returns a student's entries, newest entry date first
func (r *BunLogRepository) ListByStudent(ctx context.Context, matricNum string) ([]models.LogEntry, error) {
	entries := make([]models.LogEntry, 0)
	if err := r.db.NewSelect().
		Model(&entries).
		Where("matric_num = ?", matricNum).
		OrderExpr("entry_date DESC, id DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list logs for %s: %w", matricNum, err)
	}
	return entries, nil
}

// GetForStudent retrieves an entry only if it belongs to matricNum
func (r *BunLogRepository) GetForStudent(ctx context.Context, matricNum string, id int64) (*models.LogEntry, error) {
	entry := new(models.LogEntry)
	err := r.db.NewSelect().
		Model(entry).
		Where("id = ?", id).
		Where("matric_num = ?", matricNum).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("log %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get log: %w", err)
	}
	return entry, nil
}

// DeleteForStudent removes an entry only if it belongs to matricNum
func (r *BunLogRepository) DeleteForStudent(ctx context.Context, matricNum string, id int64) error {
	res, err := r.db.NewDelete().
		Model((*models.LogEntry)(nil)).
		Where("id = ?", id).
		Where("matric_num = ?", matricNum).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("log %d: %w", id, ErrNotFound)
	}
	return nil
}
