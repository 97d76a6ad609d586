package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/terraconstructs/logbook/internal/db/bunx"
	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/uptrace/bun"
)

// BunAdminRepository implements AdminRepository using Bun ORM
type BunAdminRepository struct {
	db *bun.DB
}

// NewBunAdminRepository creates a new Bun-based admin repository
func NewBunAdminRepository(db *bun.DB) *BunAdminRepository {
	return &BunAdminRepository{db: db}
}

// Create inserts a new admin and sets its generated ID.
func (r *BunAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	_, err := r.db.NewInsert().
		Model(admin).
		Exec(ctx)
	if err != nil {
		if bunx.IsUniqueViolation(err) {
			return fmt.Errorf("create admin %s: %w", admin.Name, ErrAlreadyExists)
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// GetByID retrieves an admin by ID
func (r *BunAdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	admin := new(models.Admin)
	err := r.db.NewSelect().
		Model(admin).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("admin %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get admin by ID: %w", err)
	}
	return admin, nil
}

// GetByName retrieves an admin by its unique name
func (r *BunAdminRepository) GetByName(ctx context.Context, name string) (*models.Admin, error) {
	admin := new(models.Admin)
	err := r.db.NewSelect().
		Model(admin).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("admin %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("get admin by name: %w", err)
	}
	return admin, nil
}
