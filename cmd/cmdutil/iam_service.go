package cmdutil

import (
	"fmt"

	"github.com/uptrace/bun"

	"github.com/terraconstructs/logbook/internal/auth"
	"github.com/terraconstructs/logbook/internal/config"
	"github.com/terraconstructs/logbook/internal/db/bunx"
	"github.com/terraconstructs/logbook/internal/repository"
	"github.com/terraconstructs/logbook/internal/services/iam"
)

// IAMServiceBundle bundles the service with its underlying DB connection so
// callers close both together.
type IAMServiceBundle struct {
	Service *iam.Service
	DB      *bun.DB
}

// Close releases the underlying database connection.
func (b *IAMServiceBundle) Close() {
	if b == nil || b.DB == nil {
		return
	}
	bunx.Close(b.DB)
}

// NewIAMServiceBundle builds the identity service for CLI commands from an
// already loaded configuration.
func NewIAMServiceBundle(cfg *config.Config) (*IAMServiceBundle, error) {
	db, err := bunx.NewDB(cfg.DatabaseURL, bunx.Options{Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if err != nil {
		bunx.Close(db)
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}

	svc := iam.NewService(iam.Dependencies{
		Students: repository.NewBunStudentRepository(db),
		Admins:   repository.NewBunAdminRepository(db),
		Courses:  repository.NewBunCourseRepository(db),
		Tokens:   codec,
		Hasher:   auth.NewBcryptHasher(cfg.Auth.BcryptCost),
	})

	return &IAMServiceBundle{Service: svc, DB: db}, nil
}
