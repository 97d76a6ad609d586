package server

import (
	"context"

	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/terraconstructs/logbook/internal/services/iam"
	"github.com/terraconstructs/logbook/internal/services/logbook"
)

// identityService defines the registration and login methods used by the
// auth handlers.
type identityService interface {
	RegisterStudent(ctx context.Context, in iam.RegisterStudentInput) (*models.Student, error)
	RegisterAdmin(ctx context.Context, in iam.RegisterAdminInput) (*models.Admin, error)
	LoginStudent(ctx context.Context, in iam.StudentLoginInput) (string, error)
	LoginAdmin(ctx context.Context, in iam.AdminLoginInput) (string, error)
}

// logbookService defines the journal and browse methods used by the log and
// admin handlers.
type logbookService interface {
	AddLog(ctx context.Context, matricNum string, in logbook.AddLogInput) (*models.LogEntry, error)
	ListLogs(ctx context.Context, matricNum string) ([]models.LogEntry, error)
	GetLog(ctx context.Context, matricNum string, id int64) (*models.LogEntry, error)
	DeleteLog(ctx context.Context, matricNum string, id int64) error

	ListStudents(ctx context.Context) ([]models.Student, error)
	SearchStudents(ctx context.Context, attribute, value string) ([]models.Student, error)
	GetStudent(ctx context.Context, matricNum string) (*logbook.StudentRecord, error)
	GetStudentLog(ctx context.Context, matricNum string, id int64) (*models.LogEntry, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
}

var (
	_ identityService = (*iam.Service)(nil)
	_ logbookService  = (*logbook.Service)(nil)
)
