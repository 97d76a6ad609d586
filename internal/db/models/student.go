package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Student is a principal identified by its matriculation number.
// The matric number is the external primary key and never changes.
type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	MatricNum    string    `bun:"matric_num,pk"`
	FirstName    string    `bun:"first_name,notnull"`
	LastName     string    `bun:"last_name,notnull"`
	MiddleName   string    `bun:"middle_name,nullzero"`
	CourseCode   string    `bun:"course_code,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Course *Course `bun:"rel:belongs-to,join:course_code=code"`
}

// CourseName returns the affiliated course name, falling back to the code
// when the relation was not loaded.
func (s *Student) CourseName() string {
	if s.Course != nil && s.Course.Name != "" {
		return s.Course.Name
	}
	return s.CourseCode
}
