package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LogEntry is a dated journal entry owned by exactly one student.
// Entries are created and deleted but never updated.
type LogEntry struct {
	bun.BaseModel `bun:"table:logs,alias:l"`

	ID        int64     `bun:"id,pk,autoincrement"`
	EntryDate Date      `bun:"entry_date,type:date,notnull"`
	Data      string    `bun:"data,type:text,notnull"`
	MatricNum string    `bun:"matric_num,notnull"` // FK to students(matric_num)
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Student *Student `bun:"rel:belongs-to,join:matric_num=matric_num"`
}
