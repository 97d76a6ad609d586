package models

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// Admin is an administrator principal. Tokens carry the stringified ID.
type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// SubjectID returns the token subject for this admin.
func (a *Admin) SubjectID() string {
	return strconv.FormatInt(a.ID, 10)
}
