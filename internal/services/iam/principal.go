package iam

import "github.com/terraconstructs/logbook/internal/db/models"

// Role is the endpoint class a token is valid for.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// isAdmin is the token claim value required for the role.
func (r Role) isAdmin() bool {
	return r == RoleAdmin
}

// Principal is the resolved identity behind an authenticated request.
// Exactly one of Student and Admin is set, matching Role.
type Principal struct {
	Role    Role
	Student *models.Student
	Admin   *models.Admin

	// TokenID is the jti of the presented token, for log correlation.
	TokenID string
}

// SubjectID returns the identity the token was issued for.
func (p *Principal) SubjectID() string {
	switch {
	case p == nil:
		return ""
	case p.Student != nil:
		return p.Student.MatricNum
	case p.Admin != nil:
		return p.Admin.SubjectID()
	default:
		return ""
	}
}
