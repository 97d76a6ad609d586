package iam

import (
	"context"

	"github.com/terraconstructs/logbook/internal/db/models"
)

type principalContextKey struct{}

// WithPrincipal stores the authenticated principal on the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	return p, ok && p != nil
}

// StudentFromContext returns the authenticated student, if the request passed a student gate.
func StudentFromContext(ctx context.Context) (*models.Student, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Role != RoleStudent || p.Student == nil {
		return nil, false
	}
	return p.Student, true
}

// AdminFromContext returns the authenticated admin, if the request passed an admin gate.
func AdminFromContext(ctx context.Context) (*models.Admin, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Role != RoleAdmin || p.Admin == nil {
		return nil, false
	}
	return p.Admin, true
}
