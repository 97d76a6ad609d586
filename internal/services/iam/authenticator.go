package iam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/terraconstructs/logbook/internal/auth"
	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/terraconstructs/logbook/internal/repository"
	"github.com/terraconstructs/logbook/internal/telemetry"
)

const tracerName = "logbookapi/services/iam"

// AuthRequest wraps the request data the gate needs.
type AuthRequest struct {
	// Headers contains HTTP headers (including Authorization)
	Headers http.Header
}

// TokenDecoder verifies bearer tokens. *auth.TokenCodec implements it.
type TokenDecoder interface {
	Decode(token string) (*auth.Claims, error)
}

// StudentFinder looks students up by matric number.
type StudentFinder interface {
	GetByMatricNum(ctx context.Context, matricNum string) (*models.Student, error)
}

// AdminFinder looks administrators up by ID.
type AdminFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
}

// Gate authenticates requests for one of the two endpoint classes.
//
// Return values of Authenticate:
//   - (principal, nil): token valid, role matches, subject exists
//   - (nil, *AuthError): ErrMissingToken or ErrInvalidToken
//   - (nil, other error): the store lookup failed; the boundary renders a 500
type Gate struct {
	tokens   TokenDecoder
	students StudentFinder
	admins   AdminFinder
	metrics  *telemetry.AuthMetrics
}

// NewGate constructs a gate over the given token decoder and stores.
func NewGate(tokens TokenDecoder, students StudentFinder, admins AdminFinder) *Gate {
	return &Gate{tokens: tokens, students: students, admins: admins}
}

// WithMetrics records every authentication attempt on m.
func (g *Gate) WithMetrics(m *telemetry.AuthMetrics) *Gate {
	g.metrics = m
	return g
}

// AuthenticateStudent authenticates a request to a student endpoint.
func (g *Gate) AuthenticateStudent(ctx context.Context, req AuthRequest) (*models.Student, error) {
	p, err := g.Authenticate(ctx, RoleStudent, req)
	if err != nil {
		return nil, err
	}
	return p.Student, nil
}

// AuthenticateAdmin authenticates a request to an admin endpoint.
func (g *Gate) AuthenticateAdmin(ctx context.Context, req AuthRequest) (*models.Admin, error) {
	p, err := g.Authenticate(ctx, RoleAdmin, req)
	if err != nil {
		return nil, err
	}
	return p.Admin, nil
}

// Authenticate runs the gate for role. Each step short-circuits.
func (g *Gate) Authenticate(ctx context.Context, role Role, req AuthRequest) (*Principal, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "iam.Authenticate",
		attribute.String(telemetry.AttrPrincipalRole, string(role)),
	)
	defer span.End()

	start := time.Now()
	p, outcome, err := g.authenticate(ctx, role, req)
	if g.metrics != nil {
		g.metrics.RecordAuth(ctx, string(role), outcome, float64(time.Since(start).Microseconds())/1000)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String(telemetry.AttrPrincipalID, p.SubjectID()))
	return p, nil
}

func (g *Gate) authenticate(ctx context.Context, role Role, req AuthRequest) (*Principal, string, error) {
	// 1. Extract the token; the scheme word is ignored
	token, ok := auth.BearerToken(req.Headers)
	if !ok {
		return nil, "missing_token", ErrMissingToken
	}

	// 2. Decode; decode-layer detail is discarded
	claims, err := g.tokens.Decode(token)
	if err != nil {
		return nil, "invalid_token", ErrInvalidToken
	}

	// 3. Role must match the endpoint class
	if claims.IsAdmin != role.isAdmin() {
		return nil, "wrong_role", ErrInvalidToken
	}

	// 4. Subject must still exist
	p := &Principal{Role: role, TokenID: claims.TokenID}
	switch role {
	case RoleStudent:
		student, err := g.students.GetByMatricNum(ctx, claims.SubjectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, "unknown_subject", ErrInvalidToken
			}
			return nil, "store_error", fmt.Errorf("resolve student: %w", err)
		}
		p.Student = student

	case RoleAdmin:
		id, err := strconv.ParseInt(claims.SubjectID, 10, 64)
		if err != nil {
			return nil, "invalid_token", ErrInvalidToken
		}
		admin, err := g.admins.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, "unknown_subject", ErrInvalidToken
			}
			return nil, "store_error", fmt.Errorf("resolve admin: %w", err)
		}
		p.Admin = admin

	default:
		return nil, "invalid_token", ErrInvalidToken
	}

	return p, "ok", nil
}
