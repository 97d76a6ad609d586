package middleware

import (
	"context"
	"log"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/terraconstructs/logbook/internal/services/iam"
)

// Authenticator resolves the principal behind a request. *iam.Gate implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, role iam.Role, req iam.AuthRequest) (*iam.Principal, error)
}

// RequireStudent admits requests carrying a valid student token.
func RequireStudent(gate Authenticator) func(http.Handler) http.Handler {
	return requireRole(gate, iam.RoleStudent)
}

// RequireAdmin admits requests carrying a valid admin token.
func RequireAdmin(gate Authenticator) func(http.Handler) http.Handler {
	return requireRole(gate, iam.RoleAdmin)
}

func requireRole(gate Authenticator, role iam.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, err := gate.Authenticate(ctx, role, iam.AuthRequest{Headers: r.Header})
			if err != nil {
				if authErr, ok := iam.AsAuthError(err); ok {
					WriteMessage(w, authErr.Code, authErr.Message)
					return
				}
				// Store failures are not the caller's fault; keep details in the log.
				log.Printf("[%s] %s gate failed for %s %s: %v",
					chimiddleware.GetReqID(ctx), role, r.Method, r.URL.Path, err)
				WriteInternalError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(iam.WithPrincipal(ctx, principal)))
		})
	}
}
