package iam

import (
	"errors"
	"net/http"
)

// AuthError is an authentication failure with the HTTP status and the exact
// message the boundary must render.
type AuthError struct {
	Code    int
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Authentication failures. Compare with errors.Is; the values are shared.
var (
	ErrMissingToken       = &AuthError{Code: http.StatusUnauthorized, Message: "Missing token."}
	ErrInvalidToken       = &AuthError{Code: http.StatusUnauthorized, Message: "Invalid token."}
	ErrInvalidCredentials = &AuthError{Code: http.StatusUnauthorized, Message: "Invalid credentials."}
)

// Registration and login input failures. The server maps these to
// endpoint-specific messages.
var (
	ErrIncompleteRequestData = errors.New("incomplete request data")
	ErrDuplicateIdentity     = errors.New("identity already registered")
	ErrUnknownCourse         = errors.New("unknown course")
)

// AsAuthError returns the *AuthError in err's chain, if any.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}
