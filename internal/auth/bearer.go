package auth

import (
	"net/http"
	"strings"
)

// AuthorizationHeader is the header carrying bearer tokens.
const AuthorizationHeader = "Authorization"

// BearerToken returns the second whitespace-separated field of the
// Authorization header. The scheme word is not checked, so "Bearer t",
// "Token t" and "x t" all yield "t". ok is false when the header is absent
// or has no second field.
func BearerToken(h http.Header) (token string, ok bool) {
	fields := strings.Fields(h.Get(AuthorizationHeader))
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}
