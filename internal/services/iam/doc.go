// Package iam authenticates students and administrators.
//
// Two pieces live here:
//
//   - Gate: per-request bearer token authentication. It extracts the token,
//     decodes it, checks the role against the endpoint class and confirms the
//     subject still exists. Every failure surfaces as one of two messages,
//     "Missing token." or "Invalid token.", whatever the underlying cause.
//   - Service: registration and password login. Login failures are uniform
//     ("Invalid credentials.") so callers cannot tell an unknown identity
//     from a wrong password.
//
// Request Flow:
//
//	login → Service.Login* → auth.TokenCodec.Encode → client
//	client → middleware.Require* → Gate.Authenticate → Principal in context → handler
//
// Nothing in this package keeps per-request state; the Gate and Service are
// safe for concurrent use once constructed.
package iam
