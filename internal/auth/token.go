package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the lifetime of tokens issued by Encode.
const DefaultTokenTTL = 60 * time.Minute

// ErrInvalidToken is the only error Decode returns. Bad signatures, foreign
// algorithms, malformed input, missing claims and expiry are deliberately
// indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity carried by a bearer token.
type Claims struct {
	SubjectID string
	IsAdmin   bool
	ExpiresAt time.Time
	TokenID   string
}

// tokenClaims is the JWT payload: sub, admin, exp, iat, jti.
// Admin is a pointer so a token without the claim fails to decode instead
// of silently becoming a student token.
type tokenClaims struct {
	Admin *bool `json:"admin"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 bearer tokens with a process-wide secret.
// It is immutable after construction and safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// TokenCodecOption customises a TokenCodec.
type TokenCodecOption func(*TokenCodec)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCodec returns a codec signing with secret. A non-positive ttl
// falls back to DefaultTokenTTL.
func NewTokenCodec(secret []byte, ttl time.Duration, opts ...TokenCodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token codec: secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	return c, nil
}

// TTL returns the lifetime applied by Encode.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Encode issues a token for subjectID with the codec's TTL.
func (c *TokenCodec) Encode(subjectID string, isAdmin bool) (string, error) {
	return c.EncodeWithTTL(subjectID, isAdmin, c.ttl)
}

// EncodeWithTTL issues a token that expires ttl from now.
func (c *TokenCodec) EncodeWithTTL(subjectID string, isAdmin bool, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", errors.New("encode token: empty subject")
	}

	now := c.now()
	claims := tokenClaims{
		Admin: &isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies token and returns its claims. Every failure is ErrInvalidToken.
func (c *TokenCodec) Decode(token string) (*Claims, error) {
	var claims tokenClaims
	parsed, err := c.parser.ParseWithClaims(token, &claims, c.keyFunc)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Admin == nil || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	return &Claims{
		SubjectID: claims.Subject,
		IsAdmin:   *claims.Admin,
		ExpiresAt: claims.ExpiresAt.Time,
		TokenID:   claims.ID,
	}, nil
}

func (c *TokenCodec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return c.secret, nil
}
