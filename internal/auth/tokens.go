package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/antiq-app/antiq/internal/models"
)

// TokenIssuerName is the iss claim on session tokens
const TokenIssuerName = "antiq"

// Claims are the session claims extracted from a verified token
type Claims struct {
	UserID    uuid.UUID
	Email     string
	SessionID string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HMAC session tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer with the given signing secret and
// session lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed session token for a user. The returned session ID
// (the token's jti) identifies the session for revocation.
func (ti *TokenIssuer) Issue(user *models.User) (token string, sessionID string, expiresAt time.Time, err error) {
	now := time.Now()
	expiresAt = now.Add(ti.ttl)
	sessionID = uuid.New().String()

	tok, err := jwt.NewBuilder().
		Issuer(TokenIssuerName).
		Subject(user.ID.String()).
		JwtID(sessionID).
		IssuedAt(now).
		Expiration(expiresAt).
		Claim("email", user.Email).
		Build()
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, ti.secret))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), sessionID, expiresAt, nil
}

// Verify parses and validates a session token and extracts its claims.
func (ti *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256, ti.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(TokenIssuerName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	userID, err := uuid.Parse(tok.Subject())
	if err != nil {
		return nil, fmt.Errorf("token subject is not a user ID: %w", err)
	}

	claims := &Claims{
		UserID:    userID,
		SessionID: tok.JwtID(),
		ExpiresAt: tok.Expiration(),
	}
	if email, ok := tok.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}

	return claims, nil
}
