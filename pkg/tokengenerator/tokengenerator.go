package tokengenerator

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a session token fails to parse or verify.
var ErrInvalidToken = errors.New("invalid session token")

// TokenGenerator signs and parses session tokens
type TokenGenerator interface {
	// GenerateToken signs a token for subject bound to a session
	GenerateToken(subject, sessionID, jti string, expiry time.Duration) (string, time.Time, error)

	// ParseToken verifies a token and returns its claims
	ParseToken(tokenStr string) (*Claims, error)
}

// Claims are the JWT claims of a session token. The subject is the account id.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// JwtTokenGenerator implements TokenGenerator with HS256
type JwtTokenGenerator struct {
	Secret   string
	Issuer   string
	Audience string
	now      func() time.Time
}

// NewJwtTokenGenerator creates a new JwtTokenGenerator
func NewJwtTokenGenerator(secret, issuer, audience string) *JwtTokenGenerator {
	return &JwtTokenGenerator{
		Secret:   secret,
		Issuer:   issuer,
		Audience: audience,
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (g *JwtTokenGenerator) WithClock(now func() time.Time) *JwtTokenGenerator {
	g.now = now
	return g
}

// GenerateToken creates a signed token for subject
func (g *JwtTokenGenerator) GenerateToken(subject, sessionID, jti string, expiry time.Duration) (string, time.Time, error) {
	if g.Secret == "" {
		return "", time.Time{}, errors.New("token secret is not configured")
	}

	now := g.now().UTC()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
			Issuer:    g.Issuer,
			Subject:   subject,
			ID:        jti,
		},
	}
	if g.Audience != "" {
		claims.Audience = jwt.ClaimStrings{g.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(g.Secret))
	if err != nil {
		slog.Error("Failed to sign session token", "err", err)
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return ss, claims.ExpiresAt.Time, nil
}

// ParseToken verifies signature, algorithm, expiry and issuer
func (g *JwtTokenGenerator) ParseToken(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	}
	if g.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(g.Issuer))
	}
	if g.Audience != "" {
		opts = append(opts, jwt.WithAudience(g.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(g.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
