package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal is the verified identity attached to a request: the tenant whose
// data may be touched and the acting operator. Token issuance belongs to the
// external auth service; this side only verifies.
type Principal struct {
	TenantID   uuid.UUID
	UserID     uuid.UUID
	TenantCode string
}

type claims struct {
	TenantID   string `json:"tenant_id"`
	TenantCode string `json:"tenant_code"`
	jwt.RegisteredClaims
}

// TokenManager verifies bearer tokens and extracts the principal.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Verify parses and validates the token, returning the embedded principal.
func (m *TokenManager) Verify(tokenStr string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	tenantID, err := uuid.Parse(c.TenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant id in token: %w", err)
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in token: %w", err)
	}

	return &Principal{TenantID: tenantID, UserID: userID, TenantCode: c.TenantCode}, nil
}

// Issue signs a token for the principal. Used by tests and local tooling; the
// production issuer is the external auth service.
func (m *TokenManager) Issue(p Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		TenantID:   p.TenantID.String(),
		TenantCode: p.TenantCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(m.secret)
}
