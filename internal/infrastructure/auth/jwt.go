package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is the explicit per-request identity passed into handlers,
// resolved from the bearer token instead of ambient global state.
type Session struct {
	ProfileID uuid.UUID
}

type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed token for the given profile. Used by tests and by
// the auth service that fronts this one.
func (m *TokenManager) Issue(profileID uuid.UUID, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("TokenManager - Issue - token.SignedString: %w", err)
	}

	return signed, nil
}

// Parse validates the bearer token and returns the session it carries.
func (m *TokenManager) Parse(tokenString string) (*Session, error) {
	c := &claims{}

	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("TokenManager - Parse - jwt.ParseWithClaims: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("TokenManager - Parse: token is not valid")
	}

	profileID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("TokenManager - Parse - uuid.Parse: %w", err)
	}

	return &Session{ProfileID: profileID}, nil
}
