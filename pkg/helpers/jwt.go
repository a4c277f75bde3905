package helpers

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and verifies HS256 bearer tokens carrying a username as
// the subject claim. The secret lives for the process lifetime only; tokens
// issued before a restart do not verify afterwards.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager builds a manager from a configured secret. An empty secret
// means "generate a random one for this process".
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	b := []byte(secret)
	if len(b) == 0 {
		b = make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, err
		}
	}
	return &JWTManager{secret: b, ttl: ttl}, nil
}

// Issue signs a token for the given subject, expiring after the manager TTL.
func (m *JWTManager) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify checks the signature and expiry and returns the subject. All
// failure modes (bad signature, malformed, expired) collapse to ok=false;
// callers must not distinguish them.
func (m *JWTManager) Verify(tokenStr string) (string, bool) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
