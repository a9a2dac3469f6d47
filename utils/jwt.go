package utils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Claims defines the JWT claims carried by access tokens. The uuid jti from
// RegisteredClaims.ID keys the revocation list.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager issues, validates, and revokes HS256 bearer tokens. Revocations
// go to Redis keyed by jti with a TTL matching the token expiry; when Redis is
// unavailable an in-memory set keeps logout working within the process.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
}

// NewTokenManager creates a manager; rdb may be nil.
func NewTokenManager(secret string, ttl time.Duration, rdb *redis.Client) *TokenManager {
	return &TokenManager{
		secret:  []byte(secret),
		ttl:     ttl,
		rdb:     rdb,
		revoked: map[string]time.Time{},
	}
}

// Generate issues a token bound to the given username.
func (m *TokenManager) Generate(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token string and returns its claims. Expired, malformed,
// and wrongly signed tokens all fail here.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Revoke blacklists the token until its natural expiry.
func (m *TokenManager) Revoke(claims *Claims) {
	expiresAt := time.Now().Add(m.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}

	if m.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.rdb.Set(ctx, "jwt:revoked:"+claims.ID, "1", ttl).Err(); err == nil {
			return
		}
	}

	m.mu.Lock()
	m.revoked[claims.ID] = expiresAt
	m.mu.Unlock()
}

// IsRevoked reports whether the token was revoked before its natural expiry.
func (m *TokenManager) IsRevoked(claims *Claims) bool {
	if m.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if n, err := m.rdb.Exists(ctx, "jwt:revoked:"+claims.ID).Result(); err == nil {
			if n > 0 {
				return true
			}
			// fall through: the entry may have landed in memory while Redis was down
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.revoked[claims.ID]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(m.revoked, claims.ID)
		return false
	}
	return true
}
