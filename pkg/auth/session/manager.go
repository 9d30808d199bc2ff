package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bugie-app/bugie-backend/pkg/config"
	redisclient "github.com/bugie-app/bugie-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AddToSet(ctx context.Context, key string, ttl time.Duration, members ...string) error
	RemoveFromSet(ctx context.Context, key string, members ...string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
	UserSessionsKey(userID string) string
}

// Manager stores refresh tokens per access session and tracks every live
// session of a user so they can be revoked together.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Generate issues a refresh token for accessID and records it under the user.
func (m *Manager) Generate(ctx context.Context, userID, accessID string) (string, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("user id and access id are required")
	}
	token, err := generateRefreshToken()
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, m.keyer.AccessSessionKey(accessID), encodeSession(userID, token), m.ttl); err != nil {
		return "", err
	}
	if err := m.store.AddToSet(ctx, m.keyer.UserSessionsKey(userID), m.ttl, accessID); err != nil {
		return "", err
	}
	return token, nil
}

// Rotate checks the refresh token presented for oldAccessID, drops that session
// and issues a new access id and refresh token for the same user.
func (m *Manager) Rotate(ctx context.Context, userID, oldAccessID, provided string) (string, string, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return "", "", ErrInvalidRefreshToken
	}

	key := m.keyer.AccessSessionKey(oldAccessID)
	stored, err := m.store.Get(ctx, key)
	if err != nil {
		return "", "", wrapNotFound(err)
	}

	owner, token := decodeSession(stored)
	if owner != userID || subtle.ConstantTimeCompare([]byte(token), []byte(provided)) != 1 {
		return "", "", ErrInvalidRefreshToken
	}

	newAccessID := NewAccessID()
	newToken, err := m.Generate(ctx, userID, newAccessID)
	if err != nil {
		return "", "", err
	}
	if err := m.Revoke(ctx, userID, oldAccessID); err != nil {
		return "", "", err
	}

	return newAccessID, newToken, nil
}

// Revoke deletes a single access session.
func (m *Manager) Revoke(ctx context.Context, userID, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	if err := m.store.Del(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		return err
	}
	if userID == "" {
		return nil
	}
	return m.store.RemoveFromSet(ctx, m.keyer.UserSessionsKey(userID), accessID)
}

// RevokeAll deletes every session tracked for the user.
func (m *Manager) RevokeAll(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	setKey := m.keyer.UserSessionsKey(userID)
	accessIDs, err := m.store.SetMembers(ctx, setKey)
	if err != nil && !errors.Is(err, redislib.Nil) {
		return err
	}
	keys := make([]string, 0, len(accessIDs)+1)
	for _, id := range accessIDs {
		keys = append(keys, m.keyer.AccessSessionKey(id))
	}
	keys = append(keys, setKey)
	return m.store.Del(ctx, keys...)
}

// HasSession reports whether the provided access ID still has an active refresh session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewAccessID produces the identifier used as the JWT jti and the session key.
func NewAccessID() string {
	return uuid.NewString()
}

func encodeSession(userID, token string) string {
	return userID + "|" + token
}

func decodeSession(raw string) (string, string) {
	userID, token, ok := strings.Cut(raw, "|")
	if !ok {
		return "", raw
	}
	return userID, token
}

func generateRefreshToken() (string, error) {
	bytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, redislib.Nil) {
		return ErrInvalidRefreshToken
	}
	return err
}
