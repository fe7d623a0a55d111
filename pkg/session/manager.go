package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ebtehal15/turkey-items-v2/pkg/config"
	redisclient "github.com/Ebtehal15/turkey-items-v2/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// Kind distinguishes the two session flavors the app issues.
type Kind string

const (
	KindCart  Kind = "cart"
	KindAdmin Kind = "admin"
)

var ErrUnknownSession = errors.New("unknown session")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager issues and validates opaque session ids with a sliding TTL. Cart
// state is keyed by these ids so every cart operation carries an explicit
// session identifier instead of ambient state.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Lookup(ctx context.Context, sessionID string) (Kind, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Start creates a new session of the given kind and returns its id.
func (m *Manager) Start(ctx context.Context, kind Kind) (string, error) {
	if kind != KindCart && kind != KindAdmin {
		return "", fmt.Errorf("invalid session kind %q", kind)
	}
	id := uuid.NewString()
	if err := m.store.Set(ctx, m.keyer.SessionKey(id), string(kind), m.ttl); err != nil {
		return "", err
	}
	return id, nil
}

// Lookup resolves the session kind and extends the TTL on hit.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (Kind, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", ErrUnknownSession
	}
	key := m.keyer.SessionKey(sessionID)
	value, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", ErrUnknownSession
		}
		return "", err
	}
	if _, err := m.store.Expire(ctx, key, m.ttl); err != nil {
		return "", err
	}
	return Kind(value), nil
}

// Revoke deletes a session. Cart lines tied to it become unreachable and are
// removed by the caller.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}
