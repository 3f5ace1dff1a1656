package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"furniture/admin/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned by Load when nobody is logged in for the profile
var ErrNoSession = errors.New("not logged in")

// Credentials are the phone/password pair the API authenticates with
type Credentials struct {
	Phone    string
	Password string
}

// Token returns the Basic-Auth token for the credentials
func (c Credentials) Token() string {
	return base64.StdEncoding.EncodeToString([]byte(c.Phone + ":" + c.Password))
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Phone) == "" {
		return errors.New("phone is required")
	}
	if c.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// Session is what a successful login leaves behind
type Session struct {
	Token     string      `json:"token"`
	User      domain.User `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context) error
}

type redisStore struct {
	redisClient *redis.Client
	key         string
	ttl         time.Duration
}

func NewRedisStore(redisClient *redis.Client, profile string, ttl time.Duration) Store {
	return &redisStore{
		redisClient: redisClient,
		key:         "furniture:session:" + profile,
		ttl:         ttl,
	}
}

func (s *redisStore) Load(ctx context.Context) (*Session, error) {
	val, err := s.redisClient.Get(ctx, s.key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session %s: %w", s.key, err)
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", s.key, err)
	}

	return &session, nil
}

func (s *redisStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.key, err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", s.key, err)
	}
	return nil
}
