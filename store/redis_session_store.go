package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heymomentum/momentum-checkout-bot/types"
)

type RedisSessionStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisSessionStore(redisClient *RedisClient, ttlHours int) *RedisSessionStore {
	ttl := time.Duration(ttlHours) * time.Hour
	if ttlHours <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisSessionStore{
		client: redisClient,
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) CreateSession(session *types.CheckoutSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(s.ttl)

	sessionKey := s.client.generateKey("session", session.ID)
	if err := s.client.Set(sessionKey, session, s.ttl); err != nil {
		return err
	}

	userSessionKey := s.client.generateKey("user_session", fmt.Sprintf("%d", session.UserID))
	if err := s.client.Set(userSessionKey, session.ID, s.ttl); err != nil {
		s.client.Del(sessionKey)
		return err
	}

	return nil
}

func (s *RedisSessionStore) GetSession(sessionID string) (*types.CheckoutSession, error) {
	sessionKey := s.client.generateKey("session", sessionID)

	var session types.CheckoutSession
	if err := s.client.Get(sessionKey, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *RedisSessionStore) GetUserSession(userID int64) (*types.CheckoutSession, error) {
	userSessionKey := s.client.generateKey("user_session", fmt.Sprintf("%d", userID))

	var sessionID string
	if err := s.client.Get(userSessionKey, &sessionID); err != nil {
		return nil, err
	}

	return s.GetSession(sessionID)
}

func (s *RedisSessionStore) UpdateSession(session *types.CheckoutSession) error {
	session.UpdatedAt = time.Now()
	session.ExpiresAt = time.Now().Add(s.ttl)

	sessionKey := s.client.generateKey("session", session.ID)
	return s.client.Set(sessionKey, session, s.ttl)
}

func (s *RedisSessionStore) UpdateSessionState(sessionID string, state types.FunnelState) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}

	session.State = state

	return s.UpdateSession(session)
}

func (s *RedisSessionStore) DeleteSession(sessionID string) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}

	sessionKey := s.client.generateKey("session", sessionID)
	if err := s.client.Del(sessionKey); err != nil {
		return err
	}

	userSessionKey := s.client.generateKey("user_session", fmt.Sprintf("%d", session.UserID))
	return s.client.Del(userSessionKey)
}
