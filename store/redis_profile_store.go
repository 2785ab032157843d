package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/heymomentum/momentum-checkout-bot/types"
)

// RedisProfileStore keeps each user's persisted checkout fields as a single
// JSON blob under one namespaced key. Persistence is best effort: the blob is
// the device-storage equivalent, not a source of truth for derived state.
type RedisProfileStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisProfileStore(redisClient *RedisClient, ttlHours int) *RedisProfileStore {
	ttl := time.Duration(ttlHours) * time.Hour
	if ttlHours <= 0 {
		ttl = 0 // no expiry: the profile outlives sessions
	}

	return &RedisProfileStore{
		client: redisClient,
		ttl:    ttl,
	}
}

func (s *RedisProfileStore) key(userID int64) string {
	return s.client.generateKey("profile", fmt.Sprintf("%d", userID))
}

func (s *RedisProfileStore) Load(userID int64) (*types.Profile, error) {
	raw, err := s.client.GetString(s.key(userID))
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var profile types.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("corrupt profile blob for user %d: %w", userID, err)
	}
	return &profile, nil
}

func (s *RedisProfileStore) Save(userID int64, profile types.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.SetString(s.key(userID), string(data), s.ttl)
}

func (s *RedisProfileStore) Delete(userID int64) error {
	return s.client.Del(s.key(userID))
}
