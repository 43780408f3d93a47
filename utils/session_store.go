// File: utils/session_store.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"loungebot/models"

	"github.com/go-redis/redis/v8"
)

// ChatSessionPrefix is the prefix used for Redis chat session keys.
const ChatSessionPrefix = "chatSession:"

// RedisSessionStore keeps one in-flight conversation per chat as a
// JSON value with an idle TTL. Abandoned flows simply expire.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisSessionStore returns a store bound to the given client.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func sessionKey(chatID int64) string {
	return ChatSessionPrefix + strconv.FormatInt(chatID, 10)
}

// Save writes the session, refreshing the idle TTL.
func (s *RedisSessionStore) Save(ctx context.Context, session *models.ChatSession) error {
	session.LastUpdatedAt = time.Now().UTC()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal chat session: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKey(session.ChatID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to save chat session: %w", err)
	}
	return nil
}

// Get retrieves the chat's session, or (nil, nil) when none exists.
func (s *RedisSessionStore) Get(ctx context.Context, chatID int64) (*models.ChatSession, error) {
	data, err := s.Client.Get(ctx, sessionKey(chatID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat session: %w", err)
	}
	var session models.ChatSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat session: %w", err)
	}
	return &session, nil
}

// Delete removes the chat's session, if any.
func (s *RedisSessionStore) Delete(ctx context.Context, chatID int64) error {
	return s.Client.Del(ctx, sessionKey(chatID)).Err()
}
