// Package interview implements the interview-prep chatbot and the mock
// interview toolkit: Redis-backed chat sessions, retrieval-grounded
// answers, question generation, and answer analysis.
package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"careerpilot/internal/config"
	"careerpilot/internal/errors"
	"careerpilot/internal/types"
)

const (
	sessionMetadataPrefix = "session:metadata:"
	sessionHistoryPrefix  = "session:history:"
)

// NewRedisClient builds a Redis client from config. The URL wins for
// address and credentials; explicit password/db settings override it.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid redis url %q", cfg.URL), err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return redis.NewClient(opts), nil
}

// SessionStore persists chat session metadata and message history in Redis
type SessionStore struct {
	client    *redis.Client
	keyPrefix string
	logger    *errors.Logger
}

func NewSessionStore(client *redis.Client, keyPrefix string, logger *errors.Logger) *SessionStore {
	return &SessionStore{client: client, keyPrefix: keyPrefix, logger: logger}
}

func (s *SessionStore) metadataKey(sessionID string) string {
	return s.keyPrefix + sessionMetadataPrefix + sessionID
}

func (s *SessionStore) historyKey(sessionID string) string {
	return s.keyPrefix + sessionHistoryPrefix + sessionID
}

// Create stores a new session and returns its metadata
func (s *SessionStore) Create(ctx context.Context, title string) (types.ChatSession, error) {
	if title == "" {
		title = "New Chat"
	}
	session := types.ChatSession{
		SessionID: uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().Unix(),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return types.ChatSession{}, errors.NewInternalError(errors.ErrCodeInvalidFormat,
			"cannot marshal session metadata", err)
	}
	if err := s.client.Set(ctx, s.metadataKey(session.SessionID), payload, 0).Err(); err != nil {
		return types.ChatSession{}, errors.NewStorageError(errors.ErrCodeSessionNotFound,
			"cannot store session metadata", err)
	}

	s.logger.Info("Chat session created", "session_id", session.SessionID, "title", session.Title)
	return session, nil
}

// Get retrieves one session's metadata
func (s *SessionStore) Get(ctx context.Context, sessionID string) (types.ChatSession, error) {
	payload, err := s.client.Get(ctx, s.metadataKey(sessionID)).Result()
	if err == redis.Nil {
		return types.ChatSession{}, errors.NewStorageError(errors.ErrCodeSessionNotFound,
			fmt.Sprintf("session %s not found", sessionID), nil)
	}
	if err != nil {
		return types.ChatSession{}, errors.NewStorageError(errors.ErrCodeSessionNotFound,
			"cannot read session metadata", err)
	}

	var session types.ChatSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return types.ChatSession{}, errors.NewStorageError(errors.ErrCodeInvalidFormat,
			"corrupt session metadata", err)
	}
	return session, nil
}

// List returns all sessions, newest first
func (s *SessionStore) List(ctx context.Context) ([]types.ChatSession, error) {
	pattern := s.keyPrefix + sessionMetadataPrefix + "*"

	var sessions []types.ChatSession
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		payload, err := s.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			continue // session deleted between scan and get
		}
		var session types.ChatSession
		if err := json.Unmarshal([]byte(payload), &session); err != nil {
			s.logger.Warn("Skipping corrupt session metadata", "key", iter.Val())
			continue
		}
		sessions = append(sessions, session)
	}
	if err := iter.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeSessionNotFound, "cannot scan sessions", err)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt > sessions[j].CreatedAt
	})
	return sessions, nil
}

// Rename updates a session's title
func (s *SessionStore) Rename(ctx context.Context, sessionID, title string) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Title = title

	payload, err := json.Marshal(session)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidFormat,
			"cannot marshal session metadata", err)
	}
	return s.client.Set(ctx, s.metadataKey(sessionID), payload, 0).Err()
}

// Delete removes a session's metadata and history
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	deleted, err := s.client.Del(ctx, s.metadataKey(sessionID), s.historyKey(sessionID)).Result()
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeSessionNotFound, "cannot delete session", err)
	}
	if deleted == 0 {
		return errors.NewStorageError(errors.ErrCodeSessionNotFound,
			fmt.Sprintf("session %s not found", sessionID), nil)
	}
	return nil
}

// AppendMessage appends one message to a session's history list
func (s *SessionStore) AppendMessage(ctx context.Context, sessionID string, message types.ChatMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidFormat, "cannot marshal chat message", err)
	}
	return s.client.RPush(ctx, s.historyKey(sessionID), payload).Err()
}

// History returns the most recent messages of a session. window counts
// conversation turns; each turn is a user and an assistant message. A
// window of zero returns the full history.
func (s *SessionStore) History(ctx context.Context, sessionID string, window int) ([]types.ChatMessage, error) {
	start := int64(0)
	if window > 0 {
		start = int64(-2 * window)
	}
	payloads, err := s.client.LRange(ctx, s.historyKey(sessionID), start, -1).Result()
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeSessionNotFound, "cannot read chat history", err)
	}

	messages := make([]types.ChatMessage, 0, len(payloads))
	for _, payload := range payloads {
		var message types.ChatMessage
		if err := json.Unmarshal([]byte(payload), &message); err != nil {
			s.logger.Warn("Skipping corrupt chat message", "session_id", sessionID)
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// Ping reports Redis connectivity
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
