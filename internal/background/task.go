// Package background runs long-running operations outside the request
// cycle: a bounded worker pool drains a task queue, and a pluggable store
// keeps task results queryable until they expire.
package background

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"careerpilot/internal/errors"
)

// TaskStatus is the lifecycle state of a background task
type TaskStatus string

const (
	TaskStatusAccepted   TaskStatus = "ACCEPTED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusSuccess    TaskStatus = "SUCCESS"
	TaskStatusFailure    TaskStatus = "FAILURE"
)

// TaskType identifies what a background task does
type TaskType string

const (
	TaskTypePortfolio TaskType = "portfolio"
	TaskTypeIndex     TaskType = "index"
)

// TaskResult is the queryable record of one background task
type TaskResult struct {
	ProcessID      string         `json:"processId"`
	Type           TaskType       `json:"type"`
	Status         TaskStatus     `json:"status"`
	Data           any            `json:"data,omitempty"`
	Error          string         `json:"error,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	CompletedAt    *time.Time     `json:"completedAt,omitempty"`
	ProcessingTime time.Duration  `json:"processingTime,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// TaskStore persists task results
type TaskStore interface {
	Store(ctx context.Context, result *TaskResult) error
	Get(ctx context.Context, processID string) (*TaskResult, error)
	Update(ctx context.Context, result *TaskResult) error
	Delete(ctx context.Context, processID string) error
	Cleanup(ctx context.Context, maxAge time.Duration) error
	List(ctx context.Context) ([]*TaskResult, error)
}

func taskNotFound(processID string) error {
	return errors.NewStorageError(errors.ErrCodeTaskNotFound,
		fmt.Sprintf("task %s not found", processID), nil)
}

// InMemoryTaskStore keeps task results in a map. Single-instance only;
// use RedisTaskStore when running more than one replica.
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*TaskResult
}

func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{tasks: make(map[string]*TaskResult)}
}

func (s *InMemoryTaskStore) Store(ctx context.Context, result *TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[result.ProcessID] = result
	return nil
}

func (s *InMemoryTaskStore) Get(ctx context.Context, processID string) (*TaskResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.tasks[processID]
	if !ok {
		return nil, taskNotFound(processID)
	}
	copied := *result
	return &copied, nil
}

func (s *InMemoryTaskStore) Update(ctx context.Context, result *TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[result.ProcessID]; !ok {
		return taskNotFound(result.ProcessID)
	}
	s.tasks[result.ProcessID] = result
	return nil
}

func (s *InMemoryTaskStore) Delete(ctx context.Context, processID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[processID]; !ok {
		return taskNotFound(processID)
	}
	delete(s.tasks, processID)
	return nil
}

func (s *InMemoryTaskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	for processID, result := range s.tasks {
		if result.CreatedAt.Before(cutoff) {
			delete(s.tasks, processID)
		}
	}
	return nil
}

func (s *InMemoryTaskStore) List(ctx context.Context) ([]*TaskResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*TaskResult, 0, len(s.tasks))
	for _, result := range s.tasks {
		copied := *result
		results = append(results, &copied)
	}
	return results, nil
}

// RedisTaskStore persists task results in Redis so multiple instances can
// see each other's tasks. Results expire via key TTL.
type RedisTaskStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisTaskStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisTaskStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisTaskStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *RedisTaskStore) key(processID string) string {
	return s.keyPrefix + "task:" + processID
}

func (s *RedisTaskStore) write(ctx context.Context, result *TaskResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidFormat, "cannot marshal task result", err)
	}
	if err := s.client.Set(ctx, s.key(result.ProcessID), payload, s.ttl).Err(); err != nil {
		return errors.NewStorageError(errors.ErrCodeTaskNotFound, "cannot store task result", err)
	}
	return nil
}

func (s *RedisTaskStore) Store(ctx context.Context, result *TaskResult) error {
	return s.write(ctx, result)
}

func (s *RedisTaskStore) Get(ctx context.Context, processID string) (*TaskResult, error) {
	payload, err := s.client.Get(ctx, s.key(processID)).Result()
	if err == redis.Nil {
		return nil, taskNotFound(processID)
	}
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeTaskNotFound, "cannot read task result", err)
	}
	var result TaskResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeInvalidFormat, "corrupt task result", err)
	}
	return &result, nil
}

func (s *RedisTaskStore) Update(ctx context.Context, result *TaskResult) error {
	exists, err := s.client.Exists(ctx, s.key(result.ProcessID)).Result()
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeTaskNotFound, "cannot check task result", err)
	}
	if exists == 0 {
		return taskNotFound(result.ProcessID)
	}
	return s.write(ctx, result)
}

func (s *RedisTaskStore) Delete(ctx context.Context, processID string) error {
	deleted, err := s.client.Del(ctx, s.key(processID)).Result()
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeTaskNotFound, "cannot delete task result", err)
	}
	if deleted == 0 {
		return taskNotFound(processID)
	}
	return nil
}

// Cleanup is a no-op: Redis key TTLs expire results
func (s *RedisTaskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	return nil
}

func (s *RedisTaskStore) List(ctx context.Context) ([]*TaskResult, error) {
	var results []*TaskResult
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"task:*", 100).Iterator()
	for iter.Next(ctx) {
		payload, err := s.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			continue // expired between scan and get
		}
		var result TaskResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			continue
		}
		results = append(results, &result)
	}
	if err := iter.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeTaskNotFound, "cannot scan task results", err)
	}
	return results, nil
}
