package background

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/config"
	"careerpilot/internal/errors"
)

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	require.NoError(t, err)
	return logger
}

func testManager(t *testing.T, cfg config.BackgroundConfig) (*Manager, *InMemoryTaskStore) {
	t.Helper()
	store := NewInMemoryTaskStore()
	manager := NewManager(cfg, store, testLogger(t))
	manager.Start()
	t.Cleanup(func() { _ = manager.Stop() })
	return manager, store
}

func waitForStatus(t *testing.T, manager *Manager, processID string, want TaskStatus) *TaskResult {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		result, err := manager.GetTaskResult(context.Background(), processID)
		require.NoError(t, err)
		if result.Status == want {
			return result
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %s never reached status %s", processID, want)
	return nil
}

func TestSubmitAndSucceed(t *testing.T) {
	manager, _ := testManager(t, config.BackgroundConfig{Workers: 2, QueueSize: 8})

	processID, err := manager.Submit(context.Background(), TaskTypePortfolio,
		map[string]any{"project": "demo"},
		func(ctx context.Context) (any, error) {
			return map[string]string{"path": "/tmp/demo"}, nil
		})
	require.NoError(t, err)
	require.NotEmpty(t, processID)

	result := waitForStatus(t, manager, processID, TaskStatusSuccess)
	assert.Equal(t, TaskTypePortfolio, result.Type)
	assert.Equal(t, map[string]string{"path": "/tmp/demo"}, result.Data)
	assert.Empty(t, result.Error)
	require.NotNil(t, result.CompletedAt)
	assert.Equal(t, "demo", result.Metadata["project"])
}

func TestSubmitAndFail(t *testing.T) {
	manager, _ := testManager(t, config.BackgroundConfig{Workers: 1, QueueSize: 8})

	processID, err := manager.Submit(context.Background(), TaskTypeIndex, nil,
		func(ctx context.Context) (any, error) {
			return nil, fmt.Errorf("index directory missing")
		})
	require.NoError(t, err)

	result := waitForStatus(t, manager, processID, TaskStatusFailure)
	assert.Contains(t, result.Error, "index directory missing")
	assert.Nil(t, result.Data)
}

func TestSubmitQueueFull(t *testing.T) {
	manager, _ := testManager(t, config.BackgroundConfig{Workers: 1, QueueSize: 1})

	release := make(chan struct{})
	block := func(ctx context.Context) (any, error) {
		<-release
		return nil, nil
	}
	defer close(release)

	// First task occupies the worker, second fills the queue.
	_, err := manager.Submit(context.Background(), TaskTypePortfolio, nil, block)
	require.NoError(t, err)

	// The worker may not have picked up the first task yet, so fill until
	// the queue rejects.
	var queueErr error
	for i := 0; i < 3; i++ {
		_, queueErr = manager.Submit(context.Background(), TaskTypePortfolio, nil, block)
		if queueErr != nil {
			break
		}
	}
	require.Error(t, queueErr)
	assert.Contains(t, queueErr.Error(), "queue is full")

	// The rejected task leaves no orphan record.
	tasks, err := manager.ListTasks(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(tasks), 2)
}

func TestStopDrainsQueuedTasks(t *testing.T) {
	store := NewInMemoryTaskStore()
	manager := NewManager(config.BackgroundConfig{Workers: 2, QueueSize: 16}, store, testLogger(t))
	manager.Start()

	var mu sync.Mutex
	completed := 0
	var ids []string
	for i := 0; i < 8; i++ {
		processID, err := manager.Submit(context.Background(), TaskTypePortfolio, nil,
			func(ctx context.Context) (any, error) {
				time.Sleep(5 * time.Millisecond)
				mu.Lock()
				completed++
				mu.Unlock()
				return nil, nil
			})
		require.NoError(t, err)
		ids = append(ids, processID)
	}

	require.NoError(t, manager.Stop())

	mu.Lock()
	assert.Equal(t, 8, completed)
	mu.Unlock()
	for _, processID := range ids {
		result, err := store.Get(context.Background(), processID)
		require.NoError(t, err)
		assert.Equal(t, TaskStatusSuccess, result.Status)
	}
}

func TestSubmitAfterStop(t *testing.T) {
	manager := NewManager(config.BackgroundConfig{}, NewInMemoryTaskStore(), testLogger(t))
	manager.Start()
	require.NoError(t, manager.Stop())

	_, err := manager.Submit(context.Background(), TaskTypePortfolio, nil,
		func(ctx context.Context) (any, error) { return nil, nil })
	require.Error(t, err)
	assert.False(t, manager.IsHealthy())
}

func TestSubmitDuringStopDoesNotPanic(t *testing.T) {
	// A Submit racing Stop must either queue the task or report the manager
	// stopped; it must never send on the closed queue channel.
	for i := 0; i < 20; i++ {
		manager := NewManager(config.BackgroundConfig{Workers: 1, QueueSize: 4},
			NewInMemoryTaskStore(), testLogger(t))
		manager.Start()

		start := make(chan struct{})
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for j := 0; j < 10; j++ {
					_, _ = manager.Submit(context.Background(), TaskTypePortfolio, nil,
						func(ctx context.Context) (any, error) { return nil, nil })
				}
			}()
		}

		close(start)
		require.NoError(t, manager.Stop())
		wg.Wait()

		_, err := manager.Submit(context.Background(), TaskTypePortfolio, nil,
			func(ctx context.Context) (any, error) { return nil, nil })
		require.Error(t, err)
	}
}

func TestGetTaskStatus(t *testing.T) {
	manager, _ := testManager(t, config.BackgroundConfig{Workers: 1, QueueSize: 4})

	processID, err := manager.Submit(context.Background(), TaskTypeIndex, nil,
		func(ctx context.Context) (any, error) { return nil, nil })
	require.NoError(t, err)

	waitForStatus(t, manager, processID, TaskStatusSuccess)
	status, err := manager.GetTaskStatus(context.Background(), processID)
	require.NoError(t, err)
	assert.Equal(t, TaskStatusSuccess, status)

	_, err = manager.GetTaskStatus(context.Background(), "nope")
	require.Error(t, err)
}

func TestInMemoryStoreCleanup(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	old := &TaskResult{ProcessID: "old", CreatedAt: time.Now().Add(-2 * time.Hour)}
	fresh := &TaskResult{ProcessID: "fresh", CreatedAt: time.Now()}
	require.NoError(t, store.Store(ctx, old))
	require.NoError(t, store.Store(ctx, fresh))

	require.NoError(t, store.Cleanup(ctx, time.Hour))

	_, err := store.Get(ctx, "old")
	require.Error(t, err)
	_, err = store.Get(ctx, "fresh")
	require.NoError(t, err)
}

func TestInMemoryStoreUpdateMissing(t *testing.T) {
	store := NewInMemoryTaskStore()
	err := store.Update(context.Background(), &TaskResult{ProcessID: "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
