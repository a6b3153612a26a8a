package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"careerpilot/internal/config"
	"careerpilot/internal/errors"
)

const (
	defaultWorkers   = 4
	defaultQueueSize = 64
	cleanupInterval  = 10 * time.Minute
	stopTimeout      = 30 * time.Second
)

// ExecuteFunc does the actual work of a task. The returned value is stored
// as the task's result data.
type ExecuteFunc func(ctx context.Context) (any, error)

type taskExecution struct {
	processID string
	taskType  TaskType
	execute   ExecuteFunc
}

// Manager queues task executions and drains them with a fixed pool of
// workers. The queue is bounded; Submit fails fast when it is full.
type Manager struct {
	store     TaskStore
	taskChan  chan *taskExecution
	workers   int
	resultTTL time.Duration
	logger    *errors.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

func NewManager(cfg config.BackgroundConfig, store TaskStore, logger *errors.Logger) *Manager {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	resultTTL := cfg.ResultTTL
	if resultTTL <= 0 {
		resultTTL = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:     store,
		taskChan:  make(chan *taskExecution, queueSize),
		workers:   workers,
		resultTTL: resultTTL,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		stopCh:    make(chan struct{}),
	}
}

// Start spins up the worker pool and the periodic result cleanup
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}
	m.wg.Add(1)
	go m.cleanupRoutine()

	m.logger.Info("Task manager started",
		"workers", m.workers,
		"queue_size", cap(m.taskChan))
}

// Stop drains queued work and waits for in-flight tasks, up to a timeout
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	// taskChan is closed while still holding the lock so that Submit, which
	// enqueues under the same lock, can never send on a closed channel.
	close(m.stopCh)
	close(m.taskChan)
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.cancel()
		m.logger.Info("Task manager stopped")
		return nil
	case <-time.After(stopTimeout):
		m.cancel()
		return errors.NewInternalError(errors.ErrCodeNodeFailed,
			"task manager shutdown timed out", nil)
	}
}

// Submit records the task as accepted and queues it. It returns an error
// without queuing when the manager is stopped or the queue is full.
func (m *Manager) Submit(ctx context.Context, taskType TaskType, metadata map[string]any, execute ExecuteFunc) (string, error) {
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()
	if !running {
		return "", errors.NewInternalError(errors.ErrCodeQueueFull,
			"task manager is not running", nil)
	}

	processID := uuid.NewString()
	result := &TaskResult{
		ProcessID: processID,
		Type:      taskType,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}
	if err := m.store.Store(ctx, result); err != nil {
		return "", err
	}

	execution := &taskExecution{
		processID: processID,
		taskType:  taskType,
		execute:   execute,
	}

	// Re-check running and enqueue under the lock: Stop closes taskChan while
	// holding it, so the send below cannot race the close. The send is
	// non-blocking, the lock is never held waiting on a worker.
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		if err := m.store.Delete(ctx, processID); err != nil {
			m.logger.Warn("Cannot remove rejected task", "process_id", processID)
		}
		return "", errors.NewInternalError(errors.ErrCodeQueueFull,
			"task manager is not running", nil)
	}
	select {
	case m.taskChan <- execution:
		m.mu.Unlock()
		m.logger.Debug("Task queued", "process_id", processID, "type", taskType)
		return processID, nil
	default:
		m.mu.Unlock()
		if err := m.store.Delete(ctx, processID); err != nil {
			m.logger.Warn("Cannot remove rejected task", "process_id", processID)
		}
		return "", errors.NewInternalError(errors.ErrCodeQueueFull,
			fmt.Sprintf("task queue is full (%d pending)", cap(m.taskChan)), nil)
	}
}

// GetTaskResult returns the stored record for a task
func (m *Manager) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return m.store.Get(ctx, processID)
}

// GetTaskStatus returns just the lifecycle state of a task
func (m *Manager) GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error) {
	result, err := m.store.Get(ctx, processID)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

// ListTasks returns every task result still held by the store
func (m *Manager) ListTasks(ctx context.Context) ([]*TaskResult, error) {
	return m.store.List(ctx)
}

// IsHealthy reports whether the manager accepts new work
func (m *Manager) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// QueueDepth reports how many tasks are waiting for a worker
func (m *Manager) QueueDepth() int {
	return len(m.taskChan)
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()
	for execution := range m.taskChan {
		m.processTask(execution)
	}
	m.logger.Debug("Worker drained", "worker", id)
}

func (m *Manager) processTask(execution *taskExecution) {
	started := time.Now()

	result, err := m.store.Get(m.ctx, execution.processID)
	if err != nil {
		m.logger.LogError(err, "Cannot load queued task", "process_id", execution.processID)
		return
	}
	result.Status = TaskStatusProcessing
	if err := m.store.Update(m.ctx, result); err != nil {
		m.logger.LogError(err, "Cannot mark task processing", "process_id", execution.processID)
	}

	data, execErr := execution.execute(m.ctx)

	completed := time.Now()
	result.CompletedAt = &completed
	result.ProcessingTime = completed.Sub(started)
	if execErr != nil {
		result.Status = TaskStatusFailure
		result.Error = execErr.Error()
		m.logger.LogError(execErr, "Task failed",
			"process_id", execution.processID,
			"type", execution.taskType,
			"duration", result.ProcessingTime)
	} else {
		result.Status = TaskStatusSuccess
		result.Data = data
		m.logger.Info("Task completed",
			"process_id", execution.processID,
			"type", execution.taskType,
			"duration", result.ProcessingTime)
	}

	if err := m.store.Update(m.ctx, result); err != nil {
		m.logger.LogError(err, "Cannot store task result", "process_id", execution.processID)
	}
}

func (m *Manager) cleanupRoutine() {
	defer m.wg.Done()
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			if err := m.store.Cleanup(m.ctx, m.resultTTL); err != nil {
				m.logger.LogError(err, "Task result cleanup failed")
			}
		}
	}
}
