package metro

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MovePhase tells listeners what happened to a proposed move.
type MovePhase string

const (
	// MoveProposed fires after a molecule has been checkpointed, perturbed
	// and wrapped back into the box.
	MoveProposed MovePhase = "proposed"
	// MoveRolledBack fires after a rejected move was restored from its
	// snapshot.
	MoveRolledBack MovePhase = "rolled_back"
)

// MoveEvent is the reporting record emitted for every move the box handles.
type MoveEvent struct {
	RunID         string     `json:"run_id"`
	Move          int64      `json:"move"`
	Phase         MovePhase  `json:"phase"`
	MoleculeIndex int        `json:"molecule_index"`
	MoleculeID    int        `json:"molecule_id"`
	PivotAtom     int        `json:"pivot_atom"`
	Deltas        [3]float64 `json:"deltas"`
	Degrees       [3]float64 `json:"degrees"`
	Timestamp     int64      `json:"timestamp"`
}

// JSON returns the move event as JSON bytes
func (e MoveEvent) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Notifier is the interface that all notification channels must implement
type Notifier interface {
	// ID returns a unique identifier for this notifier
	ID() string

	// Type returns the type of notifier (e.g., "webhook", "websocket")
	Type() string

	// Notify sends a move event. Returns an error if delivery fails.
	// The context can be used for cancellation and timeout.
	Notify(ctx context.Context, event MoveEvent) error

	// Close closes the notifier and releases any resources
	Close() error
}

// notificationJob represents a job to be processed by the notification queue
type notificationJob struct {
	Event       MoveEvent
	NotifierIDs []string
}

// NotificationManager manages all notifiers and routes move events to them
// asynchronously, off the simulation's move loop.
type NotificationManager struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
	jobs      chan notificationJob
	closed    bool
	wg        sync.WaitGroup
	logger    Logger
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager() *NotificationManager {
	return NewNotificationManagerWithLogger(NewNoOpLogger())
}

// NewNotificationManagerWithLogger creates a notification manager that logs
// delivery failures through the given logger.
func NewNotificationManagerWithLogger(logger Logger) *NotificationManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	mgr := &NotificationManager{
		notifiers: make(map[string]Notifier),
		jobs:      make(chan notificationJob, 1024),
		logger:    logger,
	}
	mgr.startWorkers(1)
	return mgr
}

// RegisterNotifier registers a notifier with the manager
func (nm *NotificationManager) RegisterNotifier(notifier Notifier) error {
	if notifier == nil {
		return fmt.Errorf("notifier cannot be nil")
	}

	id := notifier.ID()
	if id == "" {
		return fmt.Errorf("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()

	if _, exists := nm.notifiers[id]; exists {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}

	nm.notifiers[id] = notifier
	return nil
}

// UnregisterNotifier removes a notifier from the manager
func (nm *NotificationManager) UnregisterNotifier(id string) error {
	nm.mu.Lock()
	notifier, exists := nm.notifiers[id]
	nm.mu.Unlock()

	if !exists {
		return fmt.Errorf("notifier with ID %s not found", id)
	}

	if err := notifier.Close(); err != nil {
		return fmt.Errorf("error closing notifier %s: %w", id, err)
	}

	nm.mu.Lock()
	delete(nm.notifiers, id)
	nm.mu.Unlock()

	return nil
}

// GetNotifier retrieves a notifier by ID
func (nm *NotificationManager) GetNotifier(id string) (Notifier, bool) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	notifier, exists := nm.notifiers[id]
	return notifier, exists
}

// ListNotifiers returns a list of all registered notifier IDs
func (nm *NotificationManager) ListNotifiers() []string {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	return ids
}

// Enqueue enqueues a move event to be delivered asynchronously by the worker
// goroutines. Non-blocking: if the queue is full the event is dropped and the
// drop is logged.
func (nm *NotificationManager) Enqueue(event MoveEvent, notifierIDs []string) {
	if len(notifierIDs) == 0 {
		return
	}

	// The lock is held across the send: Close closes the jobs channel under
	// the write lock, so a send can never hit a closed channel.
	nm.mu.RLock()
	defer nm.mu.RUnlock()

	if nm.closed {
		return
	}

	select {
	case nm.jobs <- notificationJob{Event: event, NotifierIDs: notifierIDs}:
	default:
		nm.logger.Warnf("notification queue full, dropping move event: run=%s move=%d", event.RunID, event.Move)
	}
}

// startWorkers starts n worker goroutines to process notification jobs
func (nm *NotificationManager) startWorkers(n int) {
	for _i := 0; _i < n; _i++ {
		nm.wg.Add(1)
		go nm.worker()
	}
}

// worker processes notification jobs from the queue
func (nm *NotificationManager) worker() {
	defer nm.wg.Done()
	for job := range nm.jobs {
		nm.dispatchJob(job)
	}
}

// dispatchJob dispatches a notification job to all specified notifiers
func (nm *NotificationManager) dispatchJob(job notificationJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range job.NotifierIDs {
		nm.notifyWithRetry(ctx, id, job.Event)
	}
}

// notifyWithRetry attempts to deliver an event with exponential backoff retry
func (nm *NotificationManager) notifyWithRetry(ctx context.Context, notifierID string, event MoveEvent) {
	nm.mu.RLock()
	notifier, ok := nm.notifiers[notifierID]
	nm.mu.RUnlock()

	if !ok {
		nm.logger.Errorf("notification failed: notifier=%s error=notifier not found", notifierID)
		return
	}

	const maxRetries = 3
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := notifier.Notify(ctx, event)
		if err == nil {
			return
		}

		nm.logger.Warnf("notification failed: notifier=%s attempt=%d error=%v", notifierID, attempt+1, err)

		if attempt == maxRetries {
			nm.logger.Errorf("notification failed after %d attempts: notifier=%s", maxRetries+1, notifierID)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// Close closes all registered notifiers and shuts down worker goroutines
func (nm *NotificationManager) Close() error {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.jobs)
	nm.mu.Unlock()

	// Wait for all workers to finish processing
	nm.wg.Wait()

	nm.mu.Lock()
	var errs []error
	for id, notifier := range nm.notifiers {
		if err := notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing notifier %s: %w", id, err))
		}
	}
	nm.notifiers = make(map[string]Notifier)
	nm.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("errors closing notifiers: %v", errs)
	}

	return nil
}
