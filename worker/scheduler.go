package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Queue is the durable transport the scheduler publishes to and
// consumes from. Delivery is at-least-once; handlers must tolerate
// duplicate execution of the same payload.
type Queue interface {
	Publish(ctx context.Context, body []byte) error
	Consume(handler func(body []byte)) error
}

// Envelope wraps a task on the wire.
type Envelope struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// HandlerFunc executes one task attempt. The db argument is a session
// scoped to this attempt; it must not be retained.
type HandlerFunc func(ctx context.Context, db *gorm.DB, payload json.RawMessage) error

// RetryPolicy bounds task execution: a failed attempt is re-run after
// a flat delay until MaxAttempts is reached, then the task is dropped
// with the error logged. There is no dead-letter requeue.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Scheduler turns pipeline invocations into asynchronous, retryable
// units of work pulled off the shared queue by the consumer goroutine.
type Scheduler struct {
	queue    Queue
	db       *gorm.DB
	retry    RetryPolicy
	timeout  time.Duration
	handlers map[string]HandlerFunc
}

func NewScheduler(queue Queue, db *gorm.DB, retry RetryPolicy) *Scheduler {
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &Scheduler{
		queue:    queue,
		db:       db,
		retry:    retry,
		timeout:  5 * time.Minute,
		handlers: make(map[string]HandlerFunc),
	}
}

func (s *Scheduler) Register(kind string, handler HandlerFunc) {
	s.handlers[kind] = handler
}

// Enqueue publishes a task and returns immediately; the caller never
// waits for pipeline completion.
func (s *Scheduler) Enqueue(ctx context.Context, kind string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	env := Envelope{
		ID:      uuid.NewString(),
		Kind:    kind,
		Payload: body,
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := s.queue.Publish(ctx, raw); err != nil {
		return fmt.Errorf("publish %s task: %w", kind, err)
	}
	log.WithFields(log.Fields{"task_id": env.ID, "kind": kind}).Info("task enqueued")
	return nil
}

// Start registers the consumer; delivered messages run through the
// retry policy on the consumer goroutine.
func (s *Scheduler) Start() error {
	return s.queue.Consume(s.dispatch)
}

func (s *Scheduler) dispatch(body []byte) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		log.WithField("error", err).Error("invalid task envelope, discarding")
		return
	}

	handler, ok := s.handlers[env.Kind]
	if !ok {
		log.WithFields(log.Fields{"task_id": env.ID, "kind": env.Kind}).Error("no handler for task kind, discarding")
		return
	}

	s.runWithRetry(env, handler)
}

func (s *Scheduler) runWithRetry(env Envelope, handler HandlerFunc) {
	fields := log.Fields{"task_id": env.ID, "kind": env.Kind}

	var lastErr error
	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		lastErr = s.runOnce(env, handler)
		if lastErr == nil {
			log.WithFields(fields).Info("task completed")
			return
		}

		log.WithFields(fields).WithFields(log.Fields{
			"attempt": attempt,
			"error":   lastErr,
		}).Warn("task attempt failed")

		if attempt < s.retry.MaxAttempts {
			time.Sleep(s.retry.Delay)
		}
	}

	// No dead-letter path: exhausted tasks are dropped on purpose.
	log.WithFields(fields).WithField("error", lastErr).Error("task dropped after exhausting retries")
}

func (s *Scheduler) runOnce(env Envelope, handler HandlerFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// Every attempt runs on its own session so a failed attempt never
	// leaks statement state into the next one.
	db := s.db
	if db != nil {
		db = db.Session(&gorm.Session{NewDB: true})
	}
	return handler(ctx, db, env.Payload)
}
