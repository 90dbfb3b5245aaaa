// Package notification delivers emails off the request path. Callers enqueue
// and move on; delivery failures are logged and never surface to the caller.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Email is one outbound message. Body is plain text.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Sender performs a single delivery attempt.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

type job struct {
	ID    string
	Email Email
}

type worker struct {
	id         int
	workerPool chan chan job
	jobChannel chan job
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan job, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan job),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, processFunc func(job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.workerPool <- w.jobChannel

			select {
			case j := <-w.jobChannel:
				w.logger.Debug("worker delivering email", "worker_id", w.id, "job_id", j.ID)
				processFunc(j)
			case <-ctx.Done():
				w.logger.Debug("mail worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

type Config struct {
	MaxWorkers   int
	QueueSize    int
	SendTimeout  time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
}

// Mailer owns a bounded queue and a fixed worker pool. Enqueue never blocks:
// when the queue is full the message is dropped and logged, keeping mail
// strictly best-effort.
type Mailer struct {
	sender       Sender
	logger       *slog.Logger
	sendTimeout  time.Duration
	maxAttempts  int
	retryBackoff time.Duration

	jobQueue   chan job
	workerPool chan chan job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewMailer(sender Sender, config Config, logger *slog.Logger) *Mailer {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	sendTimeout := config.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}

	maxAttempts := config.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	retryBackoff := config.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = 2 * time.Second
	}

	m := &Mailer{
		sender:       sender,
		logger:       logger,
		sendTimeout:  sendTimeout,
		maxAttempts:  maxAttempts,
		retryBackoff: retryBackoff,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan job, queueSize),
		workerPool: make(chan chan job, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	m.startWorkerPool()

	return m
}

func (m *Mailer) startWorkerPool() {
	m.once.Do(func() {
		for i := 0; i < m.maxWorkers; i++ {
			w := newWorker(i, m.workerPool, m.logger)
			w.start(m.ctx, &m.wg, m.deliver)
		}

		m.wg.Add(1)
		go m.dispatch()

		m.logger.Info("mail worker pool started",
			"max_workers", m.maxWorkers,
			"queue_size", cap(m.jobQueue))
	})
}

func (m *Mailer) dispatch() {
	defer m.wg.Done()

	for {
		select {
		case j := <-m.jobQueue:
			select {
			case jobChannel := <-m.workerPool:
				select {
				case jobChannel <- j:

				case <-m.ctx.Done():
					m.logger.Info("mail dispatcher shutting down")
					return
				}
			case <-m.ctx.Done():
				m.logger.Info("mail dispatcher shutting down")
				return
			}
		case <-m.ctx.Done():
			m.logger.Info("mail dispatcher shutting down")
			return
		}
	}
}

// Enqueue hands the email to the pool. It returns immediately; a full queue
// drops the message with a warning instead of applying backpressure to the
// request that triggered it.
func (m *Mailer) Enqueue(email Email) {
	j := job{ID: uuid.NewString(), Email: email}

	select {
	case m.jobQueue <- j:
		m.logger.Debug("email queued",
			"job_id", j.ID,
			"to", email.To,
			"queue_length", len(m.jobQueue))
	default:
		m.logger.Warn("mail queue full, dropping email",
			"to", email.To,
			"subject", email.Subject,
			"queue_capacity", cap(m.jobQueue))
	}
}

func (m *Mailer) deliver(j job) {
	var lastErr error

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(m.ctx, m.sendTimeout)
		lastErr = m.sender.Send(ctx, j.Email)
		cancel()

		if lastErr == nil {
			m.logger.Info("email delivered",
				"job_id", j.ID,
				"to", j.Email.To,
				"attempt", attempt)
			return
		}

		m.logger.Warn("email delivery attempt failed",
			"job_id", j.ID,
			"to", j.Email.To,
			"attempt", attempt,
			"error", lastErr)

		if attempt < m.maxAttempts {
			select {
			case <-time.After(m.retryBackoff * time.Duration(attempt)):
			case <-m.ctx.Done():
				return
			}
		}
	}

	m.logger.Error("email delivery abandoned",
		"job_id", j.ID,
		"to", j.Email.To,
		"attempts", m.maxAttempts,
		"error", lastErr)
}

// Shutdown stops accepting work and waits for in-flight deliveries.
func (m *Mailer) Shutdown() {
	m.logger.Info("shutting down mailer")
	m.cancel()
	m.wg.Wait()
	m.logger.Info("mailer shutdown complete")
}

// AssignmentEmail announces a new project assignment to the employee.
func AssignmentEmail(to, employeeName, projectName string) Email {
	return Email{
		To:      to,
		Subject: fmt.Sprintf("You have been assigned to %s", projectName),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYou have been assigned to the project %q.\n\nRegards,\nWorkforce Management",
			employeeName, projectName),
	}
}

// UnassignmentEmail announces removal from a project.
func UnassignmentEmail(to, employeeName, projectName string) Email {
	return Email{
		To:      to,
		Subject: fmt.Sprintf("You have been removed from %s", projectName),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYou are no longer assigned to the project %q.\n\nRegards,\nWorkforce Management",
			employeeName, projectName),
	}
}

// WelcomeEmail greets a newly registered employee.
func WelcomeEmail(to, employeeName string) Email {
	return Email{
		To:      to,
		Subject: "Welcome to Workforce Management",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour employee account has been created.\n\nRegards,\nWorkforce Management",
			employeeName),
	}
}
