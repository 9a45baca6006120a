// Package commandworker consumes summary log commands from the command queue.
package commandworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/iho/wasteledger/internal/adapter/queue"
	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/infrastructure/metrics"
)

// Queue is the delivery surface the worker consumes.
type Queue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Delivery, error)
	Ack(ctx context.Context, d *queue.Delivery) error
	Requeue(ctx context.Context, d *queue.Delivery) error
	DeadLetter(ctx context.Context, d *queue.Delivery, reason string) error
}

// Handler processes commands and records terminal failures.
type Handler interface {
	Handle(ctx context.Context, cmd domain.Command) error
	MarkFailed(ctx context.Context, summaryLogID, reason string) error
}

// Config for Worker.
type Config struct {
	Queue        Queue
	Handler      Handler
	Validator    *validator.Validate
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
	MaxAttempts  int           // Deliveries before a transient failure is final
	PollInterval time.Duration // Longest wait for a message
}

// Worker pulls commands one at a time and settles each delivery exactly
// once: ack, requeue or dead-letter.
type Worker struct {
	queue        Queue
	handler      Handler
	validate     *validator.Validate
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	maxAttempts  int
	pollInterval time.Duration
}

// New creates a new Worker.
func New(cfg Config) *Worker {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.Validator == nil {
		cfg.Validator = validator.New(validator.WithRequiredStructEnabled())
	}

	return &Worker{
		queue:        cfg.Queue,
		handler:      cfg.Handler,
		validate:     cfg.Validator,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		maxAttempts:  cfg.MaxAttempts,
		pollInterval: cfg.PollInterval,
	}
}

// Start consumes commands until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Int("max_attempts", w.maxAttempts).
		Dur("poll_interval", w.pollInterval).
		Msg("command worker started")

	for {
		if err := ctx.Err(); err != nil {
			w.logger.Info().Msg("command worker shutting down")
			return err
		}

		if _, err := w.processNext(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("error processing command")
			select {
			case <-ctx.Done():
			case <-time.After(w.pollInterval):
			}
		}
	}
}

// processNext handles at most one delivery. It reports whether a delivery
// was received.
func (w *Worker) processNext(ctx context.Context) (bool, error) {
	d, err := w.queue.Dequeue(ctx, w.pollInterval)
	if d == nil {
		return false, err
	}

	log := w.logger.With().Str("message_id", d.ID).Int("attempt", d.Attempts+1).Logger()

	if err != nil {
		log.Warn().Err(err).Msg("dead-lettering malformed message")
		return true, w.deadLetter(ctx, d, err.Error())
	}

	cmd, err := d.Command()
	if err == nil {
		err = w.validate.Struct(cmd)
	}
	if err != nil {
		log.Warn().Err(err).Msg("dead-lettering invalid command")
		return true, w.deadLetter(ctx, d, err.Error())
	}

	log = log.With().Str("command", string(cmd.Name)).Str("summary_log_id", cmd.SummaryLogID).Logger()

	start := time.Now()
	err = w.handler.Handle(ctx, cmd)
	w.observe(cmd.Name, start, err)

	switch {
	case err == nil:
		log.Info().Msg("command processed")
		return true, w.queue.Ack(ctx, d)

	case domain.IsPermanent(err):
		log.Warn().Err(err).Msg("command failed permanently")
		w.markFailed(ctx, log, cmd, err)
		return true, w.queue.Ack(ctx, d)

	case d.Attempts+1 >= w.maxAttempts:
		log.Error().Err(err).Msg("command retries exhausted")
		w.markFailed(ctx, log, cmd, err)
		return true, w.deadLetter(ctx, d, fmt.Sprintf("retries exhausted: %v", err))

	default:
		log.Warn().Err(err).Msg("command failed, requeueing")
		return true, w.queue.Requeue(ctx, d)
	}
}

func (w *Worker) markFailed(ctx context.Context, log zerolog.Logger, cmd domain.Command, cause error) {
	// The log is in a status this command does not apply to.
	if errors.Is(cause, domain.ErrSummaryLogStatus) {
		return
	}

	if err := w.handler.MarkFailed(ctx, cmd.SummaryLogID, domain.SafeMessage(cause)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return
		}
		log.Error().Err(err).Msg("failed to mark summary log as failed")
	}
}

func (w *Worker) deadLetter(ctx context.Context, d *queue.Delivery, reason string) error {
	if w.metrics != nil {
		w.metrics.CommandsDeadLettered.Inc()
	}
	return w.queue.DeadLetter(ctx, d, reason)
}

func (w *Worker) observe(name domain.CommandName, start time.Time, err error) {
	if w.metrics == nil {
		return
	}

	result := "success"
	switch {
	case err == nil:
	case domain.IsPermanent(err):
		result = "permanent_failure"
	default:
		result = "transient_failure"
	}

	w.metrics.CommandsProcessed.WithLabelValues(string(name), result).Inc()
	w.metrics.CommandDuration.WithLabelValues(string(name)).Observe(time.Since(start).Seconds())
}
