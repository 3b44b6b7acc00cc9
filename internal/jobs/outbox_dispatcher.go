package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5"
)

const outboxJobName = "notification-outbox-dispatch"

// DispatcherConfig tunes the outbox dispatcher.
type DispatcherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// OutboxDispatcher delivers committed outbox messages to the notification sink.
// It polls on a schedule and can be woken early with Trigger. Delivery is at
// least once: a message whose settlement fails to commit is sent again.
type OutboxDispatcher struct {
	scheduler     gocron.Scheduler
	job           gocron.Job
	outbox        portsrepo.OutboxRepositoryWithTx
	distributions portsrepo.DistributionReader
	sink          portssvc.NotificationSink
	cfg           DispatcherConfig
	logger        *slog.Logger
	now           func() time.Time
}

var _ portssvc.DispatchTrigger = (*OutboxDispatcher)(nil)

// NewOutboxDispatcher creates the dispatcher and registers its polling job. Call Start to run it.
func NewOutboxDispatcher(outbox portsrepo.OutboxRepositoryWithTx, distributions portsrepo.DistributionReader, sink portssvc.NotificationSink, cfg DispatcherConfig, logger *slog.Logger) (*OutboxDispatcher, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	d := &OutboxDispatcher{
		scheduler:     scheduler,
		outbox:        outbox,
		distributions: distributions,
		sink:          sink,
		cfg:           cfg,
		logger:        logger.With(slog.String("job", outboxJobName)),
		now:           func() time.Time { return time.Now().UTC() },
	}

	job, err := scheduler.NewJob(
		gocron.DurationJob(cfg.PollInterval),
		gocron.NewTask(d.run),
		gocron.WithName(outboxJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox job: %w", err)
	}
	d.job = job
	return d, nil
}

// Start starts the polling schedule.
func (d *OutboxDispatcher) Start() {
	d.logger.Info("Starting notification outbox dispatcher",
		slog.Duration("poll_interval", d.cfg.PollInterval),
		slog.Int("batch_size", d.cfg.BatchSize))
	d.scheduler.Start()
}

// Stop waits for a running dispatch to finish and stops the schedule.
func (d *OutboxDispatcher) Stop() error {
	d.logger.Info("Stopping notification outbox dispatcher")
	return d.scheduler.Shutdown()
}

// Trigger runs a dispatch now. A dispatch already in progress absorbs the request.
func (d *OutboxDispatcher) Trigger() {
	if err := d.job.RunNow(); err != nil {
		d.logger.Warn("Failed to trigger outbox dispatch", slog.String("error", err.Error()))
	}
}

func (d *OutboxDispatcher) run() {
	if _, err := d.DispatchPending(context.Background()); err != nil {
		d.logger.Error("Outbox dispatch failed", slog.String("error", err.Error()))
	}
}

// DispatchPending delivers one batch of pending messages and returns how many were delivered.
// Sink failures are recorded on the message and never returned.
func (d *OutboxDispatcher) DispatchPending(ctx context.Context) (int, error) {
	tx, err := d.outbox.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer d.outbox.Rollback(ctx, tx)

	messages, err := d.outbox.ClaimPendingNotifications(ctx, tx, d.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	delivered := 0
	for _, msg := range messages {
		ok, err := d.deliver(ctx, tx, msg)
		if err != nil {
			return delivered, err
		}
		if ok {
			delivered++
		}
	}

	if err := d.outbox.Commit(ctx, tx); err != nil {
		return 0, err
	}
	d.logger.Info("Outbox batch dispatched", slog.Int("claimed", len(messages)), slog.Int("delivered", delivered))
	return delivered, nil
}

// deliver hands one message to the sink and settles it. The returned error is a
// storage failure while settling; sink failures only mark the message.
func (d *OutboxDispatcher) deliver(ctx context.Context, tx pgx.Tx, msg domain.OutboxMessage) (bool, error) {
	logger := d.logger.With(
		slog.String("message_id", msg.MessageID),
		slog.String("distribution_id", msg.DistributionID),
		slog.String("event", string(msg.Event)))

	notifyErr := d.notify(ctx, msg)
	if notifyErr == nil {
		return true, d.outbox.MarkNotificationDispatched(ctx, tx, msg.MessageID, d.now())
	}

	terminal := msg.Attempts+1 >= d.cfg.MaxAttempts || errors.Is(notifyErr, apperrors.ErrNotFound)
	if terminal {
		logger.Error("Notification permanently failed", slog.String("error", notifyErr.Error()), slog.Int("attempts", msg.Attempts+1))
	} else {
		logger.Warn("Notification attempt failed", slog.String("error", notifyErr.Error()), slog.Int("attempts", msg.Attempts+1))
	}
	return false, d.outbox.MarkNotificationAttemptFailed(ctx, tx, msg.MessageID, notifyErr.Error(), terminal)
}

func (d *OutboxDispatcher) notify(ctx context.Context, msg domain.OutboxMessage) error {
	dist, err := d.distributions.FindDistributionByID(ctx, msg.DistributionID)
	if err != nil {
		return fmt.Errorf("load distribution: %w", err)
	}
	docs, err := d.distributions.FindDistributionDocuments(ctx, msg.DistributionID)
	if err != nil {
		return fmt.Errorf("load distribution documents: %w", err)
	}
	return d.sink.Notify(ctx, portssvc.Notification{
		MessageID:           msg.MessageID,
		Event:               msg.Event,
		RecipientDepartment: msg.Event.RecipientDepartment(*dist),
		Distribution:        *dist,
		Documents:           docs,
		Payload:             msg.Payload,
	})
}
