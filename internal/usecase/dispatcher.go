package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"
	"tago-service/pkg/metrics"
	"tago-service/pkg/utils"

	"github.com/google/uuid"
)

// reminderNamespace seeds the name-based UUIDs of reminder instances
var reminderNamespace = uuid.MustParse("3b1f6c0e-52a4-4d8e-9c57-0f2d8a61b7e4")

// InstanceID identifies one reminder on one day. Edits to fields other
// than the PNR or description keep the same id.
func InstanceID(pnr, description, day string) string {
	return uuid.NewSHA1(reminderNamespace, []byte(pnr+"|"+description+"|"+day)).String()
}

// DispatchOptions tunes the dispatcher
type DispatchOptions struct {
	Interval      time.Duration
	Hour          int
	RetentionDays int
	SendTimeout   time.Duration
}

// ReminderDispatchedEvent is published after each successful send
type ReminderDispatchedEvent struct {
	InstanceID    string              `json:"instanceId"`
	Day           string              `json:"day"`
	Type          entity.ReminderType `json:"type"`
	PNR           string              `json:"pnr"`
	Airline       string              `json:"airline"`
	ReservationID string              `json:"reservationId"`
	Recipient     string              `json:"recipient"`
	MessageID     string              `json:"messageId,omitempty"`
	SentAt        time.Time           `json:"sentAt"`
}

// Dispatcher emails newly due reminders once per day after the dispatch
// hour. Ticks never overlap.
type Dispatcher struct {
	engine       *ReminderEngine
	reservations repository.ReservationRepository
	configs      repository.AirlineConfigRepository
	ledger       repository.SentLedger
	mailer       repository.MailSender
	publisher    repository.EventPublisher
	metrics      *metrics.Metrics
	logger       logger.Logger
	clock        Clock
	opts         DispatchOptions

	inFlight atomic.Bool
}

// NewDispatcher creates a new reminder dispatcher
func NewDispatcher(
	engine *ReminderEngine,
	reservations repository.ReservationRepository,
	configs repository.AirlineConfigRepository,
	ledger repository.SentLedger,
	mailer repository.MailSender,
	publisher repository.EventPublisher,
	metrics *metrics.Metrics,
	logger logger.Logger,
	clock Clock,
	opts DispatchOptions,
) *Dispatcher {
	return &Dispatcher{
		engine:       engine,
		reservations: reservations,
		configs:      configs,
		ledger:       ledger,
		mailer:       mailer,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
		clock:        clock,
		opts:         opts,
	}
}

// Start runs a tick immediately and then every interval until ctx is done
func (d *Dispatcher) Start(ctx context.Context) {
	d.runScheduled(ctx)

	ticker := time.NewTicker(d.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Reminder dispatcher stopped")
			return
		case <-ticker.C:
			d.runScheduled(ctx)
		}
	}
}

func (d *Dispatcher) runScheduled(ctx context.Context) {
	if _, err := d.CheckNow(ctx); err != nil {
		if errors.Is(err, ErrTickInFlight) {
			d.logger.Debug("Skipping tick, previous check still running")
			return
		}
		d.metrics.ErrorsCount.WithLabelValues("dispatch_tick").Inc()
		d.logger.Error("Reminder dispatch tick failed", "error", err)
	}
}

// CheckNow runs one tick. It returns ErrTickInFlight without doing anything
// if another tick is running.
func (d *Dispatcher) CheckNow(ctx context.Context) (entity.DispatchReport, error) {
	if !d.inFlight.CompareAndSwap(false, true) {
		return entity.DispatchReport{}, ErrTickInFlight
	}
	defer d.inFlight.Store(false)

	start := time.Now()
	defer func() {
		d.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}()

	return d.tick(ctx)
}

func (d *Dispatcher) tick(ctx context.Context) (entity.DispatchReport, error) {
	loc := d.engine.Location()
	now := d.clock().In(loc)
	day := utils.DayKey(now, loc)
	report := entity.DispatchReport{Day: day}

	if err := d.ledger.PurgeOlderThan(ctx, now, d.opts.RetentionDays); err != nil {
		d.metrics.ErrorsCount.WithLabelValues("purge_ledger").Inc()
		d.logger.Warn("Failed to purge sent reminder ledger", "error", err)
	}

	if now.Hour() < d.opts.Hour {
		report.SkippedBeforeHour = true
		return report, nil
	}

	// A read failure must abort the tick rather than look like "no data"
	reservations, err := d.reservations.List(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load reservations: %w", err)
	}
	configs, err := d.configs.All(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load airline configs: %w", err)
	}

	reminders := d.engine.Derive(reservations, configs, now, entity.SystemViewer())
	d.metrics.RemindersDerived.Set(float64(len(reminders)))
	report.Evaluated = len(reminders)

	for _, reminder := range reminders {
		if ctx.Err() != nil {
			d.logger.Info("Dispatch interrupted by shutdown", "day", day)
			break
		}
		d.dispatch(ctx, reminder, configs, day, &report)
	}

	if report.Sent > 0 || report.Failed > 0 {
		d.logger.Info("Reminder dispatch completed",
			"day", report.Day,
			"evaluated", report.Evaluated,
			"sent", report.Sent,
			"alreadySent", report.AlreadySent,
			"uncontactable", report.Uncontactable,
			"failed", report.Failed)
	}

	return report, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, reminder entity.Reminder, configs map[string]entity.AirlineConfig, day string, report *entity.DispatchReport) {
	id := InstanceID(reminder.PNR, reminder.Description, day)

	sent, err := d.ledger.WasSent(ctx, day, id)
	if err != nil {
		report.Failed++
		d.metrics.DispatchFailures.WithLabelValues("ledger").Inc()
		d.logger.Error("Failed to read sent reminder ledger", "pnr", reminder.PNR, "error", err)
		return
	}
	if sent {
		report.AlreadySent++
		return
	}

	recipient := strings.TrimSpace(configs[reminder.Airline].RecipientEmail)
	if recipient == "" {
		report.Uncontactable++
		return
	}

	subject := fmt.Sprintf("Reminder: %s - PNR %s", reminder.Description, reminder.PNR)

	// Shutdown must not cut a send short
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.SendTimeout)
	defer cancel()

	result := d.mailer.Send(sendCtx, recipient, subject, reminder.EmailTemplate)
	if !result.Success {
		report.Failed++
		d.metrics.DispatchFailures.WithLabelValues("send").Inc()
		d.logger.Warn("Failed to send reminder, will retry next tick",
			"pnr", reminder.PNR,
			"description", reminder.Description,
			"recipient", recipient,
			"message", result.Message)
		return
	}

	report.Sent++
	d.metrics.EmailsSent.Inc()

	if err := d.ledger.MarkSent(sendCtx, day, id); err != nil {
		d.metrics.ErrorsCount.WithLabelValues("mark_sent").Inc()
		d.logger.Error("Failed to persist sent reminder", "pnr", reminder.PNR, "instanceId", id, "error", err)
	}

	event := ReminderDispatchedEvent{
		InstanceID:    id,
		Day:           day,
		Type:          reminder.Type,
		PNR:           reminder.PNR,
		Airline:       reminder.Airline,
		ReservationID: reminder.ReservationID,
		Recipient:     recipient,
		MessageID:     result.MessageID,
		SentAt:        d.clock(),
	}
	if err := d.publisher.Publish(sendCtx, repository.EventReminderDispatched, event); err != nil {
		d.logger.Warn("Failed to publish reminder event", "pnr", reminder.PNR, "error", err)
	}
}
