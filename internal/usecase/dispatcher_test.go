package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	repo "tago-service/internal/interface/repository"
	"tago-service/pkg/logger"
	"tago-service/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(f *fixture, reservations repository.ReservationRepository, mailer repository.MailSender) *Dispatcher {
	return NewDispatcher(
		newTestEngine(),
		reservations,
		f.configs,
		f.ledger,
		mailer,
		f.publisher,
		metrics.NewNopMetrics(),
		logger.NewNopLogger(),
		f.clock.Now,
		DispatchOptions{Interval: time.Minute, Hour: 9, RetentionDays: 3, SendTimeout: time.Second},
	)
}

type failingReservations struct {
	repository.ReservationRepository
}

func (failingReservations) List(ctx context.Context) ([]entity.Reservation, error) {
	return nil, errors.New("connection reset")
}

func TestInstanceID(t *testing.T) {
	id := InstanceID("ABC123", "Follow up on agent reply", "2024-01-06")

	assert.Equal(t, id, InstanceID("ABC123", "Follow up on agent reply", "2024-01-06"))
	assert.NotEqual(t, id, InstanceID("ABC123", "Follow up on agent reply", "2024-01-07"))
	assert.NotEqual(t, id, InstanceID("ABC124", "Follow up on agent reply", "2024-01-06"))
}

func TestDispatcher_SendsOncePerDay(t *testing.T) {
	f := newFixture(t)
	f.addReservation(t, offerSent("r1", "ABC123", "ET", "2024-01-01"))
	f.setRecipient(t, "ET", "ops@et.example")
	mailer := &mockMailer{}
	d := newTestDispatcher(f, f.reservations, mailer)

	report, err := d.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, "2024-01-06", report.Day)

	f.clock.Set(at("2024-01-06 16:00"))
	report, err = d.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.AlreadySent)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ops@et.example", sent[0].To)
	assert.Contains(t, sent[0].Subject, "ABC123")
	assert.Contains(t, sent[0].Body, "ABC123")
	assert.Equal(t, []string{repository.EventReminderDispatched}, f.publisher.Events())
}

func TestDispatcher_RepeatingReminderSentAgainNextDay(t *testing.T) {
	f := newFixture(t)
	f.addReservation(t, offerSent("r1", "ABC123", "ET", "2024-01-01"))
	f.setRecipient(t, "ET", "ops@et.example")
	mailer := &mockMailer{}
	d := newTestDispatcher(f, f.reservations, mailer)

	_, err := d.CheckNow(context.Background())
	require.NoError(t, err)

	f.clock.Set(at("2024-01-07 09:30"))
	report, err := d.CheckNow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	assert.Len(t, mailer.Sent(), 2)
}

func TestDispatcher_LedgerSurvivesRestart(t *testing.T) {
	f := newFixture(t)
	f.addReservation(t, offerSent("r1", "ABC123", "ET", "2024-01-01"))
	f.setRecipient(t, "ET", "ops@et.example")
	mailer := &mockMailer{}

	_, err := newTestDispatcher(f, f.reservations, mailer).CheckNow(context.Background())
	require.NoError(t, err)

	// A fresh ledger over the same store has no in-memory state
	f.ledger = repo.NewKVSentLedger(f.store, jerusalem)
	report, err := newTestDispatcher(f, f.reservations, mailer).CheckNow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.AlreadySent)
	assert.Len(t, mailer.Sent(), 1)
}

func TestDispatcher_FailedSendRetriedOnNextTick(t *testing.T) {
	f := newFixture(t)
	f.addReservation(t, offerSent("r1", "ABC123", "ET", "2024-01-01"))
	f.setRecipient(t, "ET", "ops@et.example")
	fail := true
	mailer := &mockMailer{sendFn: func(to, subject string) entity.SendResult {
		if fail {
			return entity.SendResult{Success: false, Message: "quota exceeded"}
		}
		return entity.SendResult{Success: true}
	}}
	d := newTestDispatcher(f, f.reservations, mailer)

	report, err := d.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, f.publisher.Events())

	fail = false
	report, err = d.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Len(t, mailer.Sent(), 1)
}

func TestDispatcher_SkipsBeforeDispatchHour(t *testing.T) {
	f := newFixture(t)
	f.addReservation(t, offerSent("r1", "ABC123", "ET", "2024-01-01"))
	f.setRecipient(t, "ET", "ops@et.example")
	f.clock.Set(at("2024-01-06 08:59"))
	mailer := &mockMailer{}

	report, err := newTestDispatcher(f, f.reservations, mailer).CheckNow(context.Background())

	require.NoError(t, err)
	assert.True(t, report.SkippedBeforeHour)
	assert.Empty(t, mailer.Sent())
}

func TestDispatcher_UncontactableAirline(t *testing.T) {
	f := newFixture(t)
	f.addReservation(t, offerSent("r1", "ABC123", "ET", "2024-01-01"))
	f.setRecipient(t, "ET", "   ")
	mailer := &mockMailer{}

	report, err := newTestDispatcher(f, f.reservations, mailer).CheckNow(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Uncontactable)
	assert.Empty(t, mailer.Sent())
}

func TestDispatcher_ReadFailureAbortsTick(t *testing.T) {
	f := newFixture(t)
	mailer := &mockMailer{}

	_, err := newTestDispatcher(f, failingReservations{}, mailer).CheckNow(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load reservations")
	assert.Empty(t, mailer.Sent())
}

func TestDispatcher_TicksDoNotOverlap(t *testing.T) {
	f := newFixture(t)
	f.addReservation(t, offerSent("r1", "ABC123", "ET", "2024-01-01"))
	f.setRecipient(t, "ET", "ops@et.example")

	started := make(chan struct{})
	release := make(chan struct{})
	mailer := &mockMailer{sendFn: func(to, subject string) entity.SendResult {
		close(started)
		<-release
		return entity.SendResult{Success: true}
	}}
	d := newTestDispatcher(f, f.reservations, mailer)

	done := make(chan entity.DispatchReport)
	go func() {
		report, _ := d.CheckNow(context.Background())
		done <- report
	}()

	<-started
	_, err := d.CheckNow(context.Background())
	assert.ErrorIs(t, err, ErrTickInFlight)

	close(release)
	report := <-done
	assert.Equal(t, 1, report.Sent)
}
