package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/internal/infrastructure/persistence"
	repo "tago-service/internal/interface/repository"
	"tago-service/pkg/logger"
	"tago-service/templates"

	"github.com/stretchr/testify/require"
)

var jerusalem = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		panic(err)
	}
	return loc
}()

// at returns the instant of a wall clock time in Jerusalem
func at(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", value, jerusalem)
	if err != nil {
		panic(err)
	}
	return t
}

// fakeClock is a settable Clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type staticRules []ReminderRule

func (s *staticRules) Register(rule ReminderRule) { *s = append(*s, rule) }
func (s *staticRules) Rules() []ReminderRule      { return *s }

func newTestEngine() *ReminderEngine {
	log := logger.NewNopLogger()
	rules := &staticRules{}
	rules.Register(templates.NewOfferFollowUpRule(jerusalem, log))
	rules.Register(templates.NewAlertPairRule(jerusalem, log))
	rules.Register(templates.NewAirlineCustomRule(jerusalem, log))
	return NewReminderEngine(rules, jerusalem, log)
}

// mockMailer records sends; sendFn decides each result
type mockMailer struct {
	mu     sync.Mutex
	sent   []sentMail
	sendFn func(to, subject string) entity.SendResult
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) entity.SendResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := entity.SendResult{Success: true, MessageID: "msg"}
	if m.sendFn != nil {
		result = m.sendFn(to, subject)
	}
	if result.Success {
		m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	}
	return result
}

func (m *mockMailer) Verify(ctx context.Context) entity.SendResult {
	return entity.SendResult{Success: true, Message: "connected as ops@tago.example"}
}

func (m *mockMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, routingKey)
	return nil
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

// fixture wires the services over one in-memory store
type fixture struct {
	store        *persistence.MemoryStore
	clock        *fakeClock
	reservations *repo.KVReservationRepository
	airlines     *repo.KVAirlineRepository
	configs      *repo.KVAirlineConfigRepository
	users        *repo.KVUserRepository
	auditLogs    *repo.KVAuditLogRepository
	ledger       *repo.KVSentLedger
	publisher    *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	store := persistence.NewMemoryStore()
	return &fixture{
		store:        store,
		clock:        &fakeClock{now: at("2024-01-06 10:00")},
		reservations: repo.NewKVReservationRepository(store),
		airlines:     repo.NewKVAirlineRepository(store),
		configs:      repo.NewKVAirlineConfigRepository(store),
		users:        repo.NewKVUserRepository(store),
		auditLogs:    repo.NewKVAuditLogRepository(store),
		ledger:       repo.NewKVSentLedger(store, jerusalem),
		publisher:    &recordingPublisher{},
	}
}

func (f *fixture) addReservation(t *testing.T, r entity.Reservation) {
	if r.Version == 0 {
		r.Version = 1
	}
	require.NoError(t, f.reservations.Create(context.Background(), &r))
}

func (f *fixture) setRecipient(t *testing.T, airline, email string) {
	config := entity.DefaultAirlineConfig(airline)
	config.RecipientEmail = email
	require.NoError(t, f.configs.Save(context.Background(), config))
}

func (f *fixture) reservationService() *ReservationService {
	return NewReservationService(f.reservations, f.airlines, f.auditLogs, f.publisher, logger.NewNopLogger(), f.clock.Now, jerusalem)
}

func editor(airlines ...string) entity.Viewer {
	return entity.Viewer{UserID: "u-editor", Username: "editor", Role: entity.RoleEditor, AllowedAirlines: airlines}
}

func viewerOf(airlines ...string) entity.Viewer {
	return entity.Viewer{UserID: "u-viewer", Username: "viewer", Role: entity.RoleViewer, AllowedAirlines: airlines}
}

func admin() entity.Viewer {
	return entity.Viewer{UserID: "u-admin", Username: "admin", Role: entity.RoleAdmin}
}

var _ repository.MailSender = (*mockMailer)(nil)
