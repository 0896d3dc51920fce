package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tago-service/internal/domain/repository"
	"tago-service/internal/infrastructure/config"
	"tago-service/internal/infrastructure/oauth"
	"tago-service/internal/infrastructure/persistence"
	"tago-service/internal/infrastructure/router"
	"tago-service/internal/infrastructure/seed"
	"tago-service/internal/interface/gmail"
	"tago-service/internal/interface/handler"
	"tago-service/internal/interface/messaging"
	kvRepo "tago-service/internal/interface/repository"
	"tago-service/internal/usecase"
	"tago-service/pkg/logger"
	"tago-service/pkg/metrics"
	"tago-service/templates"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting TAGO service", "version", cfg.AppVersion, "storage", cfg.StorageDriver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc := cfg.Location()

	// Storage
	var (
		store       repository.Store
		mongoClient *mongo.Client
		badgerStore *persistence.BadgerStore
	)
	switch cfg.StorageDriver {
	case config.StorageMongo:
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		store = kvRepo.NewMongoStore(persistence.GetDatabase(mongoClient, cfg.MongoDB))
	case config.StorageMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		store = persistence.NewMemoryStore()
	default:
		badgerStore, err = persistence.NewBadgerStore(cfg.BadgerDir, log)
		if err != nil {
			log.Fatal("Failed to open badger store", "dir", cfg.BadgerDir, "error", err)
		}
		store = badgerStore
	}

	var airlineRepository repository.AirlineRepository = kvRepo.NewKVAirlineRepository(store)
	if cfg.PostgresDSN != "" {
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airlineRepository, err = kvRepo.NewGormAirlineRepository(gormDB)
		if err != nil {
			log.Fatal("Failed to migrate airline directory", "error", err)
		}
		log.Info("Airline directory served from PostgreSQL")
	}

	var auditLogRepository repository.AuditLogRepository = kvRepo.NewKVAuditLogRepository(store)
	if mongoClient != nil {
		auditLogRepository = kvRepo.NewMongoAuditLogRepository(ctx, persistence.GetDatabase(mongoClient, cfg.MongoDB), log)
	}

	reservationRepository := kvRepo.NewKVReservationRepository(store)
	configRepository := kvRepo.NewKVAirlineConfigRepository(store)
	userRepository := kvRepo.NewKVUserRepository(store)
	emailSettingsRepository := kvRepo.NewKVEmailSettingsRepository(store)
	sentLedger := kvRepo.NewKVSentLedger(store, loc)

	// Defaults are written only for keys that were never stored
	seedFile, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal("Failed to read seed file", "path", cfg.SeedFile, "error", err)
	}
	if err := seed.NewSeeder(store, airlineRepository, log).Apply(ctx, seedFile); err != nil {
		log.Fatal("Failed to seed storage", "error", err)
	}

	// Mail
	var mailer repository.MailSender = gmail.NewNoopSender(log)
	if cfg.GmailEnabled() {
		gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, "", log)
		sender, err := gmail.NewGmailSender(ctx, gmailOAuth.GetTokenSource(ctx), emailSettingsRepository, cfg.GmailSender, log)
		if err != nil {
			log.Fatal("Failed to create Gmail sender", "error", err)
		}
		mailer = sender
	} else {
		log.Warn("Gmail credentials not configured, reminders will not be emailed")
	}

	// Events
	var publisher repository.EventPublisher = messaging.NoopPublisher{}
	var rabbit *messaging.RabbitMQPublisher
	if cfg.RabbitMQURL != "" {
		rabbit, err = messaging.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", "error", err)
		}
		publisher = rabbit
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(cfg.MetricsNamespace, registry)

	// Reminder rules
	rules := router.NewRuleRouter(log)
	rules.Register(templates.NewOfferFollowUpRule(loc, log))
	rules.Register(templates.NewAlertPairRule(loc, log))
	rules.Register(templates.NewAirlineCustomRule(loc, log))
	engine := usecase.NewReminderEngine(rules, loc, log)

	clock := usecase.Clock(time.Now)
	dispatcher := usecase.NewDispatcher(
		engine,
		reservationRepository,
		configRepository,
		sentLedger,
		mailer,
		publisher,
		m,
		log.With("component", "dispatcher"),
		clock,
		usecase.DispatchOptions{
			Interval:      cfg.DispatchInterval,
			Hour:          cfg.DispatchHour,
			RetentionDays: cfg.SentRetentionDays,
			SendTimeout:   cfg.SendTimeout,
		},
	)

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = randomSecret()
		log.Warn("JWT_SECRET not set, sessions will not survive a restart")
	}
	authService := usecase.NewAuthService(userRepository, jwtSecret, cfg.SessionTTL, clock, log)

	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		dispatcher.Start(ctx)
	}()

	// HTTP
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.NewErrorHandler(log)
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Debug("HTTP request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", handler.Health(cfg.AppVersion))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handler.Register(e, handler.Handlers{
		Auth: authService,
		Reservations: handler.NewReservationHandler(usecase.NewReservationService(
			reservationRepository, airlineRepository, auditLogRepository, publisher, log, clock, loc)),
		Reminders: handler.NewReminderHandler(
			usecase.NewReminderService(engine, reservationRepository, configRepository, clock),
			dispatcher),
		Admin: handler.NewAdminHandler(
			usecase.NewUserService(userRepository, airlineRepository, log),
			usecase.NewAirlineService(airlineRepository, configRepository, log),
			usecase.NewEmailService(emailSettingsRepository, mailer, log)),
		Reports: handler.NewReportHandler(
			usecase.NewReportService(reservationRepository, airlineRepository, configRepository, auditLogRepository, clock, loc),
			loc),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	// Stop the dispatcher; a send already in progress finishes first
	cancel()
	select {
	case <-dispatchDone:
	case <-shutdownCtx.Done():
		log.Warn("Dispatcher did not stop in time")
	}

	if rabbit != nil {
		rabbit.Close()
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}
	if badgerStore != nil {
		if err := badgerStore.Close(); err != nil {
			log.Error("Badger close error", "error", err)
		}
	}

	log.Info("TAGO service stopped")
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
