// Command api serves the campus event registration HTTP API.
//
// @title Campus Events API
// @version 1.0
// @description Event publishing, quota-bounded registration, rosters and attendance.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"campusevents/config"
	_ "campusevents/docs"
	"campusevents/internal/adapters/auth"
	"campusevents/internal/adapters/broker"
	"campusevents/internal/adapters/email"
	"campusevents/internal/adapters/lock"
	deliveryhttp "campusevents/internal/delivery/http"
	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/domain"
	"campusevents/internal/monitoring"
	"campusevents/internal/obs"
	"campusevents/internal/repository/memory"
	"campusevents/internal/repository/postgres"
	"campusevents/internal/services"
)

const serviceName = "campusevents"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, obs.TracingConfig{
		ServiceName: serviceName,
		Version:     version,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("tracer shutdown", "error", err)
		}
	}()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	var (
		metrics        *monitoring.Metrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = monitoring.NewMetrics(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	var locker domain.AdmissionLocker
	if cfg.RedisURL != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("redis unavailable, admission serialised by storage only", "error", err)
		} else {
			defer client.Close()
			locker = lock.NewRedisLocker(client, cfg.AdmissionLockTTL, cfg.AdmissionWait)
		}
	}

	var publisher domain.NotificationPublisher = broker.NoopPublisher{Logger: logger}
	if cfg.AMQPURL != "" {
		p, err := broker.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Warn("amqp unavailable, notifications disabled", "error", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("load email templates: %w", err)
	}
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipTLS,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	clock := domain.SystemClock{}
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenExpiry)
	emailSvc := services.NewEmailService(mailer, renderer, logger)
	authSvc := services.NewAuthService(store.users, store.roles, auth.NewBcryptHasher(bcrypt.DefaultCost), tokens, clock, cfg.RequestTimeout)
	eventSvc := services.NewEventService(store.events, store.participants, publisher, metrics, clock, logger, cfg.RequestTimeout)
	regSvc := services.NewRegistrationService(store.events, store.participants, emailSvc, publisher, locker, metrics, clock, logger, cfg.RequestTimeout)

	if cfg.BootstrapOrganizerEmail != "" {
		if _, err := authSvc.EnsureOrganizer(ctx, cfg.BootstrapOrganizerEmail, cfg.BootstrapOrganizerPassword, cfg.BootstrapOrganizerName); err != nil {
			return fmt.Errorf("bootstrap organizer: %w", err)
		}
		logger.Info("organizer account ready", "email", cfg.BootstrapOrganizerEmail)
	}

	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Logger:         logger,
		Verifier:       tokens,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
		Health:         store.health,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		ServiceName:    serviceName,
		Auth:           controllers.NewAuthController(logger, authSvc),
		Events:         controllers.NewEventController(logger, eventSvc),
		Participants:   controllers.NewParticipantController(logger, regSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "storage", cfg.StorageDriver, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

type storage struct {
	events       domain.EventRepository
	participants domain.ParticipantRepository
	users        domain.UserRepository
	roles        domain.RoleRepository
	health       deliveryhttp.HealthCheck
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("using in-memory storage; data is lost on restart and admission is single-instance only")
		s := memory.NewStore()
		return &storage{
			events:       memory.NewEventRepository(s),
			participants: memory.NewParticipantRepository(s),
			users:        memory.NewUserRepository(s),
			roles:        memory.NewRoleRepository(s),
			close:        func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := postgres.RunMigrations(db, logger); err != nil {
		db.Close()
		return nil, err
	}
	return &storage{
		events:       postgres.NewEventRepository(db),
		participants: postgres.NewParticipantRepository(db),
		users:        postgres.NewUserRepository(db),
		roles:        postgres.NewRoleRepository(db),
		health:       db.PingContext,
		close:        func() { db.Close() },
	}, nil
}
