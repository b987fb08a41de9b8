package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"crewmatch/config"
	"crewmatch/internal/adapters/email"
	"crewmatch/internal/adapters/extraction"
	"crewmatch/internal/adapters/kafka"
	"crewmatch/internal/adapters/messaging"
	"crewmatch/internal/adapters/telegram"
	"crewmatch/internal/airports"
	"crewmatch/internal/domain"
	"crewmatch/internal/observability"
	"crewmatch/internal/overnight"
	"crewmatch/internal/repository/postgres"
	"crewmatch/internal/services"
)

// app is the wired object graph shared by the subcommands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *sql.DB
	metrics  *observability.Metrics
	telegram *telegram.Client

	stays   domain.StayService
	crew    domain.CrewService
	summary domain.SummaryService

	closers []func() error
}

// loadConfig loads configuration and the logger, the part every subcommand needs.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, config.NewLogger(), nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// newApp wires repositories, adapters and services from cfg.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*app, error) {
	db, err := openDB(ctx, cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, db: db, metrics: metrics}
	a.closers = append(a.closers, db.Close)

	registry := airports.Default()
	clock := clockwork.NewRealClock()

	stayRepo := postgres.NewStayRepository(db)
	crewRepo := postgres.NewCrewRepository(db)
	ledger := postgres.NewNotificationLedger(db, clock, cfg.ClaimTTL)

	a.telegram = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.APIURL, &http.Client{Timeout: cfg.ContextTimeout})
	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	messenger := messaging.NewRouter().
		Handle(domain.ChannelTelegram, a.telegram).
		Handle(domain.ChannelEmail, email.NewMessenger(mailer, email.NewTemplateRenderer()))

	resolver := services.NewEndpointResolver(crewRepo)
	dispatcher := services.NewNotificationDispatcher(ledger, resolver, messenger, registry, metrics, logger, cfg.DispatchConcurrency)

	deps := services.StayDeps{
		Stays:      stayRepo,
		Crew:       crewRepo,
		Airports:   registry,
		Normalizer: overnight.NewNormalizer(registry, logger),
		Calculator: overnight.NewCalculator(cfg.OvernightThreshold, logger),
		Merger:     overnight.NewMerger(cfg.MergeTolerance, logger),
		Matcher:    services.NewMatchDetector(stayRepo),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		Timeout:    cfg.ContextTimeout,
	}
	if cfg.Extraction.APIKey != "" {
		deps.Extractor = extraction.NewClient(cfg.Extraction.APIURL, cfg.Extraction.APIKey, cfg.Extraction.Model,
			&http.Client{Timeout: cfg.Extraction.Timeout})
	} else {
		logger.Warn("roster extraction disabled: EXTRACTION_API_KEY not set")
	}
	if cfg.Kafka.MatchTopic != "" {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.MatchTopic, logger)
		deps.Publisher = publisher
		a.closers = append(a.closers, publisher.Close)
		logger.Info("match publishing enabled", "topic", cfg.Kafka.MatchTopic, "brokers", cfg.Kafka.Brokers)
	}

	a.stays = services.NewStayService(deps)
	a.crew = services.NewCrewService(crewRepo, registry, cfg.ContextTimeout)
	a.summary = services.NewSummaryService(stayRepo, resolver, messenger, registry, clock, logger, cfg.ContextTimeout)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
