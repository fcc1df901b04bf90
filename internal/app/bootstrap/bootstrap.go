package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	listingservice "stayhub/contexts/stay-marketplace/listing-service"
	bcryptadapter "stayhub/contexts/stay-marketplace/listing-service/adapters/bcrypt"
	jwtadapter "stayhub/contexts/stay-marketplace/listing-service/adapters/jwt"
	"stayhub/contexts/stay-marketplace/listing-service/adapters/memory"
	postgresadapter "stayhub/contexts/stay-marketplace/listing-service/adapters/postgres"
	"stayhub/contexts/stay-marketplace/listing-service/ports"
	"stayhub/internal/platform/config"
	"stayhub/internal/platform/db"
	"stayhub/internal/platform/httpserver"
	"stayhub/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}
	if err := bus.Subscribe(context.Background(), ports.EventsTopic, "listing-service-audit", auditEvent(logger)); err != nil {
		return nil, err
	}

	var (
		pg     *db.Postgres
		module listingservice.Module
	)
	deps := listingservice.Dependencies{
		Tokens:    jwtadapter.NewTokenService([]byte(cfg.TokenSecret)),
		Passwords: bcryptadapter.Hasher{},
		TokenTTL:  cfg.TokenTTL,
		Events:    bus,
		Logger:    logger,
	}

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		// No DSN means local development against the in-memory store.
		logger.Warn("no postgres dsn configured, using in-memory store",
			"event", "bootstrap_memory_store",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		store := memory.NewStore()
		deps.Accounts = store
		deps.Listings = store
		deps.Reviews = store
		deps.Amenities = store
		deps.Clock = store
		deps.IDGenerator = store
		module = listingservice.NewModule(deps)
		module.Store = store
	} else {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgresadapter.Migrate(pg.DB); err != nil {
				_ = pg.Close()
				return nil, err
			}
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		deps.Accounts = repo
		deps.Listings = repo
		deps.Reviews = repo
		deps.Amenities = repo
		deps.Clock = postgresadapter.SystemClock{}
		deps.IDGenerator = postgresadapter.UUIDGenerator{}
		module = listingservice.NewModule(deps)
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		admin, err := listingservice.SeedAdmin(context.Background(), deps, cfg.AdminFirstName, cfg.AdminLastName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			if pg != nil {
				_ = pg.Close()
			}
			return nil, err
		}
		logger.Info("admin account ready",
			"event", "bootstrap_admin_seeded",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"account_id", admin.ID,
		)
	}

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// auditEvent writes every lifecycle event to the structured log. The audit
// trail is the bus's first consumer; downstream services attach the same way.
func auditEvent(logger *slog.Logger) func(context.Context, ports.EventEnvelope) error {
	return func(_ context.Context, event ports.EventEnvelope) error {
		logger.Info("domain event",
			"event", "audit_domain_event",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"entity_type", event.EntityType,
			"entity_id", event.EntityID,
		)
		return nil
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
