package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
	"stayhub/contexts/stay-marketplace/listing-service/ports"
)

const defaultTokenTTL = 24 * time.Hour

const sourceService = "listing-service"

// Service is the single entry point for every marketplace operation. Each
// command resolves the caller's principal from the raw token, consults the
// authorization guard, applies business rules, and commits through a
// repository port. Handlers never reach around it.
type Service struct {
	Accounts  ports.AccountRepository
	Listings  ports.ListingRepository
	Reviews   ports.ReviewRepository
	Amenities ports.AmenityRepository
	Tokens    ports.TokenService
	Passwords ports.PasswordHasher
	Clock     ports.Clock
	IDs       ports.IDGenerator
	TokenTTL  time.Duration
	Events    ports.EventPublisher
	Logger    *slog.Logger
}

// Login exchanges credentials for a signed access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	account, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return "", domainerrors.ErrInvalidCredentials
		}
		return "", err
	}
	if !s.Passwords.Verify(password, account.PasswordHash) {
		return "", domainerrors.ErrInvalidCredentials
	}
	token, err := s.Tokens.Issue(entities.Principal{AccountID: account.ID, IsAdmin: account.IsAdmin}, s.tokenTTL())
	if err != nil {
		return "", err
	}
	ResolveLogger(s.Logger).Info("login succeeded",
		"event", "login_succeeded",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"account_id", account.ID,
	)
	return token, nil
}

// principal verifies the raw token. Token errors pass through unchanged so
// the transport layer can distinguish expiry from tampering.
func (s Service) principal(token string) (entities.Principal, error) {
	return s.Tokens.Verify(token)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) tokenTTL() time.Duration {
	if s.TokenTTL <= 0 {
		return defaultTokenTTL
	}
	return s.TokenTTL
}

// publish emits a lifecycle event after a commit. No publisher wired means
// no events; a publish failure is logged and swallowed.
func (s Service) publish(ctx context.Context, eventType, entityType, entityID string, payload any) {
	if s.Events == nil {
		return
	}
	id, err := s.IDs.NewID(ctx)
	if err != nil {
		id = entityID
	}
	envelope := ports.EventEnvelope{
		EventID:        id,
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  s.now(),
		EntityType:     entityType,
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        payload,
	}
	if err := s.Events.Publish(ctx, ports.EventsTopic, envelope); err != nil {
		ResolveLogger(s.Logger).Warn("event publish failed",
			"event", "event_publish_failed",
			"module", "stay-marketplace/listing-service",
			"layer", "application",
			"event_type", eventType,
			"entity_id", entityID,
			"error", err.Error(),
		)
	}
}
