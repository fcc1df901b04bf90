package listingservice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	bcryptadapter "stayhub/contexts/stay-marketplace/listing-service/adapters/bcrypt"
	httpadapter "stayhub/contexts/stay-marketplace/listing-service/adapters/http"
	jwtadapter "stayhub/contexts/stay-marketplace/listing-service/adapters/jwt"
	"stayhub/contexts/stay-marketplace/listing-service/adapters/memory"
	"stayhub/contexts/stay-marketplace/listing-service/application"
	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
	"stayhub/contexts/stay-marketplace/listing-service/ports"
)

// Module is the listing-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Accounts    ports.AccountRepository
	Listings    ports.ListingRepository
	Reviews     ports.ReviewRepository
	Amenities   ports.AmenityRepository
	Tokens      ports.TokenService
	Passwords   ports.PasswordHasher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	TokenTTL    time.Duration
	Events      ports.EventPublisher
	Logger      *slog.Logger
}

// NewModule wires the facade and transport handler using explicit ports.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Accounts:  deps.Accounts,
		Listings:  deps.Listings,
		Reviews:   deps.Reviews,
		Amenities: deps.Amenities,
		Tokens:    deps.Tokens,
		Passwords: deps.Passwords,
		Clock:     deps.Clock,
		IDs:       deps.IDGenerator,
		TokenTTL:  deps.TokenTTL,
		Events:    deps.Events,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters and a low bcrypt cost.
func NewInMemoryModule(tokenSecret []byte, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Accounts:    store,
		Listings:    store,
		Reviews:     store,
		Amenities:   store,
		Tokens:      jwtadapter.NewTokenService(tokenSecret),
		Passwords:   bcryptadapter.Hasher{Cost: 4},
		Clock:       store,
		IDGenerator: store,
		TokenTTL:    24 * time.Hour,
		Logger:      logger,
	})
	module.Store = store
	return module
}

// SeedAdmin ensures an administrator account exists. It writes through the
// repository port directly because the facade's account creation requires an
// admin token, which cannot exist before the first admin does. An already
// seeded email is not an error.
func SeedAdmin(ctx context.Context, deps Dependencies, firstName, lastName, email, password string) (entities.Account, error) {
	if existing, err := deps.Accounts.GetAccountByEmail(ctx, email); err == nil {
		return existing, nil
	} else if !errors.Is(err, domainerrors.ErrAccountNotFound) {
		return entities.Account{}, err
	}
	hash, err := deps.Passwords.Hash(password)
	if err != nil {
		return entities.Account{}, err
	}
	id, err := deps.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Account{}, err
	}
	now := time.Now().UTC()
	if deps.Clock != nil {
		now = deps.Clock.Now()
	}
	account, err := entities.NewAccount(id, now, firstName, lastName, email, hash, true)
	if err != nil {
		return entities.Account{}, err
	}
	created, err := deps.Accounts.CreateAccount(ctx, account)
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateEmail) {
			return deps.Accounts.GetAccountByEmail(ctx, email)
		}
		return entities.Account{}, err
	}
	return created, nil
}
