package ports

import (
	"context"
	"time"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
)

// Clock abstracts wall time so the application layer stays deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator issues identifiers for new entities.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// TokenService mints and verifies the signed access token carried by
// callers. Verify maps every failure to one of the token sentinel errors.
type TokenService interface {
	Issue(principal entities.Principal, ttl time.Duration) (string, error)
	Verify(token string) (entities.Principal, error)
}

// PasswordHasher hides the credential digest algorithm from the application
// layer. Verify reports a match without revealing why a mismatch occurred.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
