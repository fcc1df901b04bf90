package bcryptadapter

import (
	"stayhub/contexts/stay-marketplace/listing-service/ports"

	"golang.org/x/crypto/bcrypt"
)

// Hasher implements ports.PasswordHasher with bcrypt. A zero Cost uses the
// library default.
type Hasher struct {
	Cost int
}

var _ ports.PasswordHasher = Hasher{}

func (h Hasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
