package entities

import (
	"strings"
	"time"
)

// Account is a registered user of the marketplace. PasswordHash is an opaque
// credential digest; it is never serialized outward and never compared
// directly against plaintext outside the password hasher.
type Account struct {
	Base
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"is_admin"`
}

func NewAccount(id string, now time.Time, firstName, lastName, email, passwordHash string, isAdmin bool) (Account, error) {
	email = strings.TrimSpace(email)
	if err := requireName("first_name", firstName); err != nil {
		return Account{}, err
	}
	if err := requireName("last_name", lastName); err != nil {
		return Account{}, err
	}
	if err := requireEmail(email); err != nil {
		return Account{}, err
	}
	if err := requireNonEmpty("password", passwordHash); err != nil {
		return Account{}, err
	}
	return Account{
		Base:         NewBase(id, now),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}, nil
}

// AccountPatch is a partial update. Nil fields are left untouched. Password
// changes are handled by the application layer because hashing is not a
// domain concern.
type AccountPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	IsAdmin   *bool
}

// ApplyAccountPatch validates and applies the present fields in place.
// ID and CreatedAt are immutable and not representable in the patch.
func ApplyAccountPatch(account *Account, patch AccountPatch, now time.Time) error {
	if patch.FirstName != nil {
		if err := requireName("first_name", *patch.FirstName); err != nil {
			return err
		}
	}
	if patch.LastName != nil {
		if err := requireName("last_name", *patch.LastName); err != nil {
			return err
		}
	}
	if patch.Email != nil {
		trimmed := strings.TrimSpace(*patch.Email)
		if err := requireEmail(trimmed); err != nil {
			return err
		}
		patch.Email = &trimmed
	}
	if patch.FirstName != nil {
		account.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		account.LastName = *patch.LastName
	}
	if patch.Email != nil {
		account.Email = *patch.Email
	}
	if patch.IsAdmin != nil {
		account.IsAdmin = *patch.IsAdmin
	}
	account.Touch(now)
	return nil
}
