package entities

import "time"

// Base carries the identity and audit timestamps shared by every entity.
// Entities embed it by value; identifiers and CreatedAt never change after
// construction.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBase(id string, now time.Time) Base {
	now = now.UTC()
	return Base{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Touch refreshes UpdatedAt after a successful mutation.
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}

// Principal is the caller identity resolved from a verified access token.
// A zero Principal represents an anonymous caller.
type Principal struct {
	AccountID string
	IsAdmin   bool
}
