package services

import (
	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type ResourceKind string

const (
	ResourceAccount ResourceKind = "account"
	ResourceListing ResourceKind = "listing"
	ResourceReview  ResourceKind = "review"
	ResourceAmenity ResourceKind = "amenity"
)

// Resource is the snapshot the guard decides on. OwnerID is the owning
// account: the account's own id for accounts, OwnerID for listings, AuthorID
// for reviews. Amenities have no owner.
type Resource struct {
	Kind    ResourceKind
	ID      string
	OwnerID string
}

// Authorize evaluates the access policy in precedence order; the first
// matching rule wins.
//
//  1. admins may do anything
//  2. reads are public
//  3. accounts: creation is admin-only, other mutations self-only
//  4. listings and reviews: mutations owner-only
//  5. amenities: mutations admin-only
//
// The guard decides access, never existence: not-found checks happen before
// it is consulted.
func Authorize(p entities.Principal, action Action, r Resource) error {
	if p.IsAdmin {
		return nil
	}
	if action == ActionRead {
		return nil
	}
	switch r.Kind {
	case ResourceAccount:
		if action == ActionCreate {
			return domainerrors.ErrAdminRequired
		}
		if p.AccountID != "" && p.AccountID == r.OwnerID {
			return nil
		}
		return domainerrors.ErrNotOwner
	case ResourceListing, ResourceReview:
		if p.AccountID != "" && p.AccountID == r.OwnerID {
			return nil
		}
		return domainerrors.ErrNotOwner
	case ResourceAmenity:
		return domainerrors.ErrAdminRequired
	}
	return domainerrors.ErrForbidden
}

// AuthorizeAccountPatch layers the restricted-field rule on top of Authorize:
// a non-admin may update their own account but may not change email, password
// or the admin flag.
func AuthorizeAccountPatch(p entities.Principal, r Resource, touchesEmail, touchesPassword, touchesAdmin bool) error {
	if err := Authorize(p, ActionUpdate, r); err != nil {
		return err
	}
	if p.IsAdmin {
		return nil
	}
	if touchesEmail || touchesPassword || touchesAdmin {
		return domainerrors.ErrRestrictedField
	}
	return nil
}
