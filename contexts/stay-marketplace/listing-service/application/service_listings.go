package application

import (
	"context"
	"fmt"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	"stayhub/contexts/stay-marketplace/listing-service/domain/services"
)

type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	Latitude    float64
	Longitude   float64
	AmenityIDs  []string
}

// CreateListing creates a listing owned by the caller. The owner is always
// the authenticated principal; the payload cannot name someone else.
func (s Service) CreateListing(ctx context.Context, token string, input CreateListingInput) (entities.Listing, error) {
	p, err := s.principal(token)
	if err != nil {
		return entities.Listing{}, err
	}
	resource := services.Resource{Kind: services.ResourceListing, OwnerID: p.AccountID}
	if err := services.Authorize(p, services.ActionCreate, resource); err != nil {
		return entities.Listing{}, err
	}
	if _, err := s.Accounts.GetAccount(ctx, p.AccountID); err != nil {
		return entities.Listing{}, err
	}
	if err := s.ensureAmenitiesExist(ctx, input.AmenityIDs); err != nil {
		return entities.Listing{}, err
	}
	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	listing, err := entities.NewListing(id, s.now(), input.Title, input.Description, input.Price, input.Latitude, input.Longitude, p.AccountID, input.AmenityIDs)
	if err != nil {
		return entities.Listing{}, err
	}
	created, err := s.Listings.CreateListing(ctx, listing)
	if err != nil {
		return entities.Listing{}, err
	}
	ResolveLogger(s.Logger).Info("listing created",
		"event", "listing_created",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"listing_id", created.ID,
		"owner_id", created.OwnerID,
	)
	s.publish(ctx, "listing_created", "listing", created.ID, created)
	return created, nil
}

func (s Service) GetListing(ctx context.Context, id string) (entities.Listing, error) {
	return s.Listings.GetListing(ctx, id)
}

func (s Service) ListListings(ctx context.Context) ([]entities.Listing, error) {
	return s.Listings.ListListings(ctx)
}

func (s Service) UpdateListing(ctx context.Context, token, id string, patch entities.ListingPatch) (entities.Listing, error) {
	p, err := s.principal(token)
	if err != nil {
		return entities.Listing{}, err
	}
	listing, err := s.Listings.GetListing(ctx, id)
	if err != nil {
		return entities.Listing{}, err
	}
	resource := services.Resource{Kind: services.ResourceListing, ID: listing.ID, OwnerID: listing.OwnerID}
	if err := services.Authorize(p, services.ActionUpdate, resource); err != nil {
		return entities.Listing{}, err
	}
	if patch.AmenityIDs != nil {
		if err := s.ensureAmenitiesExist(ctx, *patch.AmenityIDs); err != nil {
			return entities.Listing{}, err
		}
	}
	if err := entities.ApplyListingPatch(&listing, patch, s.now()); err != nil {
		return entities.Listing{}, err
	}
	updated, err := s.Listings.UpdateListing(ctx, listing)
	if err != nil {
		return entities.Listing{}, err
	}
	ResolveLogger(s.Logger).Info("listing updated",
		"event", "listing_updated",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"listing_id", updated.ID,
	)
	s.publish(ctx, "listing_updated", "listing", updated.ID, updated)
	return updated, nil
}

// DeleteListing removes the listing and its reviews in one repository call.
func (s Service) DeleteListing(ctx context.Context, token, id string) error {
	p, err := s.principal(token)
	if err != nil {
		return err
	}
	listing, err := s.Listings.GetListing(ctx, id)
	if err != nil {
		return err
	}
	resource := services.Resource{Kind: services.ResourceListing, ID: listing.ID, OwnerID: listing.OwnerID}
	if err := services.Authorize(p, services.ActionDelete, resource); err != nil {
		return err
	}
	if err := s.Listings.DeleteListing(ctx, id); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("listing deleted",
		"event", "listing_deleted",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"listing_id", id,
	)
	s.publish(ctx, "listing_deleted", "listing", id, nil)
	return nil
}

func (s Service) ensureAmenitiesExist(ctx context.Context, amenityIDs []string) error {
	for _, amenityID := range amenityIDs {
		if _, err := s.Amenities.GetAmenity(ctx, amenityID); err != nil {
			return fmt.Errorf("amenity %s: %w", amenityID, err)
		}
	}
	return nil
}
