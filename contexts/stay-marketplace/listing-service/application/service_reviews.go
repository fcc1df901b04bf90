package application

import (
	"context"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	"stayhub/contexts/stay-marketplace/listing-service/domain/services"
)

type CreateReviewInput struct {
	Text      string
	Rating    int
	ListingID string
}

// CreateReview creates a review authored by the caller. Self-reviews and
// duplicate reviews are rejected; the duplicate check is committed atomically
// by the repository.
func (s Service) CreateReview(ctx context.Context, token string, input CreateReviewInput) (entities.Review, error) {
	p, err := s.principal(token)
	if err != nil {
		return entities.Review{}, err
	}
	resource := services.Resource{Kind: services.ResourceReview, OwnerID: p.AccountID}
	if err := services.Authorize(p, services.ActionCreate, resource); err != nil {
		return entities.Review{}, err
	}
	listing, err := s.Listings.GetListing(ctx, input.ListingID)
	if err != nil {
		return entities.Review{}, err
	}
	if err := services.CheckReviewAuthor(p.AccountID, listing); err != nil {
		return entities.Review{}, err
	}
	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Review{}, err
	}
	review, err := entities.NewReview(id, s.now(), input.Text, input.Rating, listing.ID, p.AccountID)
	if err != nil {
		return entities.Review{}, err
	}
	created, err := s.Reviews.CreateReview(ctx, review)
	if err != nil {
		return entities.Review{}, err
	}
	ResolveLogger(s.Logger).Info("review created",
		"event", "review_created",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"review_id", created.ID,
		"listing_id", created.ListingID,
	)
	s.publish(ctx, "review_created", "review", created.ID, created)
	return created, nil
}

func (s Service) GetReview(ctx context.Context, id string) (entities.Review, error) {
	return s.Reviews.GetReview(ctx, id)
}

func (s Service) ListReviews(ctx context.Context) ([]entities.Review, error) {
	return s.Reviews.ListReviews(ctx)
}

// ListReviewsByListing returns the reviews of one listing; unknown listings
// are a not-found, not an empty list.
func (s Service) ListReviewsByListing(ctx context.Context, listingID string) ([]entities.Review, error) {
	if _, err := s.Listings.GetListing(ctx, listingID); err != nil {
		return nil, err
	}
	return s.Reviews.ListReviewsByListing(ctx, listingID)
}

func (s Service) UpdateReview(ctx context.Context, token, id string, patch entities.ReviewPatch) (entities.Review, error) {
	p, err := s.principal(token)
	if err != nil {
		return entities.Review{}, err
	}
	review, err := s.Reviews.GetReview(ctx, id)
	if err != nil {
		return entities.Review{}, err
	}
	resource := services.Resource{Kind: services.ResourceReview, ID: review.ID, OwnerID: review.AuthorID}
	if err := services.Authorize(p, services.ActionUpdate, resource); err != nil {
		return entities.Review{}, err
	}
	if err := entities.ApplyReviewPatch(&review, patch, s.now()); err != nil {
		return entities.Review{}, err
	}
	updated, err := s.Reviews.UpdateReview(ctx, review)
	if err != nil {
		return entities.Review{}, err
	}
	ResolveLogger(s.Logger).Info("review updated",
		"event", "review_updated",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"review_id", updated.ID,
	)
	s.publish(ctx, "review_updated", "review", updated.ID, updated)
	return updated, nil
}

func (s Service) DeleteReview(ctx context.Context, token, id string) error {
	p, err := s.principal(token)
	if err != nil {
		return err
	}
	review, err := s.Reviews.GetReview(ctx, id)
	if err != nil {
		return err
	}
	resource := services.Resource{Kind: services.ResourceReview, ID: review.ID, OwnerID: review.AuthorID}
	if err := services.Authorize(p, services.ActionDelete, resource); err != nil {
		return err
	}
	if err := s.Reviews.DeleteReview(ctx, id); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("review deleted",
		"event", "review_deleted",
		"module", "stay-marketplace/listing-service",
		"layer", "application",
		"review_id", id,
	)
	s.publish(ctx, "review_deleted", "review", id, nil)
	return nil
}
