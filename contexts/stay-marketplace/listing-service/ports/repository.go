package ports

import (
	"context"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
)

// Repository contracts. All Create methods perform their uniqueness and
// reference checks atomically with the insert: concurrent duplicates resolve
// to exactly one winner, the rest receive the matching conflict error.
// Delete methods cascade atomically (an account takes its listings and
// reviews, a listing takes its reviews, an amenity detaches from listings).

type AccountRepository interface {
	CreateAccount(ctx context.Context, account entities.Account) (entities.Account, error)
	GetAccount(ctx context.Context, id string) (entities.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (entities.Account, error)
	ListAccounts(ctx context.Context) ([]entities.Account, error)
	UpdateAccount(ctx context.Context, account entities.Account) (entities.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

type ListingRepository interface {
	CreateListing(ctx context.Context, listing entities.Listing) (entities.Listing, error)
	GetListing(ctx context.Context, id string) (entities.Listing, error)
	ListListings(ctx context.Context) ([]entities.Listing, error)
	UpdateListing(ctx context.Context, listing entities.Listing) (entities.Listing, error)
	DeleteListing(ctx context.Context, id string) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review entities.Review) (entities.Review, error)
	GetReview(ctx context.Context, id string) (entities.Review, error)
	ListReviews(ctx context.Context) ([]entities.Review, error)
	ListReviewsByListing(ctx context.Context, listingID string) ([]entities.Review, error)
	UpdateReview(ctx context.Context, review entities.Review) (entities.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

type AmenityRepository interface {
	CreateAmenity(ctx context.Context, amenity entities.Amenity) (entities.Amenity, error)
	GetAmenity(ctx context.Context, id string) (entities.Amenity, error)
	GetAmenityByName(ctx context.Context, name string) (entities.Amenity, error)
	ListAmenities(ctx context.Context) ([]entities.Amenity, error)
	UpdateAmenity(ctx context.Context, amenity entities.Amenity) (entities.Amenity, error)
	DeleteAmenity(ctx context.Context, id string) error
}
