package entities

import (
	"time"

	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
)

// Review is an account's rating of a listing. The (AuthorID, ListingID) pair
// is unique; the repository enforces it atomically on insert.
type Review struct {
	Base
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	ListingID string `json:"listing_id"`
	AuthorID  string `json:"author_id"`
}

func NewReview(id string, now time.Time, text string, rating int, listingID, authorID string) (Review, error) {
	if err := requireNonEmpty("text", text); err != nil {
		return Review{}, err
	}
	if err := validateRating(rating); err != nil {
		return Review{}, err
	}
	if listingID == "" {
		return Review{}, domainerrors.ValidationError{Field: "listing_id", Reason: "must not be empty"}
	}
	if authorID == "" {
		return Review{}, domainerrors.ValidationError{Field: "author_id", Reason: "must not be empty"}
	}
	return Review{
		Base:      NewBase(id, now),
		Text:      text,
		Rating:    rating,
		ListingID: listingID,
		AuthorID:  authorID,
	}, nil
}

// ReviewPatch is a partial update. AuthorID and ListingID are immutable: a
// review cannot be moved to another listing or reattributed.
type ReviewPatch struct {
	Text   *string
	Rating *int
}

func ApplyReviewPatch(review *Review, patch ReviewPatch, now time.Time) error {
	if patch.Text != nil {
		if err := requireNonEmpty("text", *patch.Text); err != nil {
			return err
		}
	}
	if patch.Rating != nil {
		if err := validateRating(*patch.Rating); err != nil {
			return err
		}
	}
	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Rating != nil {
		review.Rating = *patch.Rating
	}
	review.Touch(now)
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return domainerrors.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	return nil
}
