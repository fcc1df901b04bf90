package services

import (
	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
)

// CheckReviewAuthor rejects reviews written by the listing's own owner.
// The rule holds for every principal, admins included.
func CheckReviewAuthor(authorID string, listing entities.Listing) error {
	if authorID == listing.OwnerID {
		return domainerrors.ErrOwnerReview
	}
	return nil
}
