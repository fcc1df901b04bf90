package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
	"stayhub/contexts/stay-marketplace/listing-service/ports"
)

// Store is an in-memory repository for tests and local runs. One RWMutex
// guards all four entity maps so cross-entity invariants (cascades,
// reference checks) hold under concurrency. Uniqueness checks and inserts
// happen inside a single Lock section, mirroring what the SQL adapter gets
// from constraints and transactions.
type Store struct {
	mu sync.RWMutex

	accounts         map[string]entities.Account
	accountIDByEmail map[string]string

	listings map[string]entities.Listing

	reviews                 map[string]entities.Review
	reviewIDByAuthorListing map[string]string

	amenities       map[string]entities.Amenity
	amenityIDByName map[string]string

	idCounter atomic.Int64
}

func NewStore() *Store {
	return &Store{
		accounts:                make(map[string]entities.Account),
		accountIDByEmail:        make(map[string]string),
		listings:                make(map[string]entities.Listing),
		reviews:                 make(map[string]entities.Review),
		reviewIDByAuthorListing: make(map[string]string),
		amenities:               make(map[string]entities.Amenity),
		amenityIDByName:         make(map[string]string),
	}
}

var (
	_ ports.AccountRepository = (*Store)(nil)
	_ ports.ListingRepository = (*Store)(nil)
	_ ports.ReviewRepository  = (*Store)(nil)
	_ ports.AmenityRepository = (*Store)(nil)
	_ ports.Clock             = (*Store)(nil)
	_ ports.IDGenerator       = (*Store)(nil)
)

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("stay_%d", s.idCounter.Add(1)), nil
}

func reviewKey(authorID, listingID string) string {
	return authorID + "\x00" + listingID
}

// --- accounts ---

func (s *Store) CreateAccount(_ context.Context, account entities.Account) (entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accountIDByEmail[account.Email]; exists {
		return entities.Account{}, domainerrors.ErrDuplicateEmail
	}
	s.accounts[account.ID] = account
	s.accountIDByEmail[account.Email] = account.ID
	return account, nil
}

func (s *Store) GetAccount(_ context.Context, id string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return account, nil
}

func (s *Store) GetAccountByEmail(_ context.Context, email string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accountIDByEmail[email]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return s.accounts[id], nil
}

func (s *Store) ListAccounts(_ context.Context) ([]entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]entities.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	sortByCreation(accounts, func(a entities.Account) (time.Time, string) { return a.CreatedAt, a.ID })
	return accounts, nil
}

func (s *Store) UpdateAccount(_ context.Context, account entities.Account) (entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.accounts[account.ID]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	if account.Email != current.Email {
		if ownerID, exists := s.accountIDByEmail[account.Email]; exists && ownerID != account.ID {
			return entities.Account{}, domainerrors.ErrDuplicateEmail
		}
		delete(s.accountIDByEmail, current.Email)
		s.accountIDByEmail[account.Email] = account.ID
	}
	account.CreatedAt = current.CreatedAt
	s.accounts[account.ID] = account
	return account, nil
}

func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	for listingID, listing := range s.listings {
		if listing.OwnerID == id {
			s.dropListingLocked(listingID)
		}
	}
	for reviewID, review := range s.reviews {
		if review.AuthorID == id {
			delete(s.reviewIDByAuthorListing, reviewKey(review.AuthorID, review.ListingID))
			delete(s.reviews, reviewID)
		}
	}
	delete(s.accountIDByEmail, account.Email)
	delete(s.accounts, id)
	return nil
}

// --- listings ---

func (s *Store) CreateListing(_ context.Context, listing entities.Listing) (entities.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[listing.OwnerID]; !ok {
		return entities.Listing{}, domainerrors.ErrAccountNotFound
	}
	for _, amenityID := range listing.AmenityIDs {
		if _, ok := s.amenities[amenityID]; !ok {
			return entities.Listing{}, domainerrors.ErrAmenityNotFound
		}
	}
	s.listings[listing.ID] = cloneListing(listing)
	return listing, nil
}

func (s *Store) GetListing(_ context.Context, id string) (entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listing, ok := s.listings[id]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	return cloneListing(listing), nil
}

func (s *Store) ListListings(_ context.Context) ([]entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listings := make([]entities.Listing, 0, len(s.listings))
	for _, listing := range s.listings {
		listings = append(listings, cloneListing(listing))
	}
	sortByCreation(listings, func(l entities.Listing) (time.Time, string) { return l.CreatedAt, l.ID })
	return listings, nil
}

func (s *Store) UpdateListing(_ context.Context, listing entities.Listing) (entities.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.listings[listing.ID]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	for _, amenityID := range listing.AmenityIDs {
		if _, ok := s.amenities[amenityID]; !ok {
			return entities.Listing{}, domainerrors.ErrAmenityNotFound
		}
	}
	listing.CreatedAt = current.CreatedAt
	listing.OwnerID = current.OwnerID
	s.listings[listing.ID] = cloneListing(listing)
	return listing, nil
}

func (s *Store) DeleteListing(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return domainerrors.ErrListingNotFound
	}
	s.dropListingLocked(id)
	return nil
}

// dropListingLocked removes a listing and its reviews. Callers hold mu.
func (s *Store) dropListingLocked(id string) {
	for reviewID, review := range s.reviews {
		if review.ListingID == id {
			delete(s.reviewIDByAuthorListing, reviewKey(review.AuthorID, review.ListingID))
			delete(s.reviews, reviewID)
		}
	}
	delete(s.listings, id)
}

// --- reviews ---

func (s *Store) CreateReview(_ context.Context, review entities.Review) (entities.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[review.ListingID]; !ok {
		return entities.Review{}, domainerrors.ErrListingNotFound
	}
	if _, ok := s.accounts[review.AuthorID]; !ok {
		return entities.Review{}, domainerrors.ErrAccountNotFound
	}
	key := reviewKey(review.AuthorID, review.ListingID)
	if _, exists := s.reviewIDByAuthorListing[key]; exists {
		return entities.Review{}, domainerrors.ErrDuplicateReview
	}
	s.reviews[review.ID] = review
	s.reviewIDByAuthorListing[key] = review.ID
	return review, nil
}

func (s *Store) GetReview(_ context.Context, id string) (entities.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	review, ok := s.reviews[id]
	if !ok {
		return entities.Review{}, domainerrors.ErrReviewNotFound
	}
	return review, nil
}

func (s *Store) ListReviews(_ context.Context) ([]entities.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reviews := make([]entities.Review, 0, len(s.reviews))
	for _, review := range s.reviews {
		reviews = append(reviews, review)
	}
	sortByCreation(reviews, func(r entities.Review) (time.Time, string) { return r.CreatedAt, r.ID })
	return reviews, nil
}

func (s *Store) ListReviewsByListing(_ context.Context, listingID string) ([]entities.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var reviews []entities.Review
	for _, review := range s.reviews {
		if review.ListingID == listingID {
			reviews = append(reviews, review)
		}
	}
	sortByCreation(reviews, func(r entities.Review) (time.Time, string) { return r.CreatedAt, r.ID })
	return reviews, nil
}

func (s *Store) UpdateReview(_ context.Context, review entities.Review) (entities.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.reviews[review.ID]
	if !ok {
		return entities.Review{}, domainerrors.ErrReviewNotFound
	}
	review.CreatedAt = current.CreatedAt
	review.AuthorID = current.AuthorID
	review.ListingID = current.ListingID
	s.reviews[review.ID] = review
	return review, nil
}

func (s *Store) DeleteReview(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[id]
	if !ok {
		return domainerrors.ErrReviewNotFound
	}
	delete(s.reviewIDByAuthorListing, reviewKey(review.AuthorID, review.ListingID))
	delete(s.reviews, id)
	return nil
}

// --- amenities ---

func (s *Store) CreateAmenity(_ context.Context, amenity entities.Amenity) (entities.Amenity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.amenityIDByName[amenity.Name]; exists {
		return entities.Amenity{}, domainerrors.ErrDuplicateName
	}
	s.amenities[amenity.ID] = amenity
	s.amenityIDByName[amenity.Name] = amenity.ID
	return amenity, nil
}

func (s *Store) GetAmenity(_ context.Context, id string) (entities.Amenity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	amenity, ok := s.amenities[id]
	if !ok {
		return entities.Amenity{}, domainerrors.ErrAmenityNotFound
	}
	return amenity, nil
}

func (s *Store) GetAmenityByName(_ context.Context, name string) (entities.Amenity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.amenityIDByName[name]
	if !ok {
		return entities.Amenity{}, domainerrors.ErrAmenityNotFound
	}
	return s.amenities[id], nil
}

func (s *Store) ListAmenities(_ context.Context) ([]entities.Amenity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	amenities := make([]entities.Amenity, 0, len(s.amenities))
	for _, amenity := range s.amenities {
		amenities = append(amenities, amenity)
	}
	sortByCreation(amenities, func(a entities.Amenity) (time.Time, string) { return a.CreatedAt, a.ID })
	return amenities, nil
}

func (s *Store) UpdateAmenity(_ context.Context, amenity entities.Amenity) (entities.Amenity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.amenities[amenity.ID]
	if !ok {
		return entities.Amenity{}, domainerrors.ErrAmenityNotFound
	}
	if amenity.Name != current.Name {
		if ownerID, exists := s.amenityIDByName[amenity.Name]; exists && ownerID != amenity.ID {
			return entities.Amenity{}, domainerrors.ErrDuplicateName
		}
		delete(s.amenityIDByName, current.Name)
		s.amenityIDByName[amenity.Name] = amenity.ID
	}
	amenity.CreatedAt = current.CreatedAt
	s.amenities[amenity.ID] = amenity
	return amenity, nil
}

func (s *Store) DeleteAmenity(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	amenity, ok := s.amenities[id]
	if !ok {
		return domainerrors.ErrAmenityNotFound
	}
	for listingID, listing := range s.listings {
		kept := listing.AmenityIDs[:0:0]
		for _, amenityID := range listing.AmenityIDs {
			if amenityID != id {
				kept = append(kept, amenityID)
			}
		}
		if len(kept) != len(listing.AmenityIDs) {
			listing.AmenityIDs = kept
			s.listings[listingID] = listing
		}
	}
	delete(s.amenityIDByName, amenity.Name)
	delete(s.amenities, id)
	return nil
}

func cloneListing(listing entities.Listing) entities.Listing {
	listing.AmenityIDs = append([]string(nil), listing.AmenityIDs...)
	return listing
}

func sortByCreation[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti.Equal(tj) {
			return idi < idj
		}
		return ti.Before(tj)
	})
}
