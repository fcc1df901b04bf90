package entities

import (
	"time"

	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
)

// Listing is a stay offered by an account. AmenityIDs reference Amenity
// entities; existence of the references is checked by the application layer
// and re-checked atomically by the repository.
type Listing struct {
	Base
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	OwnerID     string   `json:"owner_id"`
	AmenityIDs  []string `json:"amenity_ids"`
}

func NewListing(id string, now time.Time, title, description string, price, latitude, longitude float64, ownerID string, amenityIDs []string) (Listing, error) {
	if err := requireTitle("title", title); err != nil {
		return Listing{}, err
	}
	if err := validateListingNumbers(price, latitude, longitude); err != nil {
		return Listing{}, err
	}
	if ownerID == "" {
		return Listing{}, domainerrors.ValidationError{Field: "owner_id", Reason: "must not be empty"}
	}
	return Listing{
		Base:        NewBase(id, now),
		Title:       title,
		Description: description,
		Price:       price,
		Latitude:    latitude,
		Longitude:   longitude,
		OwnerID:     ownerID,
		AmenityIDs:  append([]string(nil), amenityIDs...),
	}, nil
}

// ListingPatch is a partial update. There is no OwnerID field: a listing
// never changes hands.
type ListingPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
	AmenityIDs  *[]string
}

func ApplyListingPatch(listing *Listing, patch ListingPatch, now time.Time) error {
	if patch.Title != nil {
		if err := requireTitle("title", *patch.Title); err != nil {
			return err
		}
	}
	price := listing.Price
	latitude := listing.Latitude
	longitude := listing.Longitude
	if patch.Price != nil {
		price = *patch.Price
	}
	if patch.Latitude != nil {
		latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		longitude = *patch.Longitude
	}
	if err := validateListingNumbers(price, latitude, longitude); err != nil {
		return err
	}
	if patch.Title != nil {
		listing.Title = *patch.Title
	}
	if patch.Description != nil {
		listing.Description = *patch.Description
	}
	listing.Price = price
	listing.Latitude = latitude
	listing.Longitude = longitude
	if patch.AmenityIDs != nil {
		listing.AmenityIDs = append([]string(nil), (*patch.AmenityIDs)...)
	}
	listing.Touch(now)
	return nil
}

func validateListingNumbers(price, latitude, longitude float64) error {
	if price < 0 {
		return domainerrors.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if latitude < -90 || latitude > 90 {
		return domainerrors.ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	}
	if longitude < -180 || longitude > 180 {
		return domainerrors.ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	}
	return nil
}
