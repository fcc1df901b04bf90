package entities

import "time"

// Amenity is a catalog entry attachable to listings. Name is unique; the
// repository enforces it atomically on insert and update.
type Amenity struct {
	Base
	Name string `json:"name"`
}

func NewAmenity(id string, now time.Time, name string) (Amenity, error) {
	if err := requireName("name", name); err != nil {
		return Amenity{}, err
	}
	return Amenity{Base: NewBase(id, now), Name: name}, nil
}

type AmenityPatch struct {
	Name *string
}

func ApplyAmenityPatch(amenity *Amenity, patch AmenityPatch, now time.Time) error {
	if patch.Name != nil {
		if err := requireName("name", *patch.Name); err != nil {
			return err
		}
		amenity.Name = *patch.Name
	}
	amenity.Touch(now)
	return nil
}
