package postgresadapter

import (
	"time"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
)

type accountModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Email        string    `gorm:"column:email;uniqueIndex:accounts_unique_email"`
	PasswordHash string    `gorm:"column:password_hash"`
	IsAdmin      bool      `gorm:"column:is_admin"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "accounts" }

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		Base: entities.Base{
			ID:        m.ID,
			CreatedAt: m.CreatedAt.UTC(),
			UpdatedAt: m.UpdatedAt.UTC(),
		},
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
	}
}

func accountRow(a entities.Account) accountModel {
	return accountModel{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		IsAdmin:      a.IsAdmin,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

type listingModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Price       float64   `gorm:"column:price"`
	Latitude    float64   `gorm:"column:latitude"`
	Longitude   float64   `gorm:"column:longitude"`
	OwnerID     string    `gorm:"column:owner_id;index:listings_owner_idx"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (listingModel) TableName() string { return "listings" }

func (m listingModel) toEntity(amenityIDs []string) entities.Listing {
	return entities.Listing{
		Base: entities.Base{
			ID:        m.ID,
			CreatedAt: m.CreatedAt.UTC(),
			UpdatedAt: m.UpdatedAt.UTC(),
		},
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		OwnerID:     m.OwnerID,
		AmenityIDs:  amenityIDs,
	}
}

func listingRow(l entities.Listing) listingModel {
	return listingModel{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		OwnerID:     l.OwnerID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// listingAmenityModel is the join table between listings and amenities.
type listingAmenityModel struct {
	ListingID string `gorm:"column:listing_id;primaryKey"`
	AmenityID string `gorm:"column:amenity_id;primaryKey;index:listing_amenities_amenity_idx"`
}

func (listingAmenityModel) TableName() string { return "listing_amenities" }

type reviewModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Text      string    `gorm:"column:text"`
	Rating    int       `gorm:"column:rating"`
	ListingID string    `gorm:"column:listing_id;uniqueIndex:reviews_unique_author_listing;index:reviews_listing_idx"`
	AuthorID  string    `gorm:"column:author_id;uniqueIndex:reviews_unique_author_listing"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func (m reviewModel) toEntity() entities.Review {
	return entities.Review{
		Base: entities.Base{
			ID:        m.ID,
			CreatedAt: m.CreatedAt.UTC(),
			UpdatedAt: m.UpdatedAt.UTC(),
		},
		Text:      m.Text,
		Rating:    m.Rating,
		ListingID: m.ListingID,
		AuthorID:  m.AuthorID,
	}
}

func reviewRow(r entities.Review) reviewModel {
	return reviewModel{
		ID:        r.ID,
		Text:      r.Text,
		Rating:    r.Rating,
		ListingID: r.ListingID,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type amenityModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex:amenities_unique_name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (amenityModel) TableName() string { return "amenities" }

func (m amenityModel) toEntity() entities.Amenity {
	return entities.Amenity{
		Base: entities.Base{
			ID:        m.ID,
			CreatedAt: m.CreatedAt.UTC(),
			UpdatedAt: m.UpdatedAt.UTC(),
		},
		Name: m.Name,
	}
}

func amenityRow(a entities.Amenity) amenityModel {
	return amenityModel{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
