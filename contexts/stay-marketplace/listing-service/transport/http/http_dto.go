package httptransport

import "time"

// LoginRequest is the credential exchange body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// AccountDTO is the outward shape of an account. The password hash never
// leaves the service.
type AccountDTO struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAccountRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

// UpdateAccountRequest carries a partial update; absent fields stay as they
// are. Email, password and is_admin are admin-only for other callers.
type UpdateAccountRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	IsAdmin   *bool   `json:"is_admin,omitempty"`
}

type ListAccountsResponse struct {
	Accounts []AccountDTO `json:"accounts"`
}

type ListingDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	OwnerID     string    `json:"owner_id"`
	AmenityIDs  []string  `json:"amenity_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateListingRequest has no owner field: the owner is always the caller.
type CreateListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	AmenityIDs  []string `json:"amenity_ids,omitempty"`
}

type UpdateListingRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	AmenityIDs  *[]string `json:"amenity_ids,omitempty"`
}

type ListListingsResponse struct {
	Listings []ListingDTO `json:"listings"`
}

type ReviewDTO struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	ListingID string    `json:"listing_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateReviewRequest has no author field: the author is always the caller.
type CreateReviewRequest struct {
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	ListingID string `json:"listing_id"`
}

type UpdateReviewRequest struct {
	Text   *string `json:"text,omitempty"`
	Rating *int    `json:"rating,omitempty"`
}

type ListReviewsResponse struct {
	Reviews []ReviewDTO `json:"reviews"`
}

type AmenityDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAmenityRequest struct {
	Name string `json:"name"`
}

type UpdateAmenityRequest struct {
	Name *string `json:"name,omitempty"`
}

type ListAmenitiesResponse struct {
	Amenities []AmenityDTO `json:"amenities"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
