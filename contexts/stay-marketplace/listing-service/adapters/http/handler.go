package httpadapter

import (
	"context"
	"log/slog"

	"stayhub/contexts/stay-marketplace/listing-service/application"
	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	httptransport "stayhub/contexts/stay-marketplace/listing-service/transport/http"
)

// Handler maps HTTP DTOs to facade calls. It performs no authorization of
// its own; the raw bearer token is passed through and resolved inside the
// application layer.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) LoginHandler(ctx context.Context, request httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	token, err := h.Service.Login(ctx, request.Email, request.Password)
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("http login rejected",
			"event", "http_login_rejected",
			"module", "stay-marketplace/listing-service",
			"layer", "transport",
		)
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{AccessToken: token}, nil
}

// --- accounts ---

func (h Handler) CreateAccountHandler(ctx context.Context, token string, request httptransport.CreateAccountRequest) (httptransport.AccountDTO, error) {
	account, err := h.Service.CreateAccount(ctx, token, application.CreateAccountInput{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Email:     request.Email,
		Password:  request.Password,
		IsAdmin:   request.IsAdmin,
	})
	if err != nil {
		return httptransport.AccountDTO{}, err
	}
	return accountDTO(account), nil
}

func (h Handler) GetAccountHandler(ctx context.Context, id string) (httptransport.AccountDTO, error) {
	account, err := h.Service.GetAccount(ctx, id)
	if err != nil {
		return httptransport.AccountDTO{}, err
	}
	return accountDTO(account), nil
}

func (h Handler) ListAccountsHandler(ctx context.Context) (httptransport.ListAccountsResponse, error) {
	accounts, err := h.Service.ListAccounts(ctx)
	if err != nil {
		return httptransport.ListAccountsResponse{}, err
	}
	response := httptransport.ListAccountsResponse{Accounts: make([]httptransport.AccountDTO, 0, len(accounts))}
	for _, account := range accounts {
		response.Accounts = append(response.Accounts, accountDTO(account))
	}
	return response, nil
}

func (h Handler) UpdateAccountHandler(ctx context.Context, token, id string, request httptransport.UpdateAccountRequest) (httptransport.AccountDTO, error) {
	account, err := h.Service.UpdateAccount(ctx, token, id, application.UpdateAccountInput{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Email:     request.Email,
		Password:  request.Password,
		IsAdmin:   request.IsAdmin,
	})
	if err != nil {
		return httptransport.AccountDTO{}, err
	}
	return accountDTO(account), nil
}

func (h Handler) DeleteAccountHandler(ctx context.Context, token, id string) error {
	return h.Service.DeleteAccount(ctx, token, id)
}

// --- listings ---

func (h Handler) CreateListingHandler(ctx context.Context, token string, request httptransport.CreateListingRequest) (httptransport.ListingDTO, error) {
	listing, err := h.Service.CreateListing(ctx, token, application.CreateListingInput{
		Title:       request.Title,
		Description: request.Description,
		Price:       request.Price,
		Latitude:    request.Latitude,
		Longitude:   request.Longitude,
		AmenityIDs:  request.AmenityIDs,
	})
	if err != nil {
		return httptransport.ListingDTO{}, err
	}
	return listingDTO(listing), nil
}

func (h Handler) GetListingHandler(ctx context.Context, id string) (httptransport.ListingDTO, error) {
	listing, err := h.Service.GetListing(ctx, id)
	if err != nil {
		return httptransport.ListingDTO{}, err
	}
	return listingDTO(listing), nil
}

func (h Handler) ListListingsHandler(ctx context.Context) (httptransport.ListListingsResponse, error) {
	listings, err := h.Service.ListListings(ctx)
	if err != nil {
		return httptransport.ListListingsResponse{}, err
	}
	response := httptransport.ListListingsResponse{Listings: make([]httptransport.ListingDTO, 0, len(listings))}
	for _, listing := range listings {
		response.Listings = append(response.Listings, listingDTO(listing))
	}
	return response, nil
}

func (h Handler) UpdateListingHandler(ctx context.Context, token, id string, request httptransport.UpdateListingRequest) (httptransport.ListingDTO, error) {
	listing, err := h.Service.UpdateListing(ctx, token, id, entities.ListingPatch{
		Title:       request.Title,
		Description: request.Description,
		Price:       request.Price,
		Latitude:    request.Latitude,
		Longitude:   request.Longitude,
		AmenityIDs:  request.AmenityIDs,
	})
	if err != nil {
		return httptransport.ListingDTO{}, err
	}
	return listingDTO(listing), nil
}

func (h Handler) DeleteListingHandler(ctx context.Context, token, id string) error {
	return h.Service.DeleteListing(ctx, token, id)
}

// --- reviews ---

func (h Handler) CreateReviewHandler(ctx context.Context, token string, request httptransport.CreateReviewRequest) (httptransport.ReviewDTO, error) {
	review, err := h.Service.CreateReview(ctx, token, application.CreateReviewInput{
		Text:      request.Text,
		Rating:    request.Rating,
		ListingID: request.ListingID,
	})
	if err != nil {
		return httptransport.ReviewDTO{}, err
	}
	return reviewDTO(review), nil
}

func (h Handler) GetReviewHandler(ctx context.Context, id string) (httptransport.ReviewDTO, error) {
	review, err := h.Service.GetReview(ctx, id)
	if err != nil {
		return httptransport.ReviewDTO{}, err
	}
	return reviewDTO(review), nil
}

func (h Handler) ListReviewsHandler(ctx context.Context) (httptransport.ListReviewsResponse, error) {
	reviews, err := h.Service.ListReviews(ctx)
	if err != nil {
		return httptransport.ListReviewsResponse{}, err
	}
	return reviewListResponse(reviews), nil
}

func (h Handler) ListListingReviewsHandler(ctx context.Context, listingID string) (httptransport.ListReviewsResponse, error) {
	reviews, err := h.Service.ListReviewsByListing(ctx, listingID)
	if err != nil {
		return httptransport.ListReviewsResponse{}, err
	}
	return reviewListResponse(reviews), nil
}

func (h Handler) UpdateReviewHandler(ctx context.Context, token, id string, request httptransport.UpdateReviewRequest) (httptransport.ReviewDTO, error) {
	review, err := h.Service.UpdateReview(ctx, token, id, entities.ReviewPatch{
		Text:   request.Text,
		Rating: request.Rating,
	})
	if err != nil {
		return httptransport.ReviewDTO{}, err
	}
	return reviewDTO(review), nil
}

func (h Handler) DeleteReviewHandler(ctx context.Context, token, id string) error {
	return h.Service.DeleteReview(ctx, token, id)
}

// --- amenities ---

func (h Handler) CreateAmenityHandler(ctx context.Context, token string, request httptransport.CreateAmenityRequest) (httptransport.AmenityDTO, error) {
	amenity, err := h.Service.CreateAmenity(ctx, token, application.CreateAmenityInput{Name: request.Name})
	if err != nil {
		return httptransport.AmenityDTO{}, err
	}
	return amenityDTO(amenity), nil
}

func (h Handler) GetAmenityHandler(ctx context.Context, id string) (httptransport.AmenityDTO, error) {
	amenity, err := h.Service.GetAmenity(ctx, id)
	if err != nil {
		return httptransport.AmenityDTO{}, err
	}
	return amenityDTO(amenity), nil
}

func (h Handler) ListAmenitiesHandler(ctx context.Context) (httptransport.ListAmenitiesResponse, error) {
	amenities, err := h.Service.ListAmenities(ctx)
	if err != nil {
		return httptransport.ListAmenitiesResponse{}, err
	}
	response := httptransport.ListAmenitiesResponse{Amenities: make([]httptransport.AmenityDTO, 0, len(amenities))}
	for _, amenity := range amenities {
		response.Amenities = append(response.Amenities, amenityDTO(amenity))
	}
	return response, nil
}

func (h Handler) UpdateAmenityHandler(ctx context.Context, token, id string, request httptransport.UpdateAmenityRequest) (httptransport.AmenityDTO, error) {
	amenity, err := h.Service.UpdateAmenity(ctx, token, id, entities.AmenityPatch{Name: request.Name})
	if err != nil {
		return httptransport.AmenityDTO{}, err
	}
	return amenityDTO(amenity), nil
}

func (h Handler) DeleteAmenityHandler(ctx context.Context, token, id string) error {
	return h.Service.DeleteAmenity(ctx, token, id)
}

func accountDTO(a entities.Account) httptransport.AccountDTO {
	return httptransport.AccountDTO{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		IsAdmin:   a.IsAdmin,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func listingDTO(l entities.Listing) httptransport.ListingDTO {
	amenityIDs := l.AmenityIDs
	if amenityIDs == nil {
		amenityIDs = []string{}
	}
	return httptransport.ListingDTO{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		OwnerID:     l.OwnerID,
		AmenityIDs:  amenityIDs,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func reviewDTO(r entities.Review) httptransport.ReviewDTO {
	return httptransport.ReviewDTO{
		ID:        r.ID,
		Text:      r.Text,
		Rating:    r.Rating,
		ListingID: r.ListingID,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func reviewListResponse(reviews []entities.Review) httptransport.ListReviewsResponse {
	response := httptransport.ListReviewsResponse{Reviews: make([]httptransport.ReviewDTO, 0, len(reviews))}
	for _, review := range reviews {
		response.Reviews = append(response.Reviews, reviewDTO(review))
	}
	return response
}

func amenityDTO(a entities.Amenity) httptransport.AmenityDTO {
	return httptransport.AmenityDTO{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
