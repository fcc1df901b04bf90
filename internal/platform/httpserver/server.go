package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	listingservice "stayhub/contexts/stay-marketplace/listing-service"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
	stayhttp "stayhub/contexts/stay-marketplace/listing-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "stayhub/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	listing listingservice.Module
}

func New(listing listingservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		listing: listing,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	s.mux.HandleFunc("POST /api/v1/accounts", s.handleCreateAccount)
	s.mux.HandleFunc("GET /api/v1/accounts", s.handleListAccounts)
	s.mux.HandleFunc("GET /api/v1/accounts/{account_id}", s.handleGetAccount)
	s.mux.HandleFunc("PUT /api/v1/accounts/{account_id}", s.handleUpdateAccount)
	s.mux.HandleFunc("DELETE /api/v1/accounts/{account_id}", s.handleDeleteAccount)

	s.mux.HandleFunc("POST /api/v1/listings", s.handleCreateListing)
	s.mux.HandleFunc("GET /api/v1/listings", s.handleListListings)
	s.mux.HandleFunc("GET /api/v1/listings/{listing_id}", s.handleGetListing)
	s.mux.HandleFunc("PUT /api/v1/listings/{listing_id}", s.handleUpdateListing)
	s.mux.HandleFunc("DELETE /api/v1/listings/{listing_id}", s.handleDeleteListing)
	s.mux.HandleFunc("GET /api/v1/listings/{listing_id}/reviews", s.handleListListingReviews)

	s.mux.HandleFunc("POST /api/v1/reviews", s.handleCreateReview)
	s.mux.HandleFunc("GET /api/v1/reviews", s.handleListReviews)
	s.mux.HandleFunc("GET /api/v1/reviews/{review_id}", s.handleGetReview)
	s.mux.HandleFunc("PUT /api/v1/reviews/{review_id}", s.handleUpdateReview)
	s.mux.HandleFunc("DELETE /api/v1/reviews/{review_id}", s.handleDeleteReview)

	s.mux.HandleFunc("POST /api/v1/amenities", s.handleCreateAmenity)
	s.mux.HandleFunc("GET /api/v1/amenities", s.handleListAmenities)
	s.mux.HandleFunc("GET /api/v1/amenities/{amenity_id}", s.handleGetAmenity)
	s.mux.HandleFunc("PUT /api/v1/amenities/{amenity_id}", s.handleUpdateAmenity)
	s.mux.HandleFunc("DELETE /api/v1/amenities/{amenity_id}", s.handleDeleteAmenity)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req stayhttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listing.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- accounts ---

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req stayhttp.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listing.Handler.CreateAccountHandler(r.Context(), bearerToken(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listing.Handler.ListAccountsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listing.Handler.GetAccountHandler(r.Context(), r.PathValue("account_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req stayhttp.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listing.Handler.UpdateAccountHandler(r.Context(), bearerToken(r), r.PathValue("account_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.listing.Handler.DeleteAccountHandler(r.Context(), bearerToken(r), r.PathValue("account_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- listings ---

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req stayhttp.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listing.Handler.CreateListingHandler(r.Context(), bearerToken(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listing.Handler.ListListingsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listing.Handler.GetListingHandler(r.Context(), r.PathValue("listing_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	var req stayhttp.UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listing.Handler.UpdateListingHandler(r.Context(), bearerToken(r), r.PathValue("listing_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	if err := s.listing.Handler.DeleteListingHandler(r.Context(), bearerToken(r), r.PathValue("listing_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListListingReviews(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listing.Handler.ListListingReviewsHandler(r.Context(), r.PathValue("listing_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- reviews ---

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req stayhttp.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listing.Handler.CreateReviewHandler(r.Context(), bearerToken(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listing.Handler.ListReviewsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listing.Handler.GetReviewHandler(r.Context(), r.PathValue("review_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	var req stayhttp.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listing.Handler.UpdateReviewHandler(r.Context(), bearerToken(r), r.PathValue("review_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := s.listing.Handler.DeleteReviewHandler(r.Context(), bearerToken(r), r.PathValue("review_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- amenities ---

func (s *Server) handleCreateAmenity(w http.ResponseWriter, r *http.Request) {
	var req stayhttp.CreateAmenityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listing.Handler.CreateAmenityHandler(r.Context(), bearerToken(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAmenities(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listing.Handler.ListAmenitiesHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAmenity(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listing.Handler.GetAmenityHandler(r.Context(), r.PathValue("amenity_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateAmenity(w http.ResponseWriter, r *http.Request) {
	var req stayhttp.UpdateAmenityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listing.Handler.UpdateAmenityHandler(r.Context(), bearerToken(r), r.PathValue("amenity_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteAmenity(w http.ResponseWriter, r *http.Request) {
	if err := s.listing.Handler.DeleteAmenityHandler(r.Context(), bearerToken(r), r.PathValue("amenity_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses. The
// mapping lives only here; inner layers never see status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, domainerrors.ErrTokenExpired),
		errors.Is(err, domainerrors.ErrTokenSignature),
		errors.Is(err, domainerrors.ErrTokenMalformed):
		writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
	case errors.Is(err, domainerrors.ErrAdminRequired),
		errors.Is(err, domainerrors.ErrNotOwner),
		errors.Is(err, domainerrors.ErrRestrictedField),
		errors.Is(err, domainerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domainerrors.ErrAccountNotFound),
		errors.Is(err, domainerrors.ErrListingNotFound),
		errors.Is(err, domainerrors.ErrReviewNotFound),
		errors.Is(err, domainerrors.ErrAmenityNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateEmail),
		errors.Is(err, domainerrors.ErrDuplicateName),
		errors.Is(err, domainerrors.ErrDuplicateReview),
		errors.Is(err, domainerrors.ErrOwnerReview):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, stayhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// bearerToken extracts the raw token from the Authorization header. An
// absent or malformed header yields an empty token; the application layer
// turns that into the appropriate token error.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
