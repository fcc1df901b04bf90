package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	listingservice "stayhub/contexts/stay-marketplace/listing-service"
)

type testServer struct {
	ts *httptest.Server
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	module := listingservice.NewInMemoryModule([]byte("test-secret"), logger)
	deps := listingservice.Dependencies{
		Accounts:    module.Store,
		Passwords:   module.Service.Passwords,
		Clock:       module.Store,
		IDGenerator: module.Store,
	}
	if _, err := listingservice.SeedAdmin(context.Background(), deps, "Admin", "User", "admin@example.com", "rootpass"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	server := New(module, logger, ":0")
	ts := httptest.NewServer(server.mux)
	t.Cleanup(ts.Close)
	return testServer{ts: ts}
}

// do issues a JSON request and decodes the response body into a generic map.
func (s testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s %s (%d): %v: %s", method, path, resp.StatusCode, err, raw)
		}
	}
	return resp.StatusCode, decoded
}

func (s testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", email, status, body)
	}
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatalf("login %s: no access_token in %v", email, body)
	}
	return token
}

func (s testServer) createAccount(t *testing.T, adminToken, email, password string) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/v1/accounts", adminToken, map[string]any{
		"first_name": "Test", "last_name": "User", "email": email, "password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("create account %s: status %d body %v", email, status, body)
	}
	return body["id"].(string)
}

func TestLoginEndpoint(t *testing.T) {
	s := newTestServer(t)

	token := s.login(t, "admin@example.com", "rootpass")
	if token == "" {
		t.Fatal("expected a token")
	}
	status, body := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "wrong",
	})
	if status != http.StatusUnauthorized || body["code"] != "invalid_credentials" {
		t.Fatalf("expected 401 invalid_credentials, got %d %v", status, body)
	}
	status, body = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "rootpass",
	})
	if status != http.StatusUnauthorized || body["code"] != "invalid_credentials" {
		t.Fatalf("unknown email must fail like wrong password, got %d %v", status, body)
	}
}

func TestWriteEndpointsRequireToken(t *testing.T) {
	s := newTestServer(t)

	listing := map[string]any{"title": "Loft", "price": 100, "latitude": 48.85, "longitude": 2.35}

	status, body := s.do(t, http.MethodPost, "/api/v1/listings", "", listing)
	if status != http.StatusUnauthorized || body["code"] != "invalid_token" {
		t.Fatalf("missing token: expected 401 invalid_token, got %d %v", status, body)
	}
	status, body = s.do(t, http.MethodPost, "/api/v1/listings", "not-a-token", listing)
	if status != http.StatusUnauthorized || body["code"] != "invalid_token" {
		t.Fatalf("garbage token: expected 401 invalid_token, got %d %v", status, body)
	}
}

func TestReadEndpointsArePublic(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/accounts", "/api/v1/listings", "/api/v1/reviews", "/api/v1/amenities"} {
		status, _ := s.do(t, http.MethodGet, path, "", nil)
		if status != http.StatusOK {
			t.Fatalf("GET %s without token: expected 200, got %d", path, status)
		}
	}
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(t, "admin@example.com", "rootpass")

	status, body := s.do(t, http.MethodPost, "/api/v1/accounts", adminToken, map[string]any{
		"first_name": "Jane", "last_name": "Doe", "email": "jane@example.com", "password": "janepass",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d %v", status, body)
	}
	if _, leaked := body["password_hash"]; leaked {
		t.Fatal("password hash must not appear in responses")
	}
	accountID := body["id"].(string)

	status, body = s.do(t, http.MethodPost, "/api/v1/accounts", adminToken, map[string]any{
		"first_name": "Jane", "last_name": "Two", "email": "jane@example.com", "password": "other",
	})
	if status != http.StatusConflict || body["code"] != "conflict" {
		t.Fatalf("duplicate email: expected 409 conflict, got %d %v", status, body)
	}

	userToken := s.login(t, "jane@example.com", "janepass")
	status, body = s.do(t, http.MethodPost, "/api/v1/accounts", userToken, map[string]any{
		"first_name": "No", "last_name": "Way", "email": "no@example.com", "password": "nopass",
	})
	if status != http.StatusForbidden || body["code"] != "forbidden" {
		t.Fatalf("non-admin create: expected 403, got %d %v", status, body)
	}

	// Self rename is allowed, self email change is not.
	status, _ = s.do(t, http.MethodPut, "/api/v1/accounts/"+accountID, userToken, map[string]any{"first_name": "Janet"})
	if status != http.StatusOK {
		t.Fatalf("self rename: expected 200, got %d", status)
	}
	status, body = s.do(t, http.MethodPut, "/api/v1/accounts/"+accountID, userToken, map[string]any{"email": "sneaky@example.com"})
	if status != http.StatusForbidden {
		t.Fatalf("self email change: expected 403, got %d %v", status, body)
	}

	status, _ = s.do(t, http.MethodGet, "/api/v1/accounts/acc_does_not_exist", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("unknown account: expected 404, got %d", status)
	}

	status, _ = s.do(t, http.MethodDelete, "/api/v1/accounts/"+accountID, adminToken, nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", status)
	}
	status, _ = s.do(t, http.MethodGet, "/api/v1/accounts/"+accountID, "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("deleted account: expected 404, got %d", status)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(t, "admin@example.com", "rootpass")

	req, err := http.NewRequest(http.MethodPost, s.ts.URL+"/api/v1/listings", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := s.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid JSON, got %d", resp.StatusCode)
	}
}

func TestListingReviewFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(t, "admin@example.com", "rootpass")
	s.createAccount(t, adminToken, "owner@example.com", "ownerpass")
	s.createAccount(t, adminToken, "guest@example.com", "guestpass")
	ownerToken := s.login(t, "owner@example.com", "ownerpass")
	guestToken := s.login(t, "guest@example.com", "guestpass")

	status, body := s.do(t, http.MethodPost, "/api/v1/amenities", ownerToken, map[string]any{"name": "WiFi"})
	if status != http.StatusForbidden {
		t.Fatalf("non-admin amenity create: expected 403, got %d %v", status, body)
	}
	status, body = s.do(t, http.MethodPost, "/api/v1/amenities", adminToken, map[string]any{"name": "WiFi"})
	if status != http.StatusCreated {
		t.Fatalf("amenity create: expected 201, got %d %v", status, body)
	}
	amenityID := body["id"].(string)

	status, body = s.do(t, http.MethodPost, "/api/v1/listings", ownerToken, map[string]any{
		"title": "Harbor flat", "price": 150, "latitude": 59.91, "longitude": 10.75,
		"amenity_ids": []string{amenityID},
	})
	if status != http.StatusCreated {
		t.Fatalf("listing create: expected 201, got %d %v", status, body)
	}
	listingID := body["id"].(string)

	status, body = s.do(t, http.MethodPost, "/api/v1/reviews", ownerToken, map[string]any{
		"text": "my own place", "rating": 5, "listing_id": listingID,
	})
	if status != http.StatusConflict {
		t.Fatalf("self review: expected 409, got %d %v", status, body)
	}

	status, body = s.do(t, http.MethodPost, "/api/v1/reviews", guestToken, map[string]any{
		"text": "lovely", "rating": 9, "listing_id": listingID,
	})
	if status != http.StatusBadRequest || body["code"] != "validation_failed" {
		t.Fatalf("rating 9: expected 400 validation_failed, got %d %v", status, body)
	}

	status, body = s.do(t, http.MethodPost, "/api/v1/reviews", guestToken, map[string]any{
		"text": "lovely", "rating": 5, "listing_id": listingID,
	})
	if status != http.StatusCreated {
		t.Fatalf("guest review: expected 201, got %d %v", status, body)
	}
	reviewID := body["id"].(string)

	status, body = s.do(t, http.MethodPost, "/api/v1/reviews", guestToken, map[string]any{
		"text": "again", "rating": 4, "listing_id": listingID,
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate review: expected 409, got %d %v", status, body)
	}

	status, body = s.do(t, http.MethodGet, "/api/v1/listings/"+listingID+"/reviews", "", nil)
	if status != http.StatusOK {
		t.Fatalf("listing reviews: expected 200, got %d %v", status, body)
	}
	reviews, _ := body["reviews"].([]any)
	if len(reviews) != 1 {
		t.Fatalf("expected one review, got %v", body)
	}

	// A non-author cannot edit the review.
	status, _ = s.do(t, http.MethodPut, "/api/v1/reviews/"+reviewID, ownerToken, map[string]any{"text": "edited"})
	if status != http.StatusForbidden {
		t.Fatalf("non-author edit: expected 403, got %d", status)
	}

	status, _ = s.do(t, http.MethodDelete, "/api/v1/listings/"+listingID, ownerToken, nil)
	if status != http.StatusNoContent {
		t.Fatalf("listing delete: expected 204, got %d", status)
	}
	status, _ = s.do(t, http.MethodGet, "/api/v1/reviews/"+reviewID, "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("review should cascade with listing, got %d", status)
	}
	status, _ = s.do(t, http.MethodGet, "/api/v1/listings/"+listingID+"/reviews", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("reviews of deleted listing: expected 404, got %d", status)
	}
}

func TestSwaggerDocServed(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.ts.Client().Get(s.ts.URL + "/swagger/doc.json")
	if err != nil {
		t.Fatalf("get doc.json: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("doc.json is not valid JSON: %v", err)
	}
	if _, ok := doc["paths"]; !ok {
		t.Fatal("doc.json has no paths")
	}
}
