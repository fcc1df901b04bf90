package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bcryptadapter "stayhub/contexts/stay-marketplace/listing-service/adapters/bcrypt"
	jwtadapter "stayhub/contexts/stay-marketplace/listing-service/adapters/jwt"
	"stayhub/contexts/stay-marketplace/listing-service/adapters/memory"
	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
	"stayhub/contexts/stay-marketplace/listing-service/ports"
)

func newTestService() (Service, *memory.Store) {
	store := memory.NewStore()
	service := Service{
		Accounts:  store,
		Listings:  store,
		Reviews:   store,
		Amenities: store,
		Tokens:    jwtadapter.NewTokenService([]byte("test-secret")),
		Passwords: bcryptadapter.Hasher{Cost: 4},
		Clock:     store,
		IDs:       store,
		TokenTTL:  time.Hour,
	}
	return service, store
}

// seedAccountDirect writes through the repository, bypassing the facade's
// admin-only account creation, the way bootstrap seeding does.
func seedAccountDirect(t *testing.T, service Service, store *memory.Store, email, password string, isAdmin bool) entities.Account {
	t.Helper()
	hash, err := service.Passwords.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id, err := store.NewID(context.Background())
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	account, err := entities.NewAccount(id, store.Now(), "Test", "User", email, hash, isAdmin)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	created, err := store.CreateAccount(context.Background(), account)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return created
}

func login(t *testing.T, service Service, email, password string) string {
	t.Helper()
	token, err := service.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return token
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	service, store := newTestService()
	seedAccountDirect(t, service, store, "jane@example.com", "hunter22", false)

	if _, err := service.Login(context.Background(), "jane@example.com", "wrong"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected invalid credentials, got %v", err)
	}
	if _, err := service.Login(context.Background(), "ghost@example.com", "hunter22"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected invalid credentials, got %v", err)
	}
	if _, err := service.Login(context.Background(), "jane@example.com", "hunter22"); err != nil {
		t.Fatalf("valid login failed: %v", err)
	}
}

func TestCreateAccountRequiresAdmin(t *testing.T) {
	service, store := newTestService()
	seedAccountDirect(t, service, store, "admin@example.com", "rootpass", true)
	seedAccountDirect(t, service, store, "user@example.com", "userpass", false)

	input := CreateAccountInput{FirstName: "New", LastName: "Person", Email: "new@example.com", Password: "pw123456"}

	if _, err := service.CreateAccount(context.Background(), "", input); !errors.Is(err, domainerrors.ErrTokenMalformed) {
		t.Fatalf("missing token: expected malformed token, got %v", err)
	}
	userToken := login(t, service, "user@example.com", "userpass")
	if _, err := service.CreateAccount(context.Background(), userToken, input); !errors.Is(err, domainerrors.ErrAdminRequired) {
		t.Fatalf("non-admin: expected admin required, got %v", err)
	}
	adminToken := login(t, service, "admin@example.com", "rootpass")
	created, err := service.CreateAccount(context.Background(), adminToken, input)
	if err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
	if created.PasswordHash == "pw123456" {
		t.Fatal("password must be stored hashed")
	}
	if _, err := service.CreateAccount(context.Background(), adminToken, input); !errors.Is(err, domainerrors.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestUpdateAccountRestrictedFields(t *testing.T) {
	service, store := newTestService()
	admin := seedAccountDirect(t, service, store, "admin@example.com", "rootpass", true)
	user := seedAccountDirect(t, service, store, "user@example.com", "userpass", false)
	userToken := login(t, service, "user@example.com", "userpass")
	adminToken := login(t, service, "admin@example.com", "rootpass")

	newFirst := "Janet"
	if _, err := service.UpdateAccount(context.Background(), userToken, user.ID, UpdateAccountInput{FirstName: &newFirst}); err != nil {
		t.Fatalf("self update of first name failed: %v", err)
	}

	newEmail := "sneaky@example.com"
	if _, err := service.UpdateAccount(context.Background(), userToken, user.ID, UpdateAccountInput{Email: &newEmail}); !errors.Is(err, domainerrors.ErrRestrictedField) {
		t.Fatalf("self email change: expected restricted field, got %v", err)
	}
	elevate := true
	if _, err := service.UpdateAccount(context.Background(), userToken, user.ID, UpdateAccountInput{IsAdmin: &elevate}); !errors.Is(err, domainerrors.ErrRestrictedField) {
		t.Fatalf("self admin elevation: expected restricted field, got %v", err)
	}
	if _, err := service.UpdateAccount(context.Background(), userToken, admin.ID, UpdateAccountInput{FirstName: &newFirst}); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("updating someone else: expected not owner, got %v", err)
	}

	updated, err := service.UpdateAccount(context.Background(), adminToken, user.ID, UpdateAccountInput{Email: &newEmail})
	if err != nil {
		t.Fatalf("admin email change failed: %v", err)
	}
	if updated.Email != "sneaky@example.com" {
		t.Fatalf("expected updated email, got %q", updated.Email)
	}
}

func TestListingOwnerIsAlwaysCaller(t *testing.T) {
	service, store := newTestService()
	owner := seedAccountDirect(t, service, store, "owner@example.com", "ownerpass", false)
	token := login(t, service, "owner@example.com", "ownerpass")

	listing, err := service.CreateListing(context.Background(), token, CreateListingInput{
		Title: "Loft", Price: 120, Latitude: 48.85, Longitude: 2.35,
	})
	if err != nil {
		t.Fatalf("create listing failed: %v", err)
	}
	if listing.OwnerID != owner.ID {
		t.Fatalf("owner must be the caller, got %s", listing.OwnerID)
	}
}

func TestCreateListingUnknownAmenity(t *testing.T) {
	service, store := newTestService()
	seedAccountDirect(t, service, store, "owner@example.com", "ownerpass", false)
	token := login(t, service, "owner@example.com", "ownerpass")

	_, err := service.CreateListing(context.Background(), token, CreateListingInput{
		Title: "Loft", Price: 120, Latitude: 48.85, Longitude: 2.35,
		AmenityIDs: []string{"amn_missing"},
	})
	if !errors.Is(err, domainerrors.ErrAmenityNotFound) {
		t.Fatalf("expected amenity not found, got %v", err)
	}
}

func TestReviewRules(t *testing.T) {
	service, store := newTestService()
	seedAccountDirect(t, service, store, "owner@example.com", "ownerpass", false)
	seedAccountDirect(t, service, store, "guest@example.com", "guestpass", false)
	ownerToken := login(t, service, "owner@example.com", "ownerpass")
	guestToken := login(t, service, "guest@example.com", "guestpass")

	listing, err := service.CreateListing(context.Background(), ownerToken, CreateListingInput{
		Title: "Loft", Price: 120, Latitude: 48.85, Longitude: 2.35,
	})
	if err != nil {
		t.Fatalf("create listing failed: %v", err)
	}

	if _, err := service.CreateReview(context.Background(), ownerToken, CreateReviewInput{Text: "great place", Rating: 5, ListingID: listing.ID}); !errors.Is(err, domainerrors.ErrOwnerReview) {
		t.Fatalf("self review: expected owner review error, got %v", err)
	}
	review, err := service.CreateReview(context.Background(), guestToken, CreateReviewInput{Text: "lovely", Rating: 5, ListingID: listing.ID})
	if err != nil {
		t.Fatalf("guest review failed: %v", err)
	}
	if _, err := service.CreateReview(context.Background(), guestToken, CreateReviewInput{Text: "again", Rating: 4, ListingID: listing.ID}); !errors.Is(err, domainerrors.ErrDuplicateReview) {
		t.Fatalf("second review: expected duplicate, got %v", err)
	}
	if _, err := service.CreateReview(context.Background(), guestToken, CreateReviewInput{Text: "x", Rating: 9, ListingID: listing.ID}); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("rating 9: expected validation error, got %v", err)
	}

	// Owner cannot touch the guest's review, the author can.
	text := "updated"
	if _, err := service.UpdateReview(context.Background(), ownerToken, review.ID, entities.ReviewPatch{Text: &text}); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("owner edit of guest review: expected not owner, got %v", err)
	}
	if _, err := service.UpdateReview(context.Background(), guestToken, review.ID, entities.ReviewPatch{Text: &text}); err != nil {
		t.Fatalf("author edit failed: %v", err)
	}
}

func TestAdminSelfReviewStillRejected(t *testing.T) {
	service, store := newTestService()
	seedAccountDirect(t, service, store, "admin@example.com", "rootpass", true)
	adminToken := login(t, service, "admin@example.com", "rootpass")

	listing, err := service.CreateListing(context.Background(), adminToken, CreateListingInput{
		Title: "Admin flat", Price: 80, Latitude: 10, Longitude: 10,
	})
	if err != nil {
		t.Fatalf("create listing failed: %v", err)
	}
	if _, err := service.CreateReview(context.Background(), adminToken, CreateReviewInput{Text: "mine", Rating: 5, ListingID: listing.ID}); !errors.Is(err, domainerrors.ErrOwnerReview) {
		t.Fatalf("admin self review must be rejected, got %v", err)
	}
}

func TestAmenityLifecycleAdminOnly(t *testing.T) {
	service, store := newTestService()
	seedAccountDirect(t, service, store, "admin@example.com", "rootpass", true)
	seedAccountDirect(t, service, store, "user@example.com", "userpass", false)
	adminToken := login(t, service, "admin@example.com", "rootpass")
	userToken := login(t, service, "user@example.com", "userpass")

	if _, err := service.CreateAmenity(context.Background(), userToken, CreateAmenityInput{Name: "WiFi"}); !errors.Is(err, domainerrors.ErrAdminRequired) {
		t.Fatalf("non-admin create: expected admin required, got %v", err)
	}
	amenity, err := service.CreateAmenity(context.Background(), adminToken, CreateAmenityInput{Name: "WiFi"})
	if err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
	if _, err := service.CreateAmenity(context.Background(), adminToken, CreateAmenityInput{Name: "WiFi"}); !errors.Is(err, domainerrors.ErrDuplicateName) {
		t.Fatalf("expected duplicate name, got %v", err)
	}
	name := "Fast WiFi"
	if _, err := service.UpdateAmenity(context.Background(), userToken, amenity.ID, entities.AmenityPatch{Name: &name}); !errors.Is(err, domainerrors.ErrAdminRequired) {
		t.Fatalf("non-admin rename: expected admin required, got %v", err)
	}
	if _, err := service.UpdateAmenity(context.Background(), adminToken, amenity.ID, entities.AmenityPatch{Name: &name}); err != nil {
		t.Fatalf("admin rename failed: %v", err)
	}
	// Reads stay public.
	if _, err := service.GetAmenity(context.Background(), amenity.ID); err != nil {
		t.Fatalf("public read failed: %v", err)
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.EventEnvelope
}

func (r *recordingPublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func TestLifecycleEventsPublished(t *testing.T) {
	service, store := newTestService()
	publisher := &recordingPublisher{}
	service.Events = publisher
	seedAccountDirect(t, service, store, "owner@example.com", "ownerpass", false)
	token := login(t, service, "owner@example.com", "ownerpass")

	listing, err := service.CreateListing(context.Background(), token, CreateListingInput{
		Title: "Loft", Price: 100, Latitude: 48.85, Longitude: 2.35,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if err := service.DeleteListing(context.Background(), token, listing.ID); err != nil {
		t.Fatalf("delete listing: %v", err)
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != "listing_created" || publisher.events[0].EntityID != listing.ID {
		t.Fatalf("unexpected first event %+v", publisher.events[0])
	}
	if publisher.events[1].EventType != "listing_deleted" {
		t.Fatalf("unexpected second event %+v", publisher.events[1])
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	service, store := newTestService()
	service.TokenTTL = -time.Minute
	seedAccountDirect(t, service, store, "user@example.com", "userpass", false)
	token := login(t, service, "user@example.com", "userpass")
	_, err := service.CreateListing(context.Background(), token, CreateListingInput{Title: "Loft", Price: 1, Latitude: 0.1, Longitude: 0.1})
	if !errors.Is(err, domainerrors.ErrTokenExpired) {
		t.Fatalf("expected token expired, got %v", err)
	}
}

// TestMarketplaceScenario walks the end-to-end happy path: seed an admin,
// create a user, list a stay, review it as the other party, then delete
// the listing and watch the reviews cascade.
func TestMarketplaceScenario(t *testing.T) {
	service, store := newTestService()
	seedAccountDirect(t, service, store, "admin@example.com", "rootpass", true)
	adminToken := login(t, service, "admin@example.com", "rootpass")

	user, err := service.CreateAccount(context.Background(), adminToken, CreateAccountInput{
		FirstName: "Guest", LastName: "One", Email: "guest@example.com", Password: "guestpass",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	guestToken := login(t, service, "guest@example.com", "guestpass")

	listing, err := service.CreateListing(context.Background(), adminToken, CreateListingInput{
		Title: "Harbor flat", Description: "view included", Price: 150, Latitude: 59.91, Longitude: 10.75,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	review, err := service.CreateReview(context.Background(), guestToken, CreateReviewInput{
		Text: "worth it", Rating: 5, ListingID: listing.ID,
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if review.AuthorID != user.ID {
		t.Fatalf("review author must be the caller, got %s", review.AuthorID)
	}

	reviews, err := service.ListReviewsByListing(context.Background(), listing.ID)
	if err != nil || len(reviews) != 1 {
		t.Fatalf("expected one review, got %d (%v)", len(reviews), err)
	}

	if err := service.DeleteListing(context.Background(), adminToken, listing.ID); err != nil {
		t.Fatalf("delete listing: %v", err)
	}
	if _, err := service.GetReview(context.Background(), review.ID); !errors.Is(err, domainerrors.ErrReviewNotFound) {
		t.Fatalf("review should cascade with listing, got %v", err)
	}
	if _, err := service.ListReviewsByListing(context.Background(), listing.ID); !errors.Is(err, domainerrors.ErrListingNotFound) {
		t.Fatalf("listing reviews lookup should 404 after delete, got %v", err)
	}
}
