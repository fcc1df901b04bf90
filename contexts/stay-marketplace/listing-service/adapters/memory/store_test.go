package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
)

var storeNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedAccount(t *testing.T, store *Store, id, email string) entities.Account {
	t.Helper()
	account, err := entities.NewAccount(id, storeNow, "Jane", "Doe", email, "hash", false)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	created, err := store.CreateAccount(context.Background(), account)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return created
}

func seedListing(t *testing.T, store *Store, id, ownerID string) entities.Listing {
	t.Helper()
	listing, err := entities.NewListing(id, storeNow, "Loft", "", 100, 48.85, 2.35, ownerID, nil)
	if err != nil {
		t.Fatalf("new listing: %v", err)
	}
	created, err := store.CreateListing(context.Background(), listing)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return created
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc_1", "jane@example.com")
	account, _ := entities.NewAccount("acc_2", storeNow, "John", "Doe", "jane@example.com", "hash", false)
	_, err := store.CreateAccount(context.Background(), account)
	if !errors.Is(err, domainerrors.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
}

func TestUpdateAccountEmailReindex(t *testing.T) {
	store := NewStore()
	account := seedAccount(t, store, "acc_1", "jane@example.com")
	seedAccount(t, store, "acc_2", "taken@example.com")

	account.Email = "taken@example.com"
	if _, err := store.UpdateAccount(context.Background(), account); !errors.Is(err, domainerrors.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email on update, got %v", err)
	}

	account.Email = "new@example.com"
	if _, err := store.UpdateAccount(context.Background(), account); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := store.GetAccountByEmail(context.Background(), "jane@example.com"); !errors.Is(err, domainerrors.ErrAccountNotFound) {
		t.Fatalf("old email should be free, got %v", err)
	}
	found, err := store.GetAccountByEmail(context.Background(), "new@example.com")
	if err != nil || found.ID != "acc_1" {
		t.Fatalf("new email lookup failed: %v %+v", err, found)
	}
}

func TestCreateReviewDuplicate(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc_owner", "owner@example.com")
	seedAccount(t, store, "acc_guest", "guest@example.com")
	seedListing(t, store, "lst_1", "acc_owner")

	review, _ := entities.NewReview("rev_1", storeNow, "nice", 5, "lst_1", "acc_guest")
	if _, err := store.CreateReview(context.Background(), review); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	again, _ := entities.NewReview("rev_2", storeNow, "still nice", 4, "lst_1", "acc_guest")
	if _, err := store.CreateReview(context.Background(), again); !errors.Is(err, domainerrors.ErrDuplicateReview) {
		t.Fatalf("expected duplicate review, got %v", err)
	}
}

func TestCreateReviewUnknownListing(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc_guest", "guest@example.com")
	review, _ := entities.NewReview("rev_1", storeNow, "nice", 5, "lst_missing", "acc_guest")
	if _, err := store.CreateReview(context.Background(), review); !errors.Is(err, domainerrors.ErrListingNotFound) {
		t.Fatalf("expected listing not found, got %v", err)
	}
}

func TestConcurrentDuplicateReviewHasOneWinner(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc_owner", "owner@example.com")
	seedAccount(t, store, "acc_guest", "guest@example.com")
	seedListing(t, store, "lst_1", "acc_owner")

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			review, err := entities.NewReview(fmt.Sprintf("rev_%d", i), storeNow, "nice", 5, "lst_1", "acc_guest")
			if err != nil {
				errs[i] = err
				return
			}
			_, errs[i] = store.CreateReview(context.Background(), review)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, domainerrors.ErrDuplicateReview):
		default:
			t.Fatalf("attempt %d: unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
	reviews, err := store.ListReviewsByListing(context.Background(), "lst_1")
	if err != nil || len(reviews) != 1 {
		t.Fatalf("expected one stored review, got %d (%v)", len(reviews), err)
	}
}

func TestConcurrentDuplicateEmailHasOneWinner(t *testing.T) {
	store := NewStore()
	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			account, err := entities.NewAccount(fmt.Sprintf("acc_%d", i), storeNow, "Jane", "Doe", "shared@example.com", "hash", false)
			if err != nil {
				errs[i] = err
				return
			}
			_, errs[i] = store.CreateAccount(context.Background(), account)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !errors.Is(err, domainerrors.ErrDuplicateEmail) {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc_owner", "owner@example.com")
	seedAccount(t, store, "acc_guest", "guest@example.com")
	seedListing(t, store, "lst_1", "acc_owner")
	seedListing(t, store, "lst_2", "acc_guest")

	guestReview, _ := entities.NewReview("rev_guest", storeNow, "nice", 5, "lst_1", "acc_guest")
	if _, err := store.CreateReview(context.Background(), guestReview); err != nil {
		t.Fatalf("guest review: %v", err)
	}
	ownerReview, _ := entities.NewReview("rev_owner", storeNow, "fine", 3, "lst_2", "acc_owner")
	if _, err := store.CreateReview(context.Background(), ownerReview); err != nil {
		t.Fatalf("owner review: %v", err)
	}

	if err := store.DeleteAccount(context.Background(), "acc_owner"); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	// The owner's listing disappears along with reviews on it, and so do
	// reviews the owner wrote elsewhere.
	if _, err := store.GetListing(context.Background(), "lst_1"); !errors.Is(err, domainerrors.ErrListingNotFound) {
		t.Fatalf("owned listing should be gone, got %v", err)
	}
	if _, err := store.GetReview(context.Background(), "rev_guest"); !errors.Is(err, domainerrors.ErrReviewNotFound) {
		t.Fatalf("review on owned listing should be gone, got %v", err)
	}
	if _, err := store.GetReview(context.Background(), "rev_owner"); !errors.Is(err, domainerrors.ErrReviewNotFound) {
		t.Fatalf("authored review should be gone, got %v", err)
	}
	if _, err := store.GetListing(context.Background(), "lst_2"); err != nil {
		t.Fatalf("unrelated listing must survive: %v", err)
	}

	// The email index entry frees up with the account.
	if _, err := store.CreateAccount(context.Background(), mustAccount(t, "acc_new", "owner@example.com")); err != nil {
		t.Fatalf("freed email should be reusable: %v", err)
	}
}

func TestDeleteListingFreesReviewSlot(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc_owner", "owner@example.com")
	seedAccount(t, store, "acc_guest", "guest@example.com")
	seedListing(t, store, "lst_1", "acc_owner")

	review, _ := entities.NewReview("rev_1", storeNow, "nice", 5, "lst_1", "acc_guest")
	if _, err := store.CreateReview(context.Background(), review); err != nil {
		t.Fatalf("create review: %v", err)
	}
	if err := store.DeleteListing(context.Background(), "lst_1"); err != nil {
		t.Fatalf("delete listing: %v", err)
	}
	if _, err := store.GetReview(context.Background(), "rev_1"); !errors.Is(err, domainerrors.ErrReviewNotFound) {
		t.Fatalf("review should be gone with its listing, got %v", err)
	}

	seedListing(t, store, "lst_1", "acc_owner")
	replay, _ := entities.NewReview("rev_2", storeNow, "again", 4, "lst_1", "acc_guest")
	if _, err := store.CreateReview(context.Background(), replay); err != nil {
		t.Fatalf("review slot should be free after cascade: %v", err)
	}
}

func TestDeleteAmenityDetachesFromListings(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc_owner", "owner@example.com")
	amenity, _ := entities.NewAmenity("amn_1", storeNow, "WiFi")
	if _, err := store.CreateAmenity(context.Background(), amenity); err != nil {
		t.Fatalf("create amenity: %v", err)
	}
	listing, _ := entities.NewListing("lst_1", storeNow, "Loft", "", 100, 48.85, 2.35, "acc_owner", []string{"amn_1"})
	if _, err := store.CreateListing(context.Background(), listing); err != nil {
		t.Fatalf("create listing: %v", err)
	}

	if err := store.DeleteAmenity(context.Background(), "amn_1"); err != nil {
		t.Fatalf("delete amenity: %v", err)
	}
	got, err := store.GetListing(context.Background(), "lst_1")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if len(got.AmenityIDs) != 0 {
		t.Fatalf("amenity reference should be detached, got %v", got.AmenityIDs)
	}
	// Name slot frees up too.
	again, _ := entities.NewAmenity("amn_2", storeNow, "WiFi")
	if _, err := store.CreateAmenity(context.Background(), again); err != nil {
		t.Fatalf("name should be reusable: %v", err)
	}
}

func TestAmenityDuplicateName(t *testing.T) {
	store := NewStore()
	first, _ := entities.NewAmenity("amn_1", storeNow, "WiFi")
	if _, err := store.CreateAmenity(context.Background(), first); err != nil {
		t.Fatalf("create amenity: %v", err)
	}
	second, _ := entities.NewAmenity("amn_2", storeNow, "WiFi")
	if _, err := store.CreateAmenity(context.Background(), second); !errors.Is(err, domainerrors.ErrDuplicateName) {
		t.Fatalf("expected duplicate name, got %v", err)
	}
}

func TestGetListingReturnsClone(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc_owner", "owner@example.com")
	amenity, _ := entities.NewAmenity("amn_1", storeNow, "WiFi")
	if _, err := store.CreateAmenity(context.Background(), amenity); err != nil {
		t.Fatalf("create amenity: %v", err)
	}
	listing, _ := entities.NewListing("lst_1", storeNow, "Loft", "", 100, 48.85, 2.35, "acc_owner", []string{"amn_1"})
	if _, err := store.CreateListing(context.Background(), listing); err != nil {
		t.Fatalf("create listing: %v", err)
	}

	got, _ := store.GetListing(context.Background(), "lst_1")
	got.AmenityIDs[0] = "mutated"
	fresh, _ := store.GetListing(context.Background(), "lst_1")
	if fresh.AmenityIDs[0] != "amn_1" {
		t.Fatalf("store contents must not alias returned slices, got %v", fresh.AmenityIDs)
	}
}

func mustAccount(t *testing.T, id, email string) entities.Account {
	t.Helper()
	account, err := entities.NewAccount(id, storeNow, "Jane", "Doe", email, "hash", false)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	return account
}
