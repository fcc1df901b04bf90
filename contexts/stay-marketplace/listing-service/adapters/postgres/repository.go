package postgresadapter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
	"stayhub/contexts/stay-marketplace/listing-service/ports"
)

// Repository is the gorm-backed implementation of all four repository ports.
// Uniqueness lives in database constraints; cascading deletes run inside a
// single transaction. Constraint violations are translated to domain errors
// by constraint name.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

var (
	_ ports.AccountRepository = (*Repository)(nil)
	_ ports.ListingRepository = (*Repository)(nil)
	_ ports.ReviewRepository  = (*Repository)(nil)
	_ ports.AmenityRepository = (*Repository)(nil)
)

// Migrate creates or updates the schema for every table this adapter owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&accountModel{},
		&listingModel{},
		&listingAmenityModel{},
		&reviewModel{},
		&amenityModel{},
	)
}

// --- accounts ---

func (r *Repository) CreateAccount(ctx context.Context, account entities.Account) (entities.Account, error) {
	row := accountRow(account)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Account{}, domainerrors.ErrDuplicateEmail
		}
		return entities.Account{}, err
	}
	return account, nil
}

func (r *Repository) GetAccount(ctx context.Context, id string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListAccounts(ctx context.Context) ([]entities.Account, error) {
	var rows []accountModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]entities.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.toEntity())
	}
	return accounts, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, account entities.Account) (entities.Account, error) {
	result := r.db.WithContext(ctx).Model(&accountModel{}).Where("id = ?", account.ID).Updates(map[string]any{
		"first_name":    account.FirstName,
		"last_name":     account.LastName,
		"email":         account.Email,
		"password_hash": account.PasswordHash,
		"is_admin":      account.IsAdmin,
		"updated_at":    account.UpdatedAt,
	})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return entities.Account{}, domainerrors.ErrDuplicateEmail
		}
		return entities.Account{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return account, nil
}

func (r *Repository) DeleteAccount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listingIDs []string
		if err := tx.Model(&listingModel{}).Where("owner_id = ?", id).Pluck("id", &listingIDs).Error; err != nil {
			return err
		}
		if len(listingIDs) > 0 {
			if err := tx.Where("listing_id IN ?", listingIDs).Delete(&reviewModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("listing_id IN ?", listingIDs).Delete(&listingAmenityModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", listingIDs).Delete(&listingModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", id).Delete(&reviewModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&accountModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAccountNotFound
		}
		return nil
	})
}

// --- listings ---

func (r *Repository) CreateListing(ctx context.Context, listing entities.Listing) (entities.Listing, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := listingRow(listing)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return replaceListingAmenities(tx, listing.ID, listing.AmenityIDs)
	})
	if err != nil {
		return entities.Listing{}, err
	}
	return listing, nil
}

func (r *Repository) GetListing(ctx context.Context, id string) (entities.Listing, error) {
	var row listingModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Listing{}, domainerrors.ErrListingNotFound
		}
		return entities.Listing{}, err
	}
	var amenityIDs []string
	err = r.db.WithContext(ctx).Model(&listingAmenityModel{}).
		Where("listing_id = ?", id).Order("amenity_id ASC").
		Pluck("amenity_id", &amenityIDs).Error
	if err != nil {
		return entities.Listing{}, err
	}
	return row.toEntity(amenityIDs), nil
}

func (r *Repository) ListListings(ctx context.Context) ([]entities.Listing, error) {
	var rows []listingModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	var links []listingAmenityModel
	if err := r.db.WithContext(ctx).Order("amenity_id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	amenitiesByListing := make(map[string][]string, len(rows))
	for _, link := range links {
		amenitiesByListing[link.ListingID] = append(amenitiesByListing[link.ListingID], link.AmenityID)
	}
	listings := make([]entities.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, row.toEntity(amenitiesByListing[row.ID]))
	}
	return listings, nil
}

func (r *Repository) UpdateListing(ctx context.Context, listing entities.Listing) (entities.Listing, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&listingModel{}).Where("id = ?", listing.ID).Updates(map[string]any{
			"title":       listing.Title,
			"description": listing.Description,
			"price":       listing.Price,
			"latitude":    listing.Latitude,
			"longitude":   listing.Longitude,
			"updated_at":  listing.UpdatedAt,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrListingNotFound
		}
		return replaceListingAmenities(tx, listing.ID, listing.AmenityIDs)
	})
	if err != nil {
		return entities.Listing{}, err
	}
	return listing, nil
}

func (r *Repository) DeleteListing(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&reviewModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&listingAmenityModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&listingModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrListingNotFound
		}
		return nil
	})
}

func replaceListingAmenities(tx *gorm.DB, listingID string, amenityIDs []string) error {
	if err := tx.Where("listing_id = ?", listingID).Delete(&listingAmenityModel{}).Error; err != nil {
		return err
	}
	if len(amenityIDs) == 0 {
		return nil
	}
	links := make([]listingAmenityModel, 0, len(amenityIDs))
	for _, amenityID := range amenityIDs {
		links = append(links, listingAmenityModel{ListingID: listingID, AmenityID: amenityID})
	}
	return tx.Create(&links).Error
}

// --- reviews ---

func (r *Repository) CreateReview(ctx context.Context, review entities.Review) (entities.Review, error) {
	row := reviewRow(review)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) && constraintName(err) == "reviews_unique_author_listing" {
			return entities.Review{}, domainerrors.ErrDuplicateReview
		}
		return entities.Review{}, err
	}
	return review, nil
}

func (r *Repository) GetReview(ctx context.Context, id string) (entities.Review, error) {
	var row reviewModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Review{}, domainerrors.ErrReviewNotFound
		}
		return entities.Review{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListReviews(ctx context.Context) ([]entities.Review, error) {
	var rows []reviewModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	reviews := make([]entities.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.toEntity())
	}
	return reviews, nil
}

func (r *Repository) ListReviewsByListing(ctx context.Context, listingID string) ([]entities.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).Where("listing_id = ?", listingID).
		Order("created_at ASC, id ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	reviews := make([]entities.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.toEntity())
	}
	return reviews, nil
}

func (r *Repository) UpdateReview(ctx context.Context, review entities.Review) (entities.Review, error) {
	result := r.db.WithContext(ctx).Model(&reviewModel{}).Where("id = ?", review.ID).Updates(map[string]any{
		"text":       review.Text,
		"rating":     review.Rating,
		"updated_at": review.UpdatedAt,
	})
	if result.Error != nil {
		return entities.Review{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Review{}, domainerrors.ErrReviewNotFound
	}
	return review, nil
}

func (r *Repository) DeleteReview(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&reviewModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrReviewNotFound
	}
	return nil
}

// --- amenities ---

func (r *Repository) CreateAmenity(ctx context.Context, amenity entities.Amenity) (entities.Amenity, error) {
	row := amenityRow(amenity)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Amenity{}, domainerrors.ErrDuplicateName
		}
		return entities.Amenity{}, err
	}
	return amenity, nil
}

func (r *Repository) GetAmenity(ctx context.Context, id string) (entities.Amenity, error) {
	var row amenityModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Amenity{}, domainerrors.ErrAmenityNotFound
		}
		return entities.Amenity{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetAmenityByName(ctx context.Context, name string) (entities.Amenity, error) {
	var row amenityModel
	err := r.db.WithContext(ctx).First(&row, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Amenity{}, domainerrors.ErrAmenityNotFound
		}
		return entities.Amenity{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListAmenities(ctx context.Context) ([]entities.Amenity, error) {
	var rows []amenityModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	amenities := make([]entities.Amenity, 0, len(rows))
	for _, row := range rows {
		amenities = append(amenities, row.toEntity())
	}
	return amenities, nil
}

func (r *Repository) UpdateAmenity(ctx context.Context, amenity entities.Amenity) (entities.Amenity, error) {
	result := r.db.WithContext(ctx).Model(&amenityModel{}).Where("id = ?", amenity.ID).Updates(map[string]any{
		"name":       amenity.Name,
		"updated_at": amenity.UpdatedAt,
	})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return entities.Amenity{}, domainerrors.ErrDuplicateName
		}
		return entities.Amenity{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Amenity{}, domainerrors.ErrAmenityNotFound
	}
	return amenity, nil
}

func (r *Repository) DeleteAmenity(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("amenity_id = ?", id).Delete(&listingAmenityModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&amenityModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAmenityNotFound
		}
		return nil
	})
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
