package locations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *Repository) Create(ctx context.Context, loc *models.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *Repository) CreateStaff(ctx context.Context, member *models.LocationStaff) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *Repository) MarkUserAsLocation(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_location", true).Error
}

// Update writes the given columns and stamps updated_at.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *Repository) CountFollowers(ctx context.Context, locationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LocationFollower{}).
		Where("location_id = ?", locationID).
		Count(&count).Error
	return count, err
}

// CountUpcomingTrades counts confirmed trades dated on or after from.
func (r *Repository) CountUpcomingTrades(ctx context.Context, locationID uuid.UUID, from time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TradeSchedule{}).
		Where("location_id = ? AND status = ? AND selected_date >= ?", locationID, enums.TradeStatusConfirmed, from).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountRecurringEvents(ctx context.Context, locationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LocationEvent{}).
		Where("location_id = ? AND is_recurring = ?", locationID, true).
		Count(&count).Error
	return count, err
}
