package events

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListRecurring returns weekly events oldest first.
func (r *Repository) ListRecurring(ctx context.Context, locationID uuid.UUID) ([]models.LocationEvent, error) {
	var rows []models.LocationEvent
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND is_recurring = ?", locationID, true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) CountRecurring(ctx context.Context, locationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LocationEvent{}).
		Where("location_id = ? AND is_recurring = ?", locationID, true).
		Count(&count).Error
	return count, err
}

func (r *Repository) Create(ctx context.Context, event *models.LocationEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// Delete removes an event owned by the location and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, locationID, eventID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND location_id = ?", eventID, locationID).
		Delete(&models.LocationEvent{})
	return res.RowsAffected > 0, res.Error
}
