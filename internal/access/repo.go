package access

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
)

// Repository reads the rows that decide access. It never caches.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindOwnedLocation(ctx context.Context, ownerID uuid.UUID) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// FindActiveMembership returns the caller's earliest active staff membership.
func (r *Repository) FindActiveMembership(ctx context.Context, userID uuid.UUID) (*models.LocationStaff, error) {
	var membership models.LocationStaff
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.StaffStatusActive).
		Order("created_at ASC").
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *Repository) FindLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}
