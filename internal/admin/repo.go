package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
	"github.com/cardchase/location-portal/pkg/pagination"
)

const orderKey = "COALESCE(locations.submitted_at, locations.created_at)"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Location{}).
		Select("locations.*, users.email AS owner_email, users.first_name AS owner_first_name, users.last_name AS owner_last_name").
		Joins("LEFT JOIN users ON users.id = locations.owner_id")
}

// List returns applications matching filter, newest submission first, starting
// after cursor.
func (r *Repository) List(ctx context.Context, filter enums.ApplicationFilter, cursor *pagination.Cursor, limit int) ([]applicationRow, error) {
	query := r.base(ctx)
	switch filter {
	case enums.ApplicationFilterPending:
		query = query.Where("locations.application_approved = ? AND locations.rejected = ?", false, false)
	case enums.ApplicationFilterApproved:
		query = query.Where("locations.application_approved = ?", true)
	case enums.ApplicationFilterRejected:
		query = query.Where("locations.rejected = ?", true)
	}
	if cursor != nil {
		query = query.Where("("+orderKey+" < ? OR ("+orderKey+" = ? AND locations.id < ?))", cursor.At, cursor.At, cursor.ID)
	}

	var rows []applicationRow
	err := query.
		Order(orderKey + " DESC").
		Order("locations.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) Find(ctx context.Context, id uuid.UUID) (*applicationRow, error) {
	var rows []applicationRow
	if err := r.base(ctx).Where("locations.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("id = ?", id).
		Updates(fields).Error
}
