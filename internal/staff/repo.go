package staff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListMembers returns roster rows with the given statuses, oldest first.
func (r *Repository) ListMembers(ctx context.Context, locationID uuid.UUID, statuses []enums.StaffStatus) ([]memberRow, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).
		Model(&models.LocationStaff{}).
		Select("location_staff.*, users.email, users.username, users.first_name, users.last_name").
		Joins("JOIN users ON users.id = location_staff.user_id").
		Where("location_staff.location_id = ? AND location_staff.status IN ?", locationID, statuses).
		Order("location_staff.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// SearchUsers matches username, first name or email case-insensitively and
// skips users already on the roster with one of the excluded statuses.
func (r *Repository) SearchUsers(ctx context.Context, locationID uuid.UUID, term string, excluded []enums.StaffStatus, limit int) ([]models.User, error) {
	pattern := "%" + escapeLike(term) + "%"
	onRoster := r.db.
		Model(&models.LocationStaff{}).
		Select("user_id").
		Where("location_id = ? AND status IN ?", locationID, excluded)

	var users []models.User
	err := r.db.WithContext(ctx).
		Where("(LOWER(username) LIKE LOWER(?) ESCAPE '\\' OR LOWER(first_name) LIKE LOWER(?) ESCAPE '\\' OR LOWER(email) LIKE LOWER(?) ESCAPE '\\')", pattern, pattern, pattern).
		Where("id NOT IN (?)", onRoster).
		Where("is_active = ?", true).
		Order("email ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *Repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindMember(ctx context.Context, locationID, staffID uuid.UUID) (*models.LocationStaff, error) {
	var member models.LocationStaff
	err := r.db.WithContext(ctx).
		Where("id = ? AND location_id = ?", staffID, locationID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *Repository) FindMemberByUser(ctx context.Context, locationID, userID uuid.UUID) (*models.LocationStaff, error) {
	var member models.LocationStaff
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND user_id = ?", locationID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Upsert inserts the membership or, when the (location, user) pair exists,
// reactivates it with the new role and stamps.
func (r *Repository) Upsert(ctx context.Context, member *models.LocationStaff) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "location_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"role", "status", "can_add_staff", "invited_by", "invited_at", "accepted_at", "updated_at",
			}),
		}).
		Create(member).Error
}

func (r *Repository) UpdateMember(ctx context.Context, staffID uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.LocationStaff{}).
		Where("id = ?", staffID).
		Updates(fields).Error
}

func escapeLike(term string) string {
	out := make([]rune, 0, len(term))
	for _, r := range term {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
