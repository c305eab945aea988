package schedule

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

const tradeColumns = `ts.id, ts.trade_request_id, ts.location_id, ts.selected_date, ts.selected_time, ts.status,
	tr.requester_id, tr.card_owner_id, tr.card_name,
	ru.username AS requester_username, ou.username AS card_owner_username`

func (r *Repository) tradeQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("trade_schedules AS ts").
		Select(tradeColumns).
		Joins("JOIN trade_requests AS tr ON tr.id = ts.trade_request_id").
		Joins("LEFT JOIN users AS ru ON ru.id = tr.requester_id").
		Joins("LEFT JOIN users AS ou ON ou.id = tr.card_owner_id")
}

// ListTrades returns trades at the location dated within [from, to] with one of
// the given statuses.
func (r *Repository) ListTrades(ctx context.Context, locationID uuid.UUID, from, to time.Time, statuses []enums.TradeStatus) ([]TradeRow, error) {
	var rows []TradeRow
	err := r.tradeQuery(ctx).
		Where("ts.location_id = ? AND ts.selected_date >= ? AND ts.selected_date <= ?", locationID, from, to).
		Where("ts.status IN ?", statuses).
		Order("ts.selected_date ASC").
		Order("ts.selected_time ASC").
		Scan(&rows).Error
	return rows, err
}

// FindTrade returns gorm.ErrRecordNotFound when the trade is not at the location.
func (r *Repository) FindTrade(ctx context.Context, locationID, tradeID uuid.UUID) (*TradeRow, error) {
	var rows []TradeRow
	err := r.tradeQuery(ctx).
		Where("ts.id = ? AND ts.location_id = ?", tradeID, locationID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// MarkCancelled moves confirmed trades to cancelled and returns the ids that
// actually moved. Trades already cancelled are skipped.
func (r *Repository) MarkCancelled(ctx context.Context, locationID uuid.UUID, tradeIDs []uuid.UUID) ([]uuid.UUID, error) {
	moved := make([]uuid.UUID, 0, len(tradeIDs))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, id := range tradeIDs {
			res := tx.Model(&models.TradeSchedule{}).
				Where("id = ? AND location_id = ? AND status = ?", id, locationID, enums.TradeStatusConfirmed).
				Updates(map[string]any{"status": enums.TradeStatusCancelled, "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				moved = append(moved, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// DeviceTokens lists the push player ids registered to any of the users.
func (r *Repository) DeviceTokens(ctx context.Context, userIDs []uuid.UUID) ([]string, error) {
	var tokens []string
	if len(userIDs) == 0 {
		return tokens, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.UserDevice{}).
		Where("user_id IN ?", userIDs).
		Pluck("onesignal_player_id", &tokens).Error
	return tokens, err
}

func (r *Repository) CreateBlocked(ctx context.Context, block *models.LocationBlockedTime) error {
	return r.db.WithContext(ctx).Create(block).Error
}

// CreateBlockedCancelling stores the block and cancels the given trades in one
// transaction, returning the trade ids that moved.
func (r *Repository) CreateBlockedCancelling(ctx context.Context, block *models.LocationBlockedTime, tradeIDs []uuid.UUID) ([]uuid.UUID, error) {
	var moved []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(block).Error; err != nil {
			return err
		}
		var err error
		moved, err = (&Repository{db: tx}).MarkCancelled(ctx, block.LocationID, tradeIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// ListBlocked returns blocks dated within [from, to], earliest first.
func (r *Repository) ListBlocked(ctx context.Context, locationID uuid.UUID, from, to time.Time) ([]models.LocationBlockedTime, error) {
	var rows []models.LocationBlockedTime
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND date >= ? AND date <= ?", locationID, from, to).
		Order("date ASC").
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

// ListUpcomingBlocked returns blocks on or after from, earliest first.
func (r *Repository) ListUpcomingBlocked(ctx context.Context, locationID uuid.UUID, from time.Time) ([]models.LocationBlockedTime, error) {
	var rows []models.LocationBlockedTime
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND date >= ?", locationID, from).
		Order("date ASC").
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) DeleteBlocked(ctx context.Context, locationID, blockID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND location_id = ?", blockID, locationID).
		Delete(&models.LocationBlockedTime{})
	return res.RowsAffected > 0, res.Error
}

// DeleteBlockedBefore purges blocks dated strictly before cutoff across all
// locations.
func (r *Repository) DeleteBlockedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("date < ?", cutoff).
		Delete(&models.LocationBlockedTime{})
	return res.RowsAffected, res.Error
}
