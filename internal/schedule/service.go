package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/logger"
	"github.com/cardchase/location-portal/pkg/push"
	"github.com/cardchase/location-portal/pkg/timefmt"
)

const (
	cancelTitle = "Trade Cancelled"

	SourceManual      = "manual"
	SourceBlockedTime = "blocked_time"
)

type repository interface {
	ListTrades(ctx context.Context, locationID uuid.UUID, from, to time.Time, statuses []enums.TradeStatus) ([]TradeRow, error)
	FindTrade(ctx context.Context, locationID, tradeID uuid.UUID) (*TradeRow, error)
	MarkCancelled(ctx context.Context, locationID uuid.UUID, tradeIDs []uuid.UUID) ([]uuid.UUID, error)
	DeviceTokens(ctx context.Context, userIDs []uuid.UUID) ([]string, error)
	CreateBlocked(ctx context.Context, block *models.LocationBlockedTime) error
	CreateBlockedCancelling(ctx context.Context, block *models.LocationBlockedTime, tradeIDs []uuid.UUID) ([]uuid.UUID, error)
	ListBlocked(ctx context.Context, locationID uuid.UUID, from, to time.Time) ([]models.LocationBlockedTime, error)
	ListUpcomingBlocked(ctx context.Context, locationID uuid.UUID, from time.Time) ([]models.LocationBlockedTime, error)
	DeleteBlocked(ctx context.Context, locationID, blockID uuid.UUID) (bool, error)
}

// Notifier delivers a push message to devices.
type Notifier interface {
	Send(ctx context.Context, msg push.Message) error
}

type metricsRecorder interface {
	IncCancellation(source string)
	IncPushFailure()
}

type noopMetrics struct{}

func (noopMetrics) IncCancellation(string) {}
func (noopMetrics) IncPushFailure()        {}

type Service interface {
	Week(ctx context.Context, locationID uuid.UUID, anchor time.Time) (*Week, error)
	CancelTrade(ctx context.Context, loc *models.Location, tradeID uuid.UUID) (*TradeDTO, error)
	BlockTime(ctx context.Context, loc *models.Location, input BlockInput) (*BlockResult, error)
	ListBlocked(ctx context.Context, locationID uuid.UUID) ([]BlockDTO, error)
	DeleteBlocked(ctx context.Context, locationID, blockID uuid.UUID) error
}

type ServiceParams struct {
	Repo     repository
	Notifier Notifier
	Metrics  metricsRecorder
	Logger   *logger.Logger
}

type service struct {
	repo     repository
	notifier Notifier
	metrics  metricsRecorder
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("schedule repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = push.Noop{}
	}
	var recorder metricsRecorder = noopMetrics{}
	if params.Metrics != nil {
		recorder = params.Metrics
	}
	return &service{
		repo:     params.Repo,
		notifier: notifier,
		metrics:  recorder,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

func (s *service) Week(ctx context.Context, locationID uuid.UUID, anchor time.Time) (*Week, error) {
	start := WeekStart(anchor)
	end := start.AddDate(0, 0, daysPerWeek-1)

	rows, err := s.repo.ListTrades(ctx, locationID, start, end, []enums.TradeStatus{enums.TradeStatusConfirmed, enums.TradeStatusCancelled})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trades")
	}
	blocks, err := s.repo.ListBlocked(ctx, locationID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list blocked time")
	}

	week := BuildWeek(start, toTradeDTOs(rows), blocks)
	return &week, nil
}

// CancelTrade cancels a confirmed trade and then tells both collectors. The
// cancellation stands even when no notification goes out.
func (s *service) CancelTrade(ctx context.Context, loc *models.Location, tradeID uuid.UUID) (*TradeDTO, error) {
	row, err := s.repo.FindTrade(ctx, loc.ID, tradeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trade not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trade")
	}
	if row.Status != enums.TradeStatusConfirmed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "trade is already cancelled")
	}

	moved, err := s.repo.MarkCancelled(ctx, loc.ID, []uuid.UUID{row.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel trade")
	}
	if len(moved) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "trade is already cancelled")
	}
	s.metrics.IncCancellation(SourceManual)

	row.Status = enums.TradeStatusCancelled
	s.notifyCancelled(ctx, loc, []TradeRow{*row})

	dto := toTradeDTO(*row)
	return &dto, nil
}

// BlockTime reads conflicting trades before writing, so a failed read leaves
// nothing behind. With CancelConflicts the block and the cancellations commit
// together; only trades that actually moved are relabelled and notified.
func (s *service) BlockTime(ctx context.Context, loc *models.Location, input BlockInput) (*BlockResult, error) {
	block, span, err := buildBlock(loc.ID, input)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListTrades(ctx, loc.ID, block.Date, block.Date, []enums.TradeStatus{enums.TradeStatusConfirmed})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conflicting trades")
	}
	conflicts := conflicting(rows, span)

	if !input.CancelConflicts || len(conflicts) == 0 {
		if err := s.repo.CreateBlocked(ctx, block); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create blocked time")
		}
		return &BlockResult{Block: toBlockDTO(*block), Conflicts: toTradeDTOs(conflicts)}, nil
	}

	ids := make([]uuid.UUID, 0, len(conflicts))
	for _, row := range conflicts {
		ids = append(ids, row.ID)
	}
	moved, err := s.repo.CreateBlockedCancelling(ctx, block, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create blocked time")
	}

	movedSet := make(map[uuid.UUID]struct{}, len(moved))
	for _, id := range moved {
		movedSet[id] = struct{}{}
	}
	cancelled := make([]TradeRow, 0, len(moved))
	for i := range conflicts {
		if _, ok := movedSet[conflicts[i].ID]; !ok {
			continue
		}
		conflicts[i].Status = enums.TradeStatusCancelled
		cancelled = append(cancelled, conflicts[i])
		s.metrics.IncCancellation(SourceBlockedTime)
	}
	s.notifyCancelled(ctx, loc, cancelled)

	return &BlockResult{
		Block:     toBlockDTO(*block),
		Conflicts: toTradeDTOs(conflicts),
		Cancelled: len(cancelled),
	}, nil
}

// window is a half-open time range; nil means the whole day.
type window struct {
	start, end timefmt.Clock
}

func buildBlock(locationID uuid.UUID, input BlockInput) (*models.LocationBlockedTime, *window, error) {
	if strings.TrimSpace(input.Date) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "Please select a date")
	}
	date, err := timefmt.ParseDate(input.Date)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date").
			WithDetails(map[string]string{"date": "use YYYY-MM-DD"})
	}
	block := &models.LocationBlockedTime{
		LocationID: locationID,
		Date:       date,
		AllDay:     input.AllDay,
		Reason:     trimmedOrNil(input.Reason),
	}
	if input.AllDay {
		return block, nil, nil
	}

	if strings.TrimSpace(input.StartTime) == "" || strings.TrimSpace(input.EndTime) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end time are required unless blocking the whole day")
	}
	start, err := timefmt.ParseClock(input.StartTime)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start time")
	}
	end, err := timefmt.ParseClock(input.EndTime)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end time")
	}
	if !start.Before(end) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "start time must be before end time")
	}
	startStored, endStored := start.Storage(), end.Storage()
	block.StartTime, block.EndTime = &startStored, &endStored
	return block, &window{start: start, end: end}, nil
}

// conflicting keeps trades inside w. Trades without a time only conflict with
// all-day blocks.
func conflicting(rows []TradeRow, w *window) []TradeRow {
	if w == nil {
		return rows
	}
	out := make([]TradeRow, 0, len(rows))
	for _, row := range rows {
		if row.SelectedTime == nil {
			continue
		}
		at, err := timefmt.ParseClock(*row.SelectedTime)
		if err != nil {
			continue
		}
		if at.Minutes() >= w.start.Minutes() && at.Minutes() < w.end.Minutes() {
			out = append(out, row)
		}
	}
	return out
}

func (s *service) ListBlocked(ctx context.Context, locationID uuid.UUID) ([]BlockDTO, error) {
	rows, err := s.repo.ListUpcomingBlocked(ctx, locationID, timefmt.DateOf(s.now()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list blocked time")
	}
	out := make([]BlockDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toBlockDTO(row))
	}
	return out, nil
}

func (s *service) DeleteBlocked(ctx context.Context, locationID, blockID uuid.UUID) error {
	found, err := s.repo.DeleteBlocked(ctx, locationID, blockID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete blocked time")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "blocked time not found")
	}
	return nil
}

// notifyCancelled pushes one message per trade. Failures are logged and
// counted only.
func (s *service) notifyCancelled(ctx context.Context, loc *models.Location, trades []TradeRow) {
	var errs error
	for _, trade := range trades {
		errs = multierr.Append(errs, s.notifyTrade(ctx, loc, trade))
	}
	if errs == nil {
		return
	}
	for range multierr.Errors(errs) {
		s.metrics.IncPushFailure()
	}
	warnCtx := s.logg.WithFields(ctx, map[string]any{
		"location_id": loc.ID.String(),
		"trades":      len(trades),
		"error":       errs.Error(),
	})
	s.logg.Warn(warnCtx, "push.failed")
}

func (s *service) notifyTrade(ctx context.Context, loc *models.Location, trade TradeRow) error {
	tokens, err := s.repo.DeviceTokens(ctx, trade.Participants())
	if err != nil {
		return fmt.Errorf("trade %s: load devices: %w", trade.ID, err)
	}
	msg := push.Message{
		PlayerIDs: tokens,
		Title:     cancelTitle,
		Body:      fmt.Sprintf("Your trade at %s has been cancelled by the location.", loc.StoreName),
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("trade %s: %w", trade.ID, err)
	}
	return nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
