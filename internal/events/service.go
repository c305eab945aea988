// Package events manages a location's recurring weekly events within the
// allowance of its subscription tier.
package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cardchase/location-portal/internal/plans"
	"github.com/cardchase/location-portal/pkg/db/models"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/timefmt"
)

type repository interface {
	ListRecurring(ctx context.Context, locationID uuid.UUID) ([]models.LocationEvent, error)
	CountRecurring(ctx context.Context, locationID uuid.UUID) (int64, error)
	Create(ctx context.Context, event *models.LocationEvent) error
	Delete(ctx context.Context, locationID, eventID uuid.UUID) (bool, error)
}

type Service interface {
	List(ctx context.Context, locationID uuid.UUID, tier int) (*ListResult, error)
	Create(ctx context.Context, locationID uuid.UUID, tier int, input CreateInput) (*EventDTO, error)
	Delete(ctx context.Context, locationID, eventID uuid.UUID) error
}

type service struct {
	repo repository
	now  func() time.Time
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, locationID uuid.UUID, tier int) (*ListResult, error) {
	rows, err := s.repo.ListRecurring(ctx, locationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	active, inactive := Partition(tier, rows)
	return &ListResult{
		Active:   toDTOs(active),
		Inactive: toDTOs(inactive),
		Limit:    plans.EventLimit(tier),
		Tier:     tier,
		CanAdd:   CanCreate(tier, len(rows)),
	}, nil
}

func (s *service) Create(ctx context.Context, locationID uuid.UUID, tier int, input CreateInput) (*EventDTO, error) {
	event, err := s.buildEvent(locationID, input)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountRecurring(ctx, locationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count events")
	}
	if !CanCreate(tier, int(count)) {
		limit := plans.EventLimit(tier)
		return nil, pkgerrors.New(pkgerrors.CodeCapacity,
			fmt.Sprintf("You've reached the limit of %d weekly events for your tier.", limit)).
			WithDetails(map[string]any{"limit": limit, "tier": tier})
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
	}
	dto := toDTO(*event)
	return &dto, nil
}

func (s *service) buildEvent(locationID uuid.UUID, input CreateInput) (*models.LocationEvent, error) {
	day := strings.TrimSpace(input.Day)
	if !input.Category.IsValid() || day == "" || strings.TrimSpace(input.StartTime) == "" || strings.TrimSpace(input.EndTime) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Please fill in all fields")
	}
	if !timefmt.IsWeekday(day) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid day of week").
			WithDetails(map[string]string{"day": "must be a full weekday name"})
	}
	start, err := timefmt.ParseClock(input.StartTime)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start time")
	}
	end, err := timefmt.ParseClock(input.EndTime)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end time")
	}
	if !start.Before(end) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start time must be before end time")
	}

	return &models.LocationEvent{
		LocationID:    locationID,
		Name:          EventName(input.Category, start.Storage()),
		Description:   input.Category.String(),
		EventDate:     timefmt.DateOf(s.now()),
		StartTime:     start.Storage(),
		EndTime:       end.Storage(),
		IsRecurring:   true,
		RecurrenceDay: day,
	}, nil
}

func (s *service) Delete(ctx context.Context, locationID, eventID uuid.UUID) error {
	found, err := s.repo.Delete(ctx, locationID, eventID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete event")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
	}
	return nil
}
