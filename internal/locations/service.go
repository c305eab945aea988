// Package locations handles a partner's application and the profile of the
// location it creates.
package locations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/internal/events"
	"github.com/cardchase/location-portal/internal/plans"
	"github.com/cardchase/location-portal/pkg/db"
	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/geocode"
	"github.com/cardchase/location-portal/pkg/logger"
	"github.com/cardchase/location-portal/pkg/timefmt"
)

// Geocoder resolves a street address to coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, addr geocode.Address) (geocode.Point, error)
}

type metricsRecorder interface {
	ObserveGeocode(result string)
}

type Service interface {
	SubmitIntake(ctx context.Context, ownerID uuid.UUID, input ApplicationInput) (*LocationDTO, error)
	UpdateApplication(ctx context.Context, loc *models.Location, input ApplicationInput) (*LocationDTO, error)
	UpdateBusiness(ctx context.Context, loc *models.Location, input BusinessInput) (*LocationDTO, error)
	UpdateAddress(ctx context.Context, loc *models.Location, input AddressInput) (*AddressResult, error)
	GetHours(loc *models.Location) map[string]timefmt.DayHours
	UpdateHours(ctx context.Context, loc *models.Location, week map[string]timefmt.DayHours) (map[string]timefmt.DayHours, error)
	SetVisibility(ctx context.Context, loc *models.Location, visible bool) (*LocationDTO, error)
	ChangePlan(ctx context.Context, loc *models.Location, tier int) (*LocationDTO, error)
	Overview(ctx context.Context, loc *models.Location) (*Overview, error)
}

type ServiceParams struct {
	DB       *db.Client
	Geocoder Geocoder
	Metrics  metricsRecorder
	Logger   *logger.Logger
}

type service struct {
	db       *db.Client
	repo     *Repository
	geocoder Geocoder
	metrics  metricsRecorder
	logg     *logger.Logger
	now      func() time.Time
}

type noopMetrics struct{}

func (noopMetrics) ObserveGeocode(string) {}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	var recorder metricsRecorder = noopMetrics{}
	if params.Metrics != nil {
		recorder = params.Metrics
	}
	return &service{
		db:       params.DB,
		repo:     NewRepository(params.DB.DB()),
		geocoder: params.Geocoder,
		metrics:  recorder,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// SubmitIntake creates the caller's location, their owner membership and flags
// the account as a location account, all at once. A second submission conflicts.
func (s *service) SubmitIntake(ctx context.Context, ownerID uuid.UUID, input ApplicationInput) (*LocationDTO, error) {
	input = input.trimmed()
	if input.BusinessName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Business name is required").
			WithDetails(map[string]string{"business_name": "required"})
	}

	now := s.now().UTC()
	loc := &models.Location{
		OwnerID:              ownerID,
		StoreName:            input.BusinessName,
		Phone:                optional(input.Phone),
		Email:                optional(input.Email),
		Website:              optional(input.Website),
		Description:          optional(input.Description),
		Address:              optional(input.Address),
		City:                 optional(input.City),
		State:                optional(input.State),
		Zip:                  optional(input.Zip),
		SubscriptionTier:     plans.TierFree,
		SubscriptionStatus:   enums.SubscriptionStatusFree,
		SubmittedAt:          &now,
		ApplicationUpdatedAt: &now,
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByOwner(ctx, ownerID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "an application has already been submitted")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing location")
		}

		if err := repo.Create(ctx, loc); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "an application has already been submitted")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
		}
		if err := repo.CreateStaff(ctx, &models.LocationStaff{
			LocationID:  loc.ID,
			UserID:      ownerID,
			Role:        enums.StaffRoleOwner,
			Status:      enums.StaffStatusActive,
			CanAddStaff: true,
			AcceptedAt:  &now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create owner membership")
		}
		if err := repo.MarkUserAsLocation(ctx, ownerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flag location account")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := FromModel(loc)
	return &dto, nil
}

// UpdateApplication lets a pending or rejected applicant correct their details.
// Review flags are left as they are.
func (s *service) UpdateApplication(ctx context.Context, loc *models.Location, input ApplicationInput) (*LocationDTO, error) {
	input = input.trimmed()
	if input.BusinessName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Business name is required").
			WithDetails(map[string]string{"business_name": "required"})
	}
	fields := map[string]any{
		"store_name":             input.BusinessName,
		"phone":                  optional(input.Phone),
		"email":                  optional(input.Email),
		"website":                optional(input.Website),
		"description":            optional(input.Description),
		"address":                optional(input.Address),
		"city":                   optional(input.City),
		"state":                  optional(input.State),
		"zip":                    optional(input.Zip),
		"application_updated_at": s.now().UTC(),
	}
	return s.update(ctx, loc, fields, "update application")
}

func (s *service) UpdateBusiness(ctx context.Context, loc *models.Location, input BusinessInput) (*LocationDTO, error) {
	name := strings.TrimSpace(input.StoreName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Store name is required").
			WithDetails(map[string]string{"store_name": "required"})
	}
	fields := map[string]any{
		"store_name":             name,
		"phone":                  optional(input.Phone),
		"email":                  optional(input.Email),
		"website":                optional(input.Website),
		"description":            optional(input.Description),
		"application_updated_at": s.now().UTC(),
	}
	return s.update(ctx, loc, fields, "update business info")
}

// UpdateAddress saves the address and, when street, city and state are all
// present, tries to geocode it. A failed lookup keeps the old coordinates.
func (s *service) UpdateAddress(ctx context.Context, loc *models.Location, input AddressInput) (*AddressResult, error) {
	addr := geocode.Address{
		Street: strings.TrimSpace(input.Address),
		City:   strings.TrimSpace(input.City),
		State:  strings.TrimSpace(input.State),
		Zip:    strings.TrimSpace(input.Zip),
	}
	fields := map[string]any{
		"address": optional(addr.Street),
		"city":    optional(addr.City),
		"state":   optional(addr.State),
		"zip":     optional(addr.Zip),
	}

	geocoded := false
	if point, ok := s.geocode(ctx, loc, addr); ok {
		fields["latitude"] = point.Latitude
		fields["longitude"] = point.Longitude
		geocoded = true
	}

	dto, err := s.update(ctx, loc, fields, "update address")
	if err != nil {
		return nil, err
	}
	return &AddressResult{Location: *dto, Geocoded: geocoded}, nil
}

func (s *service) geocode(ctx context.Context, loc *models.Location, addr geocode.Address) (geocode.Point, bool) {
	if s.geocoder == nil || !addr.Complete() {
		return geocode.Point{}, false
	}
	point, err := s.geocoder.Lookup(ctx, addr)
	switch {
	case err == nil:
		s.metrics.ObserveGeocode("ok")
		return point, true
	case errors.Is(err, geocode.ErrNoMatch):
		s.metrics.ObserveGeocode("no_match")
	default:
		s.metrics.ObserveGeocode("error")
	}
	warnCtx := s.logg.WithFields(ctx, map[string]any{
		"location_id": loc.ID.String(),
		"error":       err.Error(),
	})
	s.logg.Warn(warnCtx, "geocode.failed")
	return geocode.Point{}, false
}

func (s *service) GetHours(loc *models.Location) map[string]timefmt.DayHours {
	return timefmt.DecodeHours(loc.Hours)
}

func (s *service) UpdateHours(ctx context.Context, loc *models.Location, week map[string]timefmt.DayHours) (map[string]timefmt.DayHours, error) {
	stored, err := timefmt.EncodeHours(week)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid operating hours")
	}
	if _, err := s.update(ctx, loc, map[string]any{"hours": models.HoursValue(stored)}, "update hours"); err != nil {
		return nil, err
	}
	return timefmt.DecodeHours(stored), nil
}

// SetVisibility lists or hides the location in the consumer app. Only verified
// locations may be listed.
func (s *service) SetVisibility(ctx context.Context, loc *models.Location, visible bool) (*LocationDTO, error) {
	if visible && !loc.Verified {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "location must be verified before it can be shown in the app")
	}
	return s.update(ctx, loc, map[string]any{"visible_on_app": visible}, "update visibility")
}

func (s *service) ChangePlan(ctx context.Context, loc *models.Location, tier int) (*LocationDTO, error) {
	if !plans.ValidTier(tier) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plan tier").
			WithDetails(map[string]any{"tier": tier})
	}
	if tier == loc.SubscriptionTier {
		dto := FromModel(loc)
		return &dto, nil
	}
	return s.update(ctx, loc, map[string]any{
		"subscription_tier":   tier,
		"subscription_status": enums.SubscriptionStatusForTier(tier),
	}, "change plan")
}

func (s *service) Overview(ctx context.Context, loc *models.Location) (*Overview, error) {
	followers, err := s.repo.CountFollowers(ctx, loc.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count followers")
	}
	upcoming, err := s.repo.CountUpcomingTrades(ctx, loc.ID, timefmt.DateOf(s.now()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count trades")
	}
	eventCount, err := s.repo.CountRecurringEvents(ctx, loc.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count events")
	}

	active, inactive := events.Partition(loc.SubscriptionTier, make([]struct{}, eventCount))
	return &Overview{
		Location:       FromModel(loc),
		Followers:      followers,
		UpcomingTrades: upcoming,
		ActiveEvents:   len(active),
		InactiveEvents: len(inactive),
		EventLimit:     plans.EventLimit(loc.SubscriptionTier),
	}, nil
}

// update persists fields and returns the re-read location.
func (s *service) update(ctx context.Context, loc *models.Location, fields map[string]any, op string) (*LocationDTO, error) {
	if err := s.repo.Update(ctx, loc.ID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
	fresh, err := s.repo.FindByID(ctx, loc.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload location")
	}
	*loc = *fresh
	dto := FromModel(fresh)
	return &dto, nil
}

func (in ApplicationInput) trimmed() ApplicationInput {
	return ApplicationInput{
		BusinessName: strings.TrimSpace(in.BusinessName),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Website:      strings.TrimSpace(in.Website),
		Description:  strings.TrimSpace(in.Description),
		Address:      strings.TrimSpace(in.Address),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Zip:          strings.TrimSpace(in.Zip),
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
