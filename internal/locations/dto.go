package locations

import (
	"time"

	"github.com/google/uuid"

	"github.com/cardchase/location-portal/internal/plans"
	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
	"github.com/cardchase/location-portal/pkg/timefmt"
)

// ApplicationInput is the intake form, also used to edit a pending application.
type ApplicationInput struct {
	BusinessName string `json:"business_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

type BusinessInput struct {
	StoreName   string `json:"store_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

type AddressInput struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// LocationDTO is the owner-facing view of a location and its application.
type LocationDTO struct {
	ID                   uuid.UUID                `json:"id"`
	OwnerID              uuid.UUID                `json:"owner_id"`
	StoreName            string                   `json:"store_name"`
	Phone                *string                  `json:"phone,omitempty"`
	Email                *string                  `json:"email,omitempty"`
	Website              *string                  `json:"website,omitempty"`
	Description          *string                  `json:"description,omitempty"`
	Address              *string                  `json:"address,omitempty"`
	City                 *string                  `json:"city,omitempty"`
	State                *string                  `json:"state,omitempty"`
	Zip                  *string                  `json:"zip,omitempty"`
	Latitude             *float64                 `json:"latitude,omitempty"`
	Longitude            *float64                 `json:"longitude,omitempty"`
	Hours                map[string]string        `json:"hours"`
	SubscriptionTier     int                      `json:"subscription_tier"`
	SubscriptionStatus   enums.SubscriptionStatus `json:"subscription_status"`
	PlanName             string                   `json:"plan_name"`
	VisibleOnApp         bool                     `json:"visible_on_app"`
	Verified             bool                     `json:"verified"`
	ApplicationApproved  bool                     `json:"application_approved"`
	Rejected             bool                     `json:"rejected"`
	RejectionReason      *string                  `json:"rejection_reason,omitempty"`
	SubmittedAt          *time.Time               `json:"submitted_at,omitempty"`
	ApplicationUpdatedAt *time.Time               `json:"application_updated_at,omitempty"`
	ReviewedAt           *time.Time               `json:"reviewed_at,omitempty"`
}

// FromModel renders a stored location. Hours are always a full week.
func FromModel(loc *models.Location) LocationDTO {
	hours, err := timefmt.EncodeHours(timefmt.DecodeHours(loc.Hours))
	if err != nil {
		hours = loc.Hours
	}
	planName := ""
	if plan, ok := plans.ByTier(loc.SubscriptionTier); ok {
		planName = plan.Name
	}
	return LocationDTO{
		ID:                   loc.ID,
		OwnerID:              loc.OwnerID,
		StoreName:            loc.StoreName,
		Phone:                loc.Phone,
		Email:                loc.Email,
		Website:              loc.Website,
		Description:          loc.Description,
		Address:              loc.Address,
		City:                 loc.City,
		State:                loc.State,
		Zip:                  loc.Zip,
		Latitude:             loc.Latitude,
		Longitude:            loc.Longitude,
		Hours:                hours,
		SubscriptionTier:     loc.SubscriptionTier,
		SubscriptionStatus:   loc.SubscriptionStatus,
		PlanName:             planName,
		VisibleOnApp:         loc.VisibleOnApp,
		Verified:             loc.Verified,
		ApplicationApproved:  loc.ApplicationApproved,
		Rejected:             loc.Rejected,
		RejectionReason:      loc.RejectionReason,
		SubmittedAt:          loc.SubmittedAt,
		ApplicationUpdatedAt: loc.ApplicationUpdatedAt,
		ReviewedAt:           loc.ReviewedAt,
	}
}

// AddressResult reports whether the saved address could be placed on the map.
type AddressResult struct {
	Location LocationDTO `json:"location"`
	Geocoded bool        `json:"geocoded"`
}

// Overview feeds the dashboard landing page.
type Overview struct {
	Location       LocationDTO `json:"location"`
	Followers      int64       `json:"followers"`
	UpcomingTrades int64       `json:"upcoming_trades"`
	ActiveEvents   int         `json:"active_events"`
	InactiveEvents int         `json:"inactive_events"`
	EventLimit     int         `json:"event_limit"`
}
