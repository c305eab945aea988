package admin

import (
	"time"

	"github.com/google/uuid"

	"github.com/cardchase/location-portal/internal/locations"
	"github.com/cardchase/location-portal/pkg/db/models"
)

type applicationRow struct {
	models.Location
	OwnerEmail     string  `gorm:"column:owner_email"`
	OwnerFirstName *string `gorm:"column:owner_first_name"`
	OwnerLastName  *string `gorm:"column:owner_last_name"`
}

// ApplicationStatus is the review outcome shown in the console.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

func statusOf(loc *models.Location) ApplicationStatus {
	switch {
	case loc.ApplicationApproved:
		return StatusApproved
	case loc.Rejected:
		return StatusRejected
	default:
		return StatusPending
	}
}

type Owner struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
}

// ApplicationDTO is a location application as an admin reviews it.
type ApplicationDTO struct {
	locations.LocationDTO
	Status     ApplicationStatus `json:"status"`
	AdminNotes *string           `json:"admin_notes,omitempty"`
	ReviewedBy *uuid.UUID        `json:"reviewed_by,omitempty"`
	Owner      Owner             `json:"owner"`
}

func toApplication(row applicationRow) ApplicationDTO {
	loc := row.Location
	return ApplicationDTO{
		LocationDTO: locations.FromModel(&loc),
		Status:      statusOf(&loc),
		AdminNotes:  loc.AdminNotes,
		ReviewedBy:  loc.ReviewedBy,
		Owner: Owner{
			ID:        loc.OwnerID,
			Email:     row.OwnerEmail,
			FirstName: row.OwnerFirstName,
			LastName:  row.OwnerLastName,
		},
	}
}

// sortTime is the listing order key; applications always carry submitted_at,
// created_at covers rows that predate it.
func sortTime(row applicationRow) time.Time {
	if row.SubmittedAt != nil {
		return *row.SubmittedAt
	}
	return row.CreatedAt
}

type ApproveInput struct {
	Notes *string `json:"notes"`
}

type RejectInput struct {
	Reason string  `json:"reason"`
	Notes  *string `json:"notes"`
}

type NotesInput struct {
	Notes string `json:"notes"`
}
