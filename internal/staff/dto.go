package staff

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cardchase/location-portal/pkg/enums"
)

type memberRow struct {
	ID          uuid.UUID
	LocationID  uuid.UUID
	UserID      uuid.UUID
	Role        enums.StaffRole
	CanAddStaff bool
	Status      enums.StaffStatus
	InvitedAt   *time.Time
	AcceptedAt  *time.Time
	CreatedAt   time.Time
	Email       string
	Username    *string
	FirstName   *string
	LastName    *string
}

// MemberDTO is one row of the staff roster.
type MemberDTO struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Role        enums.StaffRole   `json:"role"`
	Status      enums.StaffStatus `json:"status"`
	CanAddStaff bool              `json:"can_add_staff"`
	Name        string            `json:"name"`
	Username    *string           `json:"username,omitempty"`
	Email       string            `json:"email"`
	InvitedAt   *time.Time        `json:"invited_at,omitempty"`
	AcceptedAt  *time.Time        `json:"accepted_at,omitempty"`
}

func memberFromRow(row memberRow) MemberDTO {
	return MemberDTO{
		ID:          row.ID,
		UserID:      row.UserID,
		Role:        row.Role,
		Status:      row.Status,
		CanAddStaff: row.CanAddStaff,
		Name:        displayName(row.FirstName, row.LastName, row.Username, row.Email),
		Username:    row.Username,
		Email:       row.Email,
		InvitedAt:   row.InvitedAt,
		AcceptedAt:  row.AcceptedAt,
	}
}

// CandidateDTO is a user who could be added to the roster.
type CandidateDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Username  *string   `json:"username,omitempty"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Email     string    `json:"email"`
}

// displayName prefers "First Last", then the username, then the email.
func displayName(first, last, username *string, email string) string {
	parts := make([]string, 0, 2)
	for _, p := range []*string{first, last} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if username != nil && strings.TrimSpace(*username) != "" {
		return *username
	}
	return email
}
