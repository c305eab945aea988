// Package staff manages who works at a location and what they may do there.
package staff

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
)

const (
	minSearchLength = 2
	maxSearchResult = 10
)

type repository interface {
	ListMembers(ctx context.Context, locationID uuid.UUID, statuses []enums.StaffStatus) ([]memberRow, error)
	SearchUsers(ctx context.Context, locationID uuid.UUID, term string, excluded []enums.StaffStatus, limit int) ([]models.User, error)
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindMember(ctx context.Context, locationID, staffID uuid.UUID) (*models.LocationStaff, error)
	FindMemberByUser(ctx context.Context, locationID, userID uuid.UUID) (*models.LocationStaff, error)
	Upsert(ctx context.Context, member *models.LocationStaff) error
	UpdateMember(ctx context.Context, staffID uuid.UUID, fields map[string]any) error
}

type Service interface {
	List(ctx context.Context, locationID uuid.UUID) ([]MemberDTO, error)
	Search(ctx context.Context, locationID uuid.UUID, query string) ([]CandidateDTO, error)
	Add(ctx context.Context, locationID, actorID, userID uuid.UUID) (*MemberDTO, error)
	Remove(ctx context.Context, locationID, staffID uuid.UUID) error
	ToggleAdmin(ctx context.Context, locationID, staffID uuid.UUID) (*MemberDTO, error)
}

type service struct {
	repo repository
	now  func() time.Time
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("staff repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// List returns active and pending members: owner first, then admins, then staff.
func (s *service) List(ctx context.Context, locationID uuid.UUID) ([]MemberDTO, error) {
	rows, err := s.repo.ListMembers(ctx, locationID, enums.VisibleStaffStatuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Role.Rank() < rows[j].Role.Rank()
	})
	out := make([]MemberDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, memberFromRow(row))
	}
	return out, nil
}

// Search returns no candidates for queries shorter than two characters.
func (s *service) Search(ctx context.Context, locationID uuid.UUID, query string) ([]CandidateDTO, error) {
	term := strings.TrimSpace(query)
	if len([]rune(term)) < minSearchLength {
		return []CandidateDTO{}, nil
	}
	users, err := s.repo.SearchUsers(ctx, locationID, term, enums.VisibleStaffStatuses, maxSearchResult)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search users")
	}
	out := make([]CandidateDTO, 0, len(users))
	for _, u := range users {
		out = append(out, CandidateDTO{
			ID:        u.ID,
			Name:      displayName(u.FirstName, u.LastName, u.Username, u.Email),
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		})
	}
	return out, nil
}

// Add puts the user on the roster as active staff. A previously removed member
// is reinstated with staff permissions.
func (s *service) Add(ctx context.Context, locationID, actorID, userID uuid.UUID) (*MemberDTO, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	existing, err := s.repo.FindMemberByUser(ctx, locationID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	if existing != nil && existing.Role == enums.StaffRoleOwner {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "the owner is already on this location")
	}

	now := s.now().UTC()
	member := &models.LocationStaff{
		LocationID:  locationID,
		UserID:      userID,
		Role:        enums.StaffRoleStaff,
		Status:      enums.StaffStatusActive,
		CanAddStaff: false,
		InvitedBy:   &actorID,
		InvitedAt:   &now,
		AcceptedAt:  &now,
	}
	if err := s.repo.Upsert(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add staff")
	}

	stored, err := s.repo.FindMemberByUser(ctx, locationID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload membership")
	}
	dto := memberFromRow(memberRow{
		ID:          stored.ID,
		LocationID:  stored.LocationID,
		UserID:      stored.UserID,
		Role:        stored.Role,
		CanAddStaff: stored.CanAddStaff,
		Status:      stored.Status,
		InvitedAt:   stored.InvitedAt,
		AcceptedAt:  stored.AcceptedAt,
		Email:       user.Email,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
	})
	return &dto, nil
}

func (s *service) Remove(ctx context.Context, locationID, staffID uuid.UUID) error {
	member, err := s.loadMutable(ctx, locationID, staffID)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateMember(ctx, member.ID, map[string]any{"status": enums.StaffStatusRemoved}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove staff")
	}
	return nil
}

// ToggleAdmin flips can_add_staff. Members who gain it become admins; members
// who lose it go back to staff.
func (s *service) ToggleAdmin(ctx context.Context, locationID, staffID uuid.UUID) (*MemberDTO, error) {
	member, err := s.loadMutable(ctx, locationID, staffID)
	if err != nil {
		return nil, err
	}
	if member.Status == enums.StaffStatusRemoved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "member has been removed")
	}

	canAdd := !member.CanAddStaff
	role := enums.StaffRoleStaff
	if canAdd {
		role = enums.StaffRoleAdmin
	}
	if err := s.repo.UpdateMember(ctx, member.ID, map[string]any{"can_add_staff": canAdd, "role": role}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update staff permissions")
	}

	member.CanAddStaff = canAdd
	member.Role = role
	dto := MemberDTO{
		ID:          member.ID,
		UserID:      member.UserID,
		Role:        member.Role,
		Status:      member.Status,
		CanAddStaff: member.CanAddStaff,
		InvitedAt:   member.InvitedAt,
		AcceptedAt:  member.AcceptedAt,
	}
	return &dto, nil
}

// loadMutable fetches a member that is not the owner.
func (s *service) loadMutable(ctx context.Context, locationID, staffID uuid.UUID) (*models.LocationStaff, error) {
	member, err := s.repo.FindMember(ctx, locationID, staffID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff member")
	}
	if member.Role == enums.StaffRoleOwner {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "the owner's membership cannot be changed")
	}
	return member, nil
}
