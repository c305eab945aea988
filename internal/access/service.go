package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/db/models"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
)

type repository interface {
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindOwnedLocation(ctx context.Context, ownerID uuid.UUID) (*models.Location, error)
	FindActiveMembership(ctx context.Context, userID uuid.UUID) (*models.LocationStaff, error)
	FindLocation(ctx context.Context, id uuid.UUID) (*models.Location, error)
}

// Snapshot is everything a request needs to know about its caller, read once.
type Snapshot struct {
	UserID       uuid.UUID
	IsAdmin      bool
	State        State
	Lookup       LocationLookup
	Capabilities Capabilities
}

// Location returns the caller's location, or nil outside the found state.
func (s Snapshot) Location() *models.Location {
	if s.Lookup.Status != LookupFound {
		return nil
	}
	return s.Lookup.Location
}

// LocationID returns the caller's location id, or uuid.Nil.
func (s Snapshot) LocationID() uuid.UUID {
	if loc := s.Location(); loc != nil {
		return loc.ID
	}
	return uuid.Nil
}

type Service interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("access repository required")
	}
	return &service{repo: repo}, nil
}

// Snapshot reads the caller's account and location fresh from storage. A read
// failure yields StateError plus a dependency error; it is never reported as a
// missing location.
func (s *service) Snapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	snap := Snapshot{UserID: userID, Lookup: LocationLookup{Status: LookupNotLoaded}}

	user, err := s.repo.FindUser(ctx, userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		snap.State = StateUnauthenticated
		return snap, nil
	case err != nil:
		snap.Lookup = Failed(err)
		snap.State = StateError
		return snap, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	if !user.IsActive {
		snap.State = StateUnauthenticated
		return snap, nil
	}
	snap.IsAdmin = user.IsAdmin

	snap.Lookup = s.lookupLocation(ctx, userID)
	snap.State = StateFor(true, snap.Lookup)
	snap.Capabilities = CapabilitiesFor(snap.Lookup)
	if snap.Lookup.Status == LookupFailed {
		return snap, pkgerrors.Wrap(pkgerrors.CodeDependency, snap.Lookup.Err, "load location")
	}
	return snap, nil
}

func (s *service) lookupLocation(ctx context.Context, userID uuid.UUID) LocationLookup {
	owned, err := s.repo.FindOwnedLocation(ctx, userID)
	if err == nil {
		return Found(owned, nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Failed(err)
	}

	membership, err := s.repo.FindActiveMembership(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Missing()
	}
	if err != nil {
		return Failed(err)
	}

	loc, err := s.repo.FindLocation(ctx, membership.LocationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Missing()
	}
	if err != nil {
		return Failed(err)
	}
	return Found(loc, membership)
}
