package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
)

func TestSnapshotUnknownUserIsUnauthenticated(t *testing.T) {
	svc := mustService(t, &stubRepo{userErr: gorm.ErrRecordNotFound})
	snap, err := svc.Snapshot(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StateUnauthenticated, snap.State)
}

func TestSnapshotInactiveUserIsUnauthenticated(t *testing.T) {
	svc := mustService(t, &stubRepo{user: &models.User{IsActive: false}})
	snap, err := svc.Snapshot(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StateUnauthenticated, snap.State)
}

func TestSnapshotOwnerLocation(t *testing.T) {
	loc := &models.Location{ID: uuid.New(), ApplicationApproved: true}
	svc := mustService(t, &stubRepo{user: &models.User{IsActive: true, IsAdmin: true}, owned: loc})
	snap, err := svc.Snapshot(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StateApproved, snap.State)
	assert.True(t, snap.IsAdmin)
	assert.Equal(t, loc.ID, snap.LocationID())
	assert.True(t, snap.Capabilities.Can(CapabilityManagePlan))
}

func TestSnapshotFallsBackToMembership(t *testing.T) {
	loc := &models.Location{ID: uuid.New()}
	repo := &stubRepo{
		user:     &models.User{IsActive: true},
		ownedErr: gorm.ErrRecordNotFound,
		membership: &models.LocationStaff{
			LocationID: loc.ID,
			Role:       enums.StaffRoleStaff,
			Status:     enums.StaffStatusActive,
		},
		location: loc,
	}
	snap, err := mustService(t, repo).Snapshot(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StatePending, snap.State)
	assert.Equal(t, enums.StaffRoleStaff, snap.Capabilities.Role())
}

func TestSnapshotNoLocationNeedsIntake(t *testing.T) {
	repo := &stubRepo{
		user:          &models.User{IsActive: true},
		ownedErr:      gorm.ErrRecordNotFound,
		membershipErr: gorm.ErrRecordNotFound,
	}
	snap, err := mustService(t, repo).Snapshot(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StateNeedsIntake, snap.State)
	assert.Nil(t, snap.Location())
	assert.Equal(t, uuid.Nil, snap.LocationID())
}

func TestSnapshotReadFailureIsNotNeedsIntake(t *testing.T) {
	repo := &stubRepo{
		user:     &models.User{IsActive: true},
		ownedErr: errors.New("connection reset by peer"),
	}
	snap, err := mustService(t, repo).Snapshot(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, LookupFailed, snap.Lookup.Status)
}

func TestSnapshotAgainstSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	owner := &models.User{Email: "owner@shop.test", PasswordHash: "x", IsActive: true}
	clerk := &models.User{Email: "clerk@shop.test", PasswordHash: "x", IsActive: true}
	require.NoError(t, conn.Create(owner).Error)
	require.NoError(t, conn.Create(clerk).Error)
	loc := &models.Location{OwnerID: owner.ID, StoreName: "Dragon's Den", Rejected: true}
	require.NoError(t, conn.Create(loc).Error)
	require.NoError(t, conn.Create(&models.LocationStaff{
		LocationID:  loc.ID,
		UserID:      clerk.ID,
		Role:        enums.StaffRoleAdmin,
		Status:      enums.StaffStatusActive,
		CanAddStaff: true,
	}).Error)

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	ownerSnap, err := svc.Snapshot(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, StateRejected, ownerSnap.State)
	assert.True(t, ownerSnap.Lookup.IsOwner())

	clerkSnap, err := svc.Snapshot(context.Background(), clerk.ID)
	require.NoError(t, err)
	assert.Equal(t, StateRejected, clerkSnap.State)
	assert.Equal(t, loc.ID, clerkSnap.LocationID())
	assert.True(t, clerkSnap.Capabilities.Can(CapabilityManageStaff))

	require.NoError(t, conn.Model(&models.Location{}).Where("id = ?", loc.ID).
		Updates(map[string]any{"rejected": false, "application_approved": true}).Error)
	again, err := svc.Snapshot(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, StateApproved, again.State)
}

func mustService(t *testing.T, repo repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

type stubRepo struct {
	user          *models.User
	userErr       error
	owned         *models.Location
	ownedErr      error
	membership    *models.LocationStaff
	membershipErr error
	location      *models.Location
	locationErr   error
}

func (s *stubRepo) FindUser(context.Context, uuid.UUID) (*models.User, error) {
	return s.user, s.userErr
}

func (s *stubRepo) FindOwnedLocation(context.Context, uuid.UUID) (*models.Location, error) {
	if s.ownedErr != nil {
		return nil, s.ownedErr
	}
	if s.owned == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.owned, nil
}

func (s *stubRepo) FindActiveMembership(context.Context, uuid.UUID) (*models.LocationStaff, error) {
	if s.membershipErr != nil {
		return nil, s.membershipErr
	}
	if s.membership == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.membership, nil
}

func (s *stubRepo) FindLocation(context.Context, uuid.UUID) (*models.Location, error) {
	if s.locationErr != nil {
		return nil, s.locationErr
	}
	if s.location == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.location, nil
}
