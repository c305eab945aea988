package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/internal/access"
	"github.com/cardchase/location-portal/pkg/db/models"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
)

type stubAccess struct {
	snap  access.Snapshot
	err   error
	calls int
}

func (s *stubAccess) Snapshot(_ context.Context, userID uuid.UUID) (access.Snapshot, error) {
	s.calls++
	snap := s.snap
	snap.UserID = userID
	return snap, s.err
}

type stateCounter map[string]int

func (c stateCounter) ObserveAccess(state string) { c[state]++ }

func serveWithSnapshot(handler http.Handler, snap access.Snapshot) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithSnapshot(req.Context(), snap))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAccessLoadsSnapshotPerRequest(t *testing.T) {
	svc := &stubAccess{snap: access.Snapshot{State: access.StatePending}}
	var seen access.State
	handler := Access(svc, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap, ok := SnapshotFromContext(r.Context())
		require.True(t, ok)
		seen = snap.State
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUserID(req.Context(), uuid.New()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, access.StatePending, seen)
	assert.Equal(t, 2, svc.calls)
}

func TestAccessFailureIsNotReportedAsMissingLocation(t *testing.T) {
	svc := &stubAccess{
		snap: access.Snapshot{State: access.StateError},
		err:  pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("timeout"), "load location"),
	}
	handler := Access(svc, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAccessRequiresUser(t *testing.T) {
	handler := Access(&stubAccess{}, nil)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateRedirectsByState(t *testing.T) {
	cases := []struct {
		state    access.State
		redirect string
	}{
		{access.StateNeedsIntake, "/intake"},
		{access.StatePending, "/pending"},
		{access.StateRejected, "/pending"},
		{access.StateUnauthenticated, "/login"},
	}
	counter := stateCounter{}
	handler := Gate(counter, nil, access.StateApproved)(okHandler())

	for _, tc := range cases {
		rec := serveWithSnapshot(handler, access.Snapshot{State: tc.state})
		require.Equal(t, http.StatusForbidden, rec.Code, tc.state)

		var body responses.ErrorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		details, ok := body.Error.Details.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, string(tc.state), details["access_state"])
		assert.Equal(t, tc.redirect, details["redirect"])
	}

	rec := serveWithSnapshot(handler, access.Snapshot{State: access.StateApproved})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, counter["approved"])
	assert.Equal(t, 1, counter["pending"])
}

func TestGateAllowsSeveralStates(t *testing.T) {
	handler := Gate(nil, nil, access.StatePending, access.StateRejected)(okHandler())
	assert.Equal(t, http.StatusOK, serveWithSnapshot(handler, access.Snapshot{State: access.StateRejected}).Code)
	assert.Equal(t, http.StatusOK, serveWithSnapshot(handler, access.Snapshot{State: access.StatePending}).Code)
	assert.Equal(t, http.StatusForbidden, serveWithSnapshot(handler, access.Snapshot{State: access.StateApproved}).Code)
}

func TestRequireCapability(t *testing.T) {
	owner := uuid.New()
	loc := &models.Location{ID: uuid.New(), OwnerID: owner}
	ownerSnap := access.Snapshot{
		UserID:       owner,
		State:        access.StateApproved,
		Capabilities: access.CapabilitiesFor(access.Found(loc, nil)),
	}
	viewer := access.Snapshot{State: access.StateApproved}

	handler := RequireCapability(access.CapabilityManageStaff, nil)(okHandler())
	assert.Equal(t, http.StatusOK, serveWithSnapshot(handler, ownerSnap).Code)
	assert.Equal(t, http.StatusForbidden, serveWithSnapshot(handler, viewer).Code)
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(nil)(okHandler())
	assert.Equal(t, http.StatusOK, serveWithSnapshot(handler, access.Snapshot{IsAdmin: true, State: access.StateNeedsIntake}).Code)
	assert.Equal(t, http.StatusForbidden, serveWithSnapshot(handler, access.Snapshot{State: access.StateApproved}).Code)
}
