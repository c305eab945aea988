package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardchase/location-portal/api/middleware"
	"github.com/cardchase/location-portal/api/responses"
	"github.com/cardchase/location-portal/internal/access"
	"github.com/cardchase/location-portal/internal/admin"
	"github.com/cardchase/location-portal/internal/auth"
	"github.com/cardchase/location-portal/internal/events"
	"github.com/cardchase/location-portal/internal/schedule"
	"github.com/cardchase/location-portal/internal/staff"
	"github.com/cardchase/location-portal/internal/users"
	"github.com/cardchase/location-portal/pkg/config"
	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/pagination"
)

func approvedSnapshot(loc *models.Location) access.Snapshot {
	lookup := access.Found(loc, nil)
	return access.Snapshot{
		UserID:       loc.OwnerID,
		State:        access.StateApproved,
		Lookup:       lookup,
		Capabilities: access.CapabilitiesFor(lookup),
	}
}

func withSnapshot(req *http.Request, snap access.Snapshot) *http.Request {
	ctx := middleware.WithUserID(req.Context(), snap.UserID)
	return req.WithContext(middleware.WithSnapshot(ctx, snap))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) responses.APIError {
	t.Helper()
	var env responses.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	rec := httptest.NewRecorder()
	HealthReady(cfg, nil, fakePinger{}, fakePinger{})(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-CardChase-Env"))

	rec = httptest.NewRecorder()
	HealthReady(cfg, nil, fakePinger{}, fakePinger{err: errors.New("down")})(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type stubAuth struct {
	auth.Service
	signup    auth.SignupRequest
	loggedOut string
}

func (s *stubAuth) Signup(_ context.Context, req auth.SignupRequest) (*auth.TokenResponse, error) {
	s.signup = req
	if req.Password != req.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Passwords do not match")
	}
	return &auth.TokenResponse{AccessToken: "a", RefreshToken: "r", User: &users.UserDTO{Email: req.Email, IsLocation: true}}, nil
}

func (s *stubAuth) Logout(_ context.Context, token string) error {
	s.loggedOut = token
	return nil
}

func TestAuthSignup(t *testing.T) {
	svc := &stubAuth{}
	body := `{"email":"shop@example.com","password":"abcdefgh","confirm_password":"abcdefgh"}`

	rec := httptest.NewRecorder()
	AuthSignup(svc, nil)(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "shop@example.com", svc.signup.Email)

	rec = httptest.NewRecorder()
	mismatch := `{"email":"shop@example.com","password":"abcdefgh","confirm_password":"nope"}`
	AuthSignup(svc, nil)(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(mismatch)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Passwords do not match", decodeError(t, rec).Message)
}

func TestAuthLogoutRequiresBearer(t *testing.T) {
	svc := &stubAuth{}

	rec := httptest.NewRecorder()
	AuthLogout(svc, nil)(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	AuthLogout(svc, nil)(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "tok", svc.loggedOut)
}

func TestAccessStateReportsCapabilities(t *testing.T) {
	loc := &models.Location{ID: uuid.New(), OwnerID: uuid.New()}
	req := withSnapshot(httptest.NewRequest(http.MethodGet, "/access", nil), approvedSnapshot(loc))
	rec := httptest.NewRecorder()
	AccessState(nil)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data accessResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, access.StateApproved, env.Data.State)
	assert.Equal(t, "/", env.Data.Redirect)
	assert.Equal(t, enums.StaffRoleOwner, env.Data.Role)
	assert.Contains(t, env.Data.Capabilities, "grant_admin")
	require.NotNil(t, env.Data.LocationID)
	assert.Equal(t, loc.ID, *env.Data.LocationID)
}

func TestPendingStatusWithoutLocationRedirectsToIntake(t *testing.T) {
	snap := access.Snapshot{UserID: uuid.New(), State: access.StateNeedsIntake, Lookup: access.Missing()}
	req := withSnapshot(httptest.NewRequest(http.MethodGet, "/pending", nil), snap)
	rec := httptest.NewRecorder()
	PendingStatus(nil)(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	details, ok := decodeError(t, rec).Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/intake", details["redirect"])
}

func TestPlanCatalogMarksCurrentTier(t *testing.T) {
	loc := &models.Location{ID: uuid.New(), OwnerID: uuid.New(), SubscriptionTier: 2}
	req := withSnapshot(httptest.NewRequest(http.MethodGet, "/plans", nil), approvedSnapshot(loc))
	rec := httptest.NewRecorder()
	PlanCatalog()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data struct {
			Plans []struct {
				Tier       int    `json:"tier"`
				PriceLabel string `json:"price_label"`
				Current    bool   `json:"current"`
			} `json:"plans"`
			CurrentTier int `json:"current_tier"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Plans, 4)
	assert.Equal(t, 2, env.Data.CurrentTier)
	for _, p := range env.Data.Plans {
		assert.Equal(t, p.Tier == 2, p.Current)
	}
	assert.Equal(t, "$150", env.Data.Plans[2].PriceLabel)
}

type stubStaff struct {
	staff.Service
	actor, added uuid.UUID
	removed      uuid.UUID
}

func (s *stubStaff) Add(_ context.Context, _ uuid.UUID, actorID, userID uuid.UUID) (*staff.MemberDTO, error) {
	s.actor, s.added = actorID, userID
	return &staff.MemberDTO{UserID: userID, Role: enums.StaffRoleStaff}, nil
}

func (s *stubStaff) Remove(_ context.Context, _ uuid.UUID, staffID uuid.UUID) error {
	s.removed = staffID
	return nil
}

func TestStaffAddAndRemove(t *testing.T) {
	loc := &models.Location{ID: uuid.New(), OwnerID: uuid.New()}
	svc := &stubStaff{}
	target := uuid.New()

	r := chi.NewRouter()
	r.Post("/staff", StaffAdd(svc, nil))
	r.Delete("/staff/{staffId}", StaffRemove(svc, nil))

	req := withSnapshot(httptest.NewRequest(http.MethodPost, "/staff", strings.NewReader(`{"user_id":"`+target.String()+`"}`)), approvedSnapshot(loc))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, loc.OwnerID, svc.actor)
	assert.Equal(t, target, svc.added)

	staffID := uuid.New()
	req = withSnapshot(httptest.NewRequest(http.MethodDelete, "/staff/"+staffID.String(), nil), approvedSnapshot(loc))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, staffID, svc.removed)

	req = withSnapshot(httptest.NewRequest(http.MethodDelete, "/staff/not-a-uuid", nil), approvedSnapshot(loc))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubSchedule struct {
	schedule.Service
	anchor time.Time
}

func (s *stubSchedule) Week(_ context.Context, _ uuid.UUID, anchor time.Time) (*schedule.Week, error) {
	s.anchor = anchor
	return &schedule.Week{}, nil
}

func TestScheduleWeekParsesAnchor(t *testing.T) {
	loc := &models.Location{ID: uuid.New(), OwnerID: uuid.New()}
	svc := &stubSchedule{}

	req := withSnapshot(httptest.NewRequest(http.MethodGet, "/schedule/week?anchor=2024-05-09", nil), approvedSnapshot(loc))
	rec := httptest.NewRecorder()
	ScheduleWeek(svc, nil)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), svc.anchor)

	req = withSnapshot(httptest.NewRequest(http.MethodGet, "/schedule/week?anchor=yesterday", nil), approvedSnapshot(loc))
	rec = httptest.NewRecorder()
	ScheduleWeek(svc, nil)(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubEvents struct {
	events.Service
	tier  int
	input events.CreateInput
}

func (s *stubEvents) Create(_ context.Context, _ uuid.UUID, tier int, input events.CreateInput) (*events.EventDTO, error) {
	s.tier, s.input = tier, input
	if tier == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeCapacity, "You've reached the limit of 0 weekly events for your tier.")
	}
	return &events.EventDTO{Name: "Trade Night"}, nil
}

func TestEventCreateUsesLocationTier(t *testing.T) {
	body := `{"category":"trade","day":"Friday","start_time":"7:00 PM","end_time":"9:00 PM"}`
	svc := &stubEvents{}

	loc := &models.Location{ID: uuid.New(), OwnerID: uuid.New(), SubscriptionTier: 3}
	req := withSnapshot(httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body)), approvedSnapshot(loc))
	rec := httptest.NewRecorder()
	EventCreate(svc, nil)(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 3, svc.tier)
	assert.Equal(t, enums.EventCategoryTrade, svc.input.Category)
	assert.Equal(t, "Friday", svc.input.Day)

	free := &models.Location{ID: uuid.New(), OwnerID: uuid.New()}
	req = withSnapshot(httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body)), approvedSnapshot(free))
	rec = httptest.NewRecorder()
	EventCreate(svc, nil)(rec, req)
	assert.NotEqual(t, http.StatusCreated, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeCapacity), decodeError(t, rec).Code)
}

type stubAdmin struct {
	admin.Service
	filter   enums.ApplicationFilter
	params   pagination.Params
	reviewer uuid.UUID
	approve  admin.ApproveInput
}

func (s *stubAdmin) List(_ context.Context, filter enums.ApplicationFilter, params pagination.Params) (*pagination.Page[admin.ApplicationDTO], error) {
	s.filter, s.params = filter, params
	return &pagination.Page[admin.ApplicationDTO]{Items: []admin.ApplicationDTO{}}, nil
}

func (s *stubAdmin) Approve(_ context.Context, reviewerID, id uuid.UUID, input admin.ApproveInput) (*admin.ApplicationDTO, error) {
	s.reviewer, s.approve = reviewerID, input
	return &admin.ApplicationDTO{Status: admin.StatusApproved}, nil
}

func TestAdminApplicationsQuery(t *testing.T) {
	svc := &stubAdmin{}

	rec := httptest.NewRecorder()
	AdminApplications(svc, nil)(rec, httptest.NewRequest(http.MethodGet, "/admin/applications?filter=rejected&limit=5&cursor=abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, enums.ApplicationFilterRejected, svc.filter)
	assert.Equal(t, pagination.Params{Limit: 5, Cursor: "abc"}, svc.params)

	rec = httptest.NewRecorder()
	AdminApplications(svc, nil)(rec, httptest.NewRequest(http.MethodGet, "/admin/applications?filter=weird", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	AdminApplications(svc, nil)(rec, httptest.NewRequest(http.MethodGet, "/admin/applications?limit=500", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminApproveBodyIsOptional(t *testing.T) {
	svc := &stubAdmin{}
	reviewer := uuid.New()
	r := chi.NewRouter()
	r.Post("/admin/applications/{applicationId}/approve", AdminApprove(svc, nil))

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/applications/"+id.String()+"/approve", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), reviewer))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reviewer, svc.reviewer)
	assert.Nil(t, svc.approve.Notes)

	req = httptest.NewRequest(http.MethodPost, "/admin/applications/"+id.String()+"/approve", strings.NewReader(`{"notes":"looks good"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), reviewer))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.approve.Notes)
	assert.Equal(t, "looks good", *svc.approve.Notes)
}
