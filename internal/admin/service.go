// Package admin is the review console for location applications.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardchase/location-portal/pkg/enums"
	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
	"github.com/cardchase/location-portal/pkg/pagination"
)

type repository interface {
	List(ctx context.Context, filter enums.ApplicationFilter, cursor *pagination.Cursor, limit int) ([]applicationRow, error)
	Find(ctx context.Context, id uuid.UUID) (*applicationRow, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

type metricsRecorder interface {
	ObserveReview(decision string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveReview(string) {}

type Service interface {
	List(ctx context.Context, filter enums.ApplicationFilter, params pagination.Params) (*pagination.Page[ApplicationDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*ApplicationDTO, error)
	Approve(ctx context.Context, reviewerID, id uuid.UUID, input ApproveInput) (*ApplicationDTO, error)
	Reject(ctx context.Context, reviewerID, id uuid.UUID, input RejectInput) (*ApplicationDTO, error)
	SaveNotes(ctx context.Context, id uuid.UUID, notes string) (*ApplicationDTO, error)
	Verify(ctx context.Context, reviewerID, id uuid.UUID) (*ApplicationDTO, error)
}

type service struct {
	repo    repository
	metrics metricsRecorder
	now     func() time.Time
}

func NewService(repo repository, metrics metricsRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin repository required")
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &service{repo: repo, metrics: metrics, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, filter enums.ApplicationFilter, params pagination.Params) (*pagination.Page[ApplicationDTO], error) {
	if !filter.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid filter").
			WithDetails(map[string]string{"filter": "pending, approved, rejected or all"})
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, filter, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	page := pagination.Trim(rows, params.Limit, func(row applicationRow) pagination.Cursor {
		return pagination.Cursor{At: sortTime(row), ID: row.ID}
	})

	out := pagination.Page[ApplicationDTO]{
		Items:      make([]ApplicationDTO, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}
	for _, row := range page.Items {
		out.Items = append(out.Items, toApplication(row))
	}
	return &out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ApplicationDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toApplication(*row)
	return &dto, nil
}

// Approve grants dashboard access. Public listing still waits for Verify.
func (s *service) Approve(ctx context.Context, reviewerID, id uuid.UUID, input ApproveInput) (*ApplicationDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	fields := s.reviewed(reviewerID, map[string]any{
		"application_approved": true,
		"rejected":             false,
	})
	if input.Notes != nil {
		fields["admin_notes"] = *input.Notes
	}
	return s.apply(ctx, id, fields, "approve")
}

// Reject records the reason verbatim and withdraws approval and verification.
func (s *service) Reject(ctx context.Context, reviewerID, id uuid.UUID, input RejectInput) (*ApplicationDTO, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Rejection reason is required").
			WithDetails(map[string]string{"reason": "required"})
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	fields := s.reviewed(reviewerID, map[string]any{
		"verified":             false,
		"application_approved": false,
		"visible_on_app":       false,
		"rejected":             true,
		"rejection_reason":     input.Reason,
	})
	if input.Notes != nil {
		fields["admin_notes"] = *input.Notes
	}
	return s.apply(ctx, id, fields, "reject")
}

func (s *service) SaveNotes(ctx context.Context, id uuid.UUID, notes string) (*ApplicationDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"admin_notes": notes}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save notes")
	}
	return s.Get(ctx, id)
}

// Verify marks an approved location as checked so it may be listed publicly.
func (s *service) Verify(ctx context.Context, reviewerID, id uuid.UUID) (*ApplicationDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !row.ApplicationApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only approved applications can be verified")
	}
	return s.apply(ctx, id, s.reviewed(reviewerID, map[string]any{"verified": true}), "verify")
}

func (s *service) reviewed(reviewerID uuid.UUID, fields map[string]any) map[string]any {
	fields["reviewed_at"] = s.now().UTC()
	fields["reviewed_by"] = reviewerID
	return fields
}

func (s *service) apply(ctx context.Context, id uuid.UUID, fields map[string]any, decision string) (*ApplicationDTO, error) {
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, decision+" application")
	}
	s.metrics.ObserveReview(decision)
	return s.Get(ctx, id)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*applicationRow, error) {
	row, err := s.repo.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	return row, nil
}
