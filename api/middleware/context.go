package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/cardchase/location-portal/internal/access"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxAccessID contextKey = "access_id"
	ctxSnapshot contextKey = "access_snapshot"
)

// UserIDFromContext returns the authenticated user, or uuid.Nil.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// AccessIDFromContext returns the jti of the bearer token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// SnapshotFromContext returns the access snapshot loaded for this request.
func SnapshotFromContext(ctx context.Context) (access.Snapshot, bool) {
	if ctx == nil {
		return access.Snapshot{}, false
	}
	snap, ok := ctx.Value(ctxSnapshot).(access.Snapshot)
	return snap, ok
}

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}

// WithSnapshot stores the access snapshot; controllers read it instead of
// querying the caller's location again.
func WithSnapshot(ctx context.Context, snap access.Snapshot) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSnapshot, snap)
}
