package cron

import (
	"context"
	"errors"
	"time"

	"github.com/cardchase/location-portal/pkg/logger"
	"github.com/cardchase/location-portal/pkg/timefmt"
)

const (
	blockedTimeRetentionJobName = "blocked-time-retention"
	defaultBlockedTimeRetention = 90
)

type blockedTimePurger interface {
	DeleteBlockedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// BlockedTimeRetentionParams configure the blocked-time retention job.
type BlockedTimeRetentionParams struct {
	Logger        *logger.Logger
	Repo          blockedTimePurger
	RetentionDays int
	Now           func() time.Time
}

// BlockedTimeRetentionJob deletes blocked periods dated before the retention
// window. Upcoming blocks are never touched.
type BlockedTimeRetentionJob struct {
	logg      *logger.Logger
	repo      blockedTimePurger
	retention int
	now       func() time.Time
}

func NewBlockedTimeRetentionJob(params BlockedTimeRetentionParams) (*BlockedTimeRetentionJob, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Repo == nil {
		return nil, errors.New("blocked time repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultBlockedTimeRetention
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &BlockedTimeRetentionJob{
		logg:      params.Logger,
		repo:      params.Repo,
		retention: retention,
		now:       now,
	}, nil
}

func (j *BlockedTimeRetentionJob) Name() string {
	return blockedTimeRetentionJobName
}

func (j *BlockedTimeRetentionJob) Run(ctx context.Context) error {
	cutoff := timefmt.DateOf(j.now()).AddDate(0, 0, -j.retention)
	deleted, err := j.repo.DeleteBlockedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	ctx = j.logg.WithFields(ctx, map[string]any{
		"cutoff":  timefmt.FormatDate(cutoff),
		"deleted": deleted,
	})
	j.logg.Info(ctx, "blocked time retention complete")
	return nil
}
