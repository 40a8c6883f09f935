package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/ports"
)

// DefaultActivityCap is how many audit entries the recorder retains.
const DefaultActivityCap = 100

// ActivityService appends an audit trail of privileged actions keyed by
// the acting admin wallet. It has no authorization logic of its own;
// callers decide when to record.
type ActivityService struct {
	store   ports.ActivityStore
	nowTime func() time.Time
}

// ActivityServiceOption modifies an ActivityService instance.
type ActivityServiceOption func(*ActivityService)

// WithActivityNowTime sets the clock function (primarily for testing).
func WithActivityNowTime(nowFunc func() time.Time) ActivityServiceOption {
	return func(s *ActivityService) {
		s.nowTime = nowFunc
	}
}

// NewActivityService creates a new activity recorder.
func NewActivityService(store ports.ActivityStore, options ...ActivityServiceOption) *ActivityService {
	s := &ActivityService{
		store:   store,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Record appends one audit entry with a generated ID and timestamp.
func (s *ActivityService) Record(ctx context.Context, typ core.ActivityType, adminWallet string, details map[string]string) (core.Activity, error) {
	activity := core.Activity{
		ID:          uuid.New().String(),
		Type:        typ,
		AdminWallet: core.NormalizeWallet(adminWallet),
		Details:     details,
		Timestamp:   s.nowTime(),
	}

	if err := s.store.Append(ctx, activity); err != nil {
		return core.Activity{}, err
	}
	return activity, nil
}

// Recent returns up to limit entries, newest first.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]core.Activity, error) {
	return s.store.Recent(ctx, limit)
}

// ByType returns up to limit entries of the given type, newest first.
func (s *ActivityService) ByType(ctx context.Context, typ core.ActivityType, limit int) ([]core.Activity, error) {
	all, err := s.store.Recent(ctx, 0)
	if err != nil {
		return nil, err
	}

	var out []core.Activity
	for _, activity := range all {
		if activity.Type != typ {
			continue
		}
		out = append(out, activity)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ByWallet returns up to limit entries recorded by the wallet, newest first.
func (s *ActivityService) ByWallet(ctx context.Context, wallet string, limit int) ([]core.Activity, error) {
	all, err := s.store.Recent(ctx, 0)
	if err != nil {
		return nil, err
	}

	wallet = core.NormalizeWallet(wallet)
	var out []core.Activity
	for _, activity := range all {
		if activity.AdminWallet != wallet {
			continue
		}
		out = append(out, activity)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
