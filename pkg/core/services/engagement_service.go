package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 365
)

type EngagementService struct {
	repo  ports.Repository
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

func NewEngagementService(repo ports.Repository, log logger.Logger) *EngagementService {
	return &EngagementService{
		repo:  repo,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// RecordView appends a PageView and bumps the profile's lifetime view
// counter. The two writes are independent; either may land without the other.
func (s *EngagementService) RecordView(ctx context.Context, profileID, userAgent, referrer string) error {
	if profileID == "" {
		return domain.Invalid("profile_id", "profile id is required")
	}

	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		referrer = domain.DirectReferrer
	}

	view := &domain.PageView{
		ID:        s.newID(),
		ProfileID: profileID,
		ViewedAt:  s.now().UTC(),
		Device:    domain.ClassifyDevice(userAgent),
		Referrer:  referrer,
	}

	wctx := context.WithoutCancel(ctx)
	return s.pair("record view", profileID,
		func() error { return s.repo.InsertPageView(wctx, view) },
		func() error { return s.repo.IncrementTotalViews(wctx, profileID) },
	)
}

// RecordClick appends a LinkClick and increments the link's click_count.
// Neither write waits for or undoes the other.
func (s *EngagementService) RecordClick(ctx context.Context, linkID, profileID, userAgent string) error {
	if linkID == "" {
		return domain.Invalid("link_id", "link id is required")
	}
	if profileID == "" {
		return domain.Invalid("profile_id", "profile id is required")
	}

	click := &domain.LinkClick{
		ID:        s.newID(),
		LinkID:    linkID,
		ProfileID: profileID,
		ClickedAt: s.now().UTC(),
		Device:    domain.ClassifyDevice(userAgent),
	}

	wctx := context.WithoutCancel(ctx)
	return s.pair("record click", profileID,
		func() error { return s.repo.InsertLinkClick(wctx, click) },
		func() error { return s.repo.IncrementClickCount(wctx, profileID, linkID) },
	)
}

// pair runs an event insert and its counter bump concurrently
func (s *EngagementService) pair(op, profileID string, insert, bump func() error) error {
	var insertErr, bumpErr error

	var g errgroup.Group
	g.Go(func() error {
		if err := insert(); err != nil {
			insertErr = fmt.Errorf("insert event: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := bump(); err != nil {
			bumpErr = fmt.Errorf("increment counter: %w", err)
		}
		return nil
	})
	_ = g.Wait()

	if (insertErr == nil) != (bumpErr == nil) {
		s.log.Warn("engagement counters drifted",
			logger.String("op", op),
			logger.String("profile_id", profileID),
			logger.Error(errors.Join(insertErr, bumpErr)),
		)
	}
	return domain.Persistence(op, errors.Join(insertErr, bumpErr))
}

// GetAnalytics loads the raw rows for the trailing window of windowDays
// calendar days ending today (UTC), plus the all-time top links by clicks.
func (s *EngagementService) GetAnalytics(ctx context.Context, profileID string, windowDays int) (*domain.Analytics, error) {
	days, err := normalizeWindow(windowDays)
	if err != nil {
		return nil, err
	}
	since := windowStart(s.now(), days)

	a := &domain.Analytics{WindowDays: days}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		views, err := s.repo.ListPageViews(gctx, profileID, since)
		a.Views = views
		return err
	})
	g.Go(func() error {
		clicks, err := s.repo.ListLinkClicks(gctx, profileID, since)
		a.Clicks = clicks
		return err
	})
	g.Go(func() error {
		top, err := s.repo.TopLinks(gctx, profileID, TopLinkLimit)
		a.TopLinks = top
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.Persistence("load analytics", err)
	}
	return a, nil
}

// Report derives the dashboard metrics for the window
func (s *EngagementService) Report(ctx context.Context, profileID string, windowDays int) (*domain.Report, error) {
	var (
		analytics *domain.Analytics
		links     []domain.Link
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		analytics, err = s.GetAnalytics(gctx, profileID, windowDays)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = s.repo.ListLinks(gctx, profileID, true)
		if err != nil {
			return domain.Persistence("load analytics", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildReport(analytics, len(links), s.now()), nil
}

func normalizeWindow(days int) (int, error) {
	if days == 0 {
		return DefaultWindowDays, nil
	}
	if days < 0 || days > MaxWindowDays {
		return 0, domain.Invalid("days", fmt.Sprintf("must be between 1 and %d", MaxWindowDays))
	}
	return days, nil
}

var _ ports.EngagementService = (*EngagementService)(nil)
