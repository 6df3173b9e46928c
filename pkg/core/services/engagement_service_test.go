package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

const iPhoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15"
const desktopUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/120.0"

func newTestEngagementService(repo ports.Repository) *EngagementService {
	s := NewEngagementService(repo, logger.Nop())
	s.now = fixedClock
	return s
}

func TestRecordView(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	ps := newTestProfileService(repo, nil)
	s := newTestEngagementService(repo)

	p, _ := ps.EnsureProfile(ctx, domain.Identity{ID: "u1", Email: "vic@example.com"})

	if err := s.RecordView(ctx, p.ID, iPhoneUA, ""); err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}
	if err := s.RecordView(ctx, p.ID, desktopUA, "https://t.co/abc"); err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}

	views, err := repo.ListPageViews(ctx, p.ID, testNow.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d", len(views))
	}
	if views[0].Device != domain.DeviceMobile || views[0].Referrer != domain.DirectReferrer {
		t.Errorf("first view = %+v", views[0])
	}
	if views[1].Device != domain.DeviceDesktop || views[1].Referrer != "https://t.co/abc" {
		t.Errorf("second view = %+v", views[1])
	}

	stored, _ := ps.GetProfile(ctx, p.ID)
	if stored.TotalViews != 2 {
		t.Errorf("total views = %d", stored.TotalViews)
	}

	if err := s.RecordView(ctx, "", desktopUA, ""); !domain.IsValidation(err) {
		t.Errorf("blank profile error = %v", err)
	}
}

func TestRecordClick(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	ls := newTestLinkService(repo, nil)
	s := newTestEngagementService(repo)

	l := mustAdd(t, ls, "p1", "A", "a.com")
	for i := 0; i < 3; i++ {
		if err := s.RecordClick(ctx, l.ID, "p1", iPhoneUA); err != nil {
			t.Fatalf("RecordClick failed: %v", err)
		}
	}

	got, _ := repo.GetLink(ctx, "p1", l.ID)
	if got.ClickCount != 3 {
		t.Errorf("click_count = %d", got.ClickCount)
	}
	clicks, _ := repo.ListLinkClicks(ctx, "p1", testNow.Add(-time.Hour))
	if len(clicks) != 3 || clicks[0].LinkID != l.ID || clicks[0].Device != domain.DeviceMobile {
		t.Errorf("clicks = %+v", clicks)
	}
}

func TestRecordClickWritesAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	ls := newTestLinkService(repo, nil)
	l := mustAdd(t, ls, "p1", "A", "a.com")

	flaky := &flakyRepo{Repository: repo, failIncrement: true}
	s := newTestEngagementService(flaky)

	err := s.RecordClick(ctx, l.ID, "p1", desktopUA)
	if !domain.IsPersistence(err) || !errors.Is(err, errInjected) {
		t.Fatalf("error = %v, want PersistenceError", err)
	}
	clicks, _ := repo.ListLinkClicks(ctx, "p1", testNow.Add(-time.Hour))
	if len(clicks) != 1 {
		t.Errorf("the click event should still be stored, got %d", len(clicks))
	}

	flaky.failIncrement, flaky.failInsert = false, true
	if err := s.RecordClick(ctx, l.ID, "p1", desktopUA); !domain.IsPersistence(err) {
		t.Fatalf("error = %v, want PersistenceError", err)
	}
	got, _ := repo.GetLink(ctx, "p1", l.ID)
	if got.ClickCount != 1 {
		t.Errorf("counter should still be bumped, got %d", got.ClickCount)
	}
}

func TestGetAnalyticsWindow(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	ls := newTestLinkService(repo, nil)
	s := newTestEngagementService(repo)

	links := make([]*domain.Link, 7)
	for i := range links {
		links[i] = mustAdd(t, ls, "p1", string(rune('A'+i)), "x.com")
	}

	// Click counts: A=0, B=1, ..., G=6
	for i, l := range links {
		for j := 0; j < i; j++ {
			repo.IncrementClickCount(ctx, "p1", l.ID)
		}
	}

	inside := testNow.AddDate(0, 0, -6)
	edge := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	outside := edge.Add(-time.Second)
	for i, at := range []time.Time{inside, edge, outside, testNow} {
		repo.InsertPageView(ctx, &domain.PageView{ID: string(rune('a' + i)), ProfileID: "p1", ViewedAt: at, Device: domain.DeviceDesktop, Referrer: "direct"})
	}
	repo.InsertLinkClick(ctx, &domain.LinkClick{ID: "c1", LinkID: links[0].ID, ProfileID: "p1", ClickedAt: outside, Device: domain.DeviceMobile})
	repo.InsertLinkClick(ctx, &domain.LinkClick{ID: "c2", LinkID: links[0].ID, ProfileID: "p1", ClickedAt: testNow, Device: domain.DeviceMobile})
	repo.InsertPageView(ctx, &domain.PageView{ID: "other", ProfileID: "p2", ViewedAt: testNow, Device: domain.DeviceDesktop, Referrer: "direct"})

	a, err := s.GetAnalytics(ctx, "p1", 7)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	if a.WindowDays != 7 || len(a.Views) != 3 || len(a.Clicks) != 1 {
		t.Errorf("window=%d views=%d clicks=%d", a.WindowDays, len(a.Views), len(a.Clicks))
	}
	if got := titles(a.TopLinks); !equalStrings(got, []string{"G", "F", "E", "D", "C"}) {
		t.Errorf("top links = %v", got)
	}

	if a, _ := s.GetAnalytics(ctx, "p1", 0); a.WindowDays != DefaultWindowDays || len(a.Views) != 4 {
		t.Errorf("default window = %d with %d views", a.WindowDays, len(a.Views))
	}
	for _, bad := range []int{-1, MaxWindowDays + 1} {
		if _, err := s.GetAnalytics(ctx, "p1", bad); !domain.IsValidation(err) {
			t.Errorf("GetAnalytics(%d) error = %v", bad, err)
		}
	}
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	ls := newTestLinkService(repo, nil)
	s := newTestEngagementService(repo)

	a := mustAdd(t, ls, "p1", "A", "a.com")
	b := mustAdd(t, ls, "p1", "B", "b.com")
	ls.ToggleActive(ctx, "p1", b.ID)

	for i := 0; i < 4; i++ {
		ua := desktopUA
		if i == 0 {
			ua = iPhoneUA
		}
		if err := s.RecordView(ctx, "p1", ua, ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.RecordClick(ctx, a.ID, "p1", desktopUA); err != nil {
		t.Fatal(err)
	}

	r, err := s.Report(ctx, "p1", 7)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if r.TotalViews != 4 || r.TotalClicks != 1 || r.CTR != 25.0 {
		t.Errorf("totals = %d/%d ctr %v", r.TotalViews, r.TotalClicks, r.CTR)
	}
	if r.MobileViews != 1 || r.DesktopViews != 3 {
		t.Errorf("devices = %d/%d", r.MobileViews, r.DesktopViews)
	}
	if len(r.Daily) != 7 || r.Daily[6].Date != "2026-03-10" || r.Daily[6].Views != 4 {
		t.Errorf("daily = %+v", r.Daily)
	}
	if r.ActiveLinks != 1 {
		t.Errorf("active links = %d", r.ActiveLinks)
	}
	if len(r.TopLinks) != 2 || r.TopLinks[0].ID != a.ID {
		t.Errorf("top links = %v", titles(r.TopLinks))
	}
}
