package services

import (
	"testing"
	"time"

	"github.com/wadjakorntonsri/folio/pkg/core/domain"
)

func TestClickThroughRate(t *testing.T) {
	tests := []struct {
		views, clicks int64
		want          float64
	}{
		{0, 0, 0},
		{0, 12, 0},
		{200, 50, 25.0},
		{3, 1, 33.3},
		{3, 2, 66.7},
		{10, 15, 150.0},
	}

	for _, tt := range tests {
		if got := ClickThroughRate(tt.views, tt.clicks); got != tt.want {
			t.Errorf("ClickThroughRate(%d, %d) = %v, want %v", tt.views, tt.clicks, got, tt.want)
		}
	}
}

func TestDailySeriesKeepsEmptyDays(t *testing.T) {
	today := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)
	day1 := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	day7 := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)

	views := []domain.PageView{{ViewedAt: day1}, {ViewedAt: day1}, {ViewedAt: day7}}
	clicks := []domain.LinkClick{{ClickedAt: day7}}

	series := DailySeries(views, clicks, 7, today)
	if len(series) != 7 {
		t.Fatalf("len = %d, want 7", len(series))
	}
	if series[0].Date != "2026-03-04" || series[6].Date != "2026-03-10" {
		t.Errorf("range = %s..%s", series[0].Date, series[6].Date)
	}
	if series[0].Views != 2 || series[0].Clicks != 0 {
		t.Errorf("day 1 = %+v", series[0])
	}
	if series[6].Views != 1 || series[6].Clicks != 1 {
		t.Errorf("day 7 = %+v", series[6])
	}
	for _, d := range series[1:6] {
		if d.Views != 0 || d.Clicks != 0 {
			t.Errorf("expected empty bucket, got %+v", d)
		}
	}
}

func TestDailySeriesUsesUTCDates(t *testing.T) {
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	// 23:30 on the 9th in UTC-5 is the 10th in UTC.
	zone := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2026, 3, 9, 23, 30, 0, 0, zone)
	outside := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	series := DailySeries([]domain.PageView{{ViewedAt: late}, {ViewedAt: outside}}, nil, 2, today)
	if len(series) != 2 {
		t.Fatalf("len = %d", len(series))
	}
	if series[0].Views != 0 || series[1].Views != 1 {
		t.Errorf("series = %+v", series)
	}
}

func TestDeviceSplit(t *testing.T) {
	views := []domain.PageView{
		{Device: domain.DeviceMobile},
		{Device: domain.DeviceMobile},
		{Device: domain.DeviceDesktop},
	}

	mobile, desktop, shares := DeviceSplit(views)
	if mobile != 2 || desktop != 1 {
		t.Fatalf("mobile=%d desktop=%d", mobile, desktop)
	}
	if len(shares) != 2 || shares[0].Percent != 67 || shares[1].Percent != 33 {
		t.Errorf("shares = %+v", shares)
	}

	_, desktop, shares = DeviceSplit(views[:2])
	if desktop != 0 {
		t.Errorf("desktop = %d", desktop)
	}
	if len(shares) != 1 || shares[0].Device != domain.DeviceMobile || shares[0].Percent != 100 {
		t.Errorf("zero-count device should be left out, got %+v", shares)
	}

	_, _, shares = DeviceSplit(nil)
	if len(shares) != 0 {
		t.Errorf("no views should give no shares, got %+v", shares)
	}
}

func TestBuildReport(t *testing.T) {
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	views := make([]domain.PageView, 200)
	for i := range views {
		views[i] = domain.PageView{ViewedAt: today, Device: domain.DeviceDesktop}
	}
	clicks := make([]domain.LinkClick, 50)
	for i := range clicks {
		clicks[i] = domain.LinkClick{ClickedAt: today}
	}

	r := BuildReport(&domain.Analytics{WindowDays: 7, Views: views, Clicks: clicks}, 3, today)

	if r.TotalViews != 200 || r.TotalClicks != 50 || r.CTR != 25.0 {
		t.Errorf("totals = %d/%d ctr %v", r.TotalViews, r.TotalClicks, r.CTR)
	}
	if len(r.Daily) != 7 || r.Daily[6].Views != 200 || r.Daily[6].Clicks != 50 {
		t.Errorf("daily = %+v", r.Daily)
	}
	if r.ActiveLinks != 3 {
		t.Errorf("active links = %d", r.ActiveLinks)
	}
	if r.TopLinks == nil {
		t.Error("top links should be an empty list, not nil")
	}
}
