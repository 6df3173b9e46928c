package services

import (
	"math"
	"time"

	"github.com/wadjakorntonsri/folio/pkg/core/domain"
)

const dateLayout = "2006-01-02"

// TopLinkLimit is how many links the analytics top list carries
const TopLinkLimit = 5

// ClickThroughRate is clicks/views as a percentage rounded to one decimal.
// Zero views yields zero.
func ClickThroughRate(views, clicks int64) float64 {
	if views == 0 {
		return 0
	}
	return math.Round(float64(clicks)/float64(views)*1000) / 10
}

// windowStart is UTC midnight of the first day of a days-long window ending on today
func windowStart(today time.Time, days int) time.Time {
	y, m, d := today.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
}

// DailySeries buckets events by UTC calendar date into exactly days entries,
// oldest first, the last being today. Days without events are zero.
func DailySeries(views []domain.PageView, clicks []domain.LinkClick, days int, today time.Time) []domain.DailyCount {
	if days <= 0 {
		return []domain.DailyCount{}
	}

	start := windowStart(today, days)
	series := make([]domain.DailyCount, days)
	index := make(map[string]int, days)
	for i := range series {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		series[i].Date = date
		index[date] = i
	}

	for _, v := range views {
		if i, ok := index[v.ViewedAt.UTC().Format(dateLayout)]; ok {
			series[i].Views++
		}
	}
	for _, c := range clicks {
		if i, ok := index[c.ClickedAt.UTC().Format(dateLayout)]; ok {
			series[i].Clicks++
		}
	}
	return series
}

// DeviceSplit counts views per device. Shares are rounded percentages of all
// views; devices with no views are left out of shares.
func DeviceSplit(views []domain.PageView) (mobile, desktop int64, shares []domain.DeviceShare) {
	for _, v := range views {
		if v.Device == domain.DeviceMobile {
			mobile++
		} else {
			desktop++
		}
	}

	total := mobile + desktop
	shares = []domain.DeviceShare{}
	for _, s := range []domain.DeviceShare{
		{Device: domain.DeviceMobile, Count: mobile},
		{Device: domain.DeviceDesktop, Count: desktop},
	} {
		if s.Count == 0 {
			continue
		}
		s.Percent = int(math.Round(float64(s.Count) / float64(total) * 100))
		shares = append(shares, s)
	}
	return mobile, desktop, shares
}

// BuildReport derives dashboard metrics from raw analytics rows
func BuildReport(a *domain.Analytics, activeLinks int, today time.Time) *domain.Report {
	totalViews := int64(len(a.Views))
	totalClicks := int64(len(a.Clicks))
	mobile, desktop, shares := DeviceSplit(a.Views)

	top := a.TopLinks
	if top == nil {
		top = []domain.Link{}
	}

	return &domain.Report{
		TotalViews:   totalViews,
		TotalClicks:  totalClicks,
		CTR:          ClickThroughRate(totalViews, totalClicks),
		MobileViews:  mobile,
		DesktopViews: desktop,
		Devices:      shares,
		Daily:        DailySeries(a.Views, a.Clicks, a.WindowDays, today),
		TopLinks:     top,
		ActiveLinks:  activeLinks,
	}
}
