package domain

import (
	"regexp"
	"time"
)

type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
)

// DirectReferrer is stored when a view arrives without a referrer
const DirectReferrer = "direct"

var mobileUA = regexp.MustCompile(`(?i)Mobile|Android|iPhone`)

// ClassifyDevice maps a user-agent string to mobile or desktop
func ClassifyDevice(userAgent string) Device {
	if mobileUA.MatchString(userAgent) {
		return DeviceMobile
	}
	return DeviceDesktop
}

// PageView is an append-only record of one public page load
type PageView struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	ViewedAt  time.Time `json:"viewed_at"`
	Device    Device    `json:"device"`
	Referrer  string    `json:"referrer"`
}

// LinkClick is an append-only record of one outbound click
type LinkClick struct {
	ID        string    `json:"id"`
	LinkID    string    `json:"link_id"`
	ProfileID string    `json:"profile_id"`
	ClickedAt time.Time `json:"clicked_at"`
	Device    Device    `json:"device"`
}

// Analytics holds the raw rows behind the dashboard for a trailing window
type Analytics struct {
	WindowDays int         `json:"window_days"`
	Views      []PageView  `json:"views"`
	Clicks     []LinkClick `json:"clicks"`
	TopLinks   []Link      `json:"top_links"`
}

// DailyCount is one calendar-date bucket of the trailing series
type DailyCount struct {
	Date   string `json:"date"` // YYYY-MM-DD, UTC
	Views  int64  `json:"views"`
	Clicks int64  `json:"clicks"`
}

// DeviceShare is one slice of the device breakdown
type DeviceShare struct {
	Device  Device `json:"device"`
	Count   int64  `json:"count"`
	Percent int    `json:"percent"`
}

// Report is the set of metrics derived from Analytics
type Report struct {
	TotalViews   int64         `json:"total_views"`
	TotalClicks  int64         `json:"total_clicks"`
	CTR          float64       `json:"ctr"`
	MobileViews  int64         `json:"mobile_views"`
	DesktopViews int64         `json:"desktop_views"`
	Devices      []DeviceShare `json:"devices"`
	Daily        []DailyCount  `json:"daily"`
	TopLinks     []Link        `json:"top_links"`
	ActiveLinks  int           `json:"active_links"`
}
