package domain

import (
	"strings"
	"time"
)

// Link is one entry in a profile's ordered list of outbound destinations
type Link struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Icon         string    `json:"icon"`
	Type         string    `json:"type"`
	IsActive     bool      `json:"is_active"`
	Position     int       `json:"position"`
	ClickCount   int64     `json:"click_count"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LinkFields are the caller-supplied fields for a new link
type LinkFields struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Icon         string `json:"icon,omitempty"`
	Type         string `json:"type,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// LinkPatch is a partial update; nil fields are left untouched.
// Position is deliberately absent: ordering only changes through Reorder.
type LinkPatch struct {
	Title        *string `json:"title,omitempty"`
	URL          *string `json:"url,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	Type         *string `json:"type,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p LinkPatch) IsEmpty() bool {
	return p.Title == nil && p.URL == nil && p.Icon == nil && p.Type == nil && p.IsActive == nil && p.ThumbnailURL == nil
}

// Apply copies the set fields of p onto l
func (p LinkPatch) Apply(l *Link) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.URL != nil {
		l.URL = *p.URL
	}
	if p.Icon != nil {
		l.Icon = *p.Icon
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.IsActive != nil {
		l.IsActive = *p.IsActive
	}
	if p.ThumbnailURL != nil {
		l.ThumbnailURL = *p.ThumbnailURL
	}
}

const (
	DefaultLinkType = "link"
	DefaultLinkIcon = "🔗"
)

var urlSchemes = []string{"http", "mailto:", "tel:"}

// NormalizeURL trims raw and prefixes https:// unless it already starts with
// http, mailto: or tel:
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(u, scheme) {
			return u
		}
	}
	return "https://" + u
}
