package domain

import "time"

// Profile is a user's public page configuration, keyed by the identity id
type Profile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Theme       string    `json:"theme"`
	AccentColor string    `json:"accent_color"`
	IsPro       bool      `json:"is_pro"`
	TotalViews  int64     `json:"total_views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfilePatch carries the editable profile fields; nil means unchanged
type ProfilePatch struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Theme       *string `json:"theme,omitempty"`
	AccentColor *string `json:"accent_color,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// Identity is what the identity provider tells us about the signed-in user
type Identity struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// PublicPage is the visitor-facing view of a profile: only active links, in order
type PublicPage struct {
	Profile Profile `json:"profile"`
	Links   []Link  `json:"links"`
}

const (
	DefaultTheme       = "midnight"
	DefaultAccentColor = "#7C3AED"
)
