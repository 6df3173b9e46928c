package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/folio/pkg/core/domain"
)

// ProfileRepository defines storage operations for profiles
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)                    // nil, nil when missing
	GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) // nil, nil when missing
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	SetUsername(ctx context.Context, id, username string) error
	IncrementTotalViews(ctx context.Context, id string) error
}

// LinkRepository defines storage operations for links
type LinkRepository interface {
	CreateLink(ctx context.Context, link *domain.Link) error
	GetLink(ctx context.Context, profileID, id string) (*domain.Link, error) // nil, nil when missing
	UpdateLink(ctx context.Context, link *domain.Link) (bool, error)         // false when no row matched
	DeleteLink(ctx context.Context, profileID, id string) error
	ListLinks(ctx context.Context, profileID string, activeOnly bool) ([]domain.Link, error)
	MaxPosition(ctx context.Context, profileID string) (pos int, ok bool, err error)
	SetPosition(ctx context.Context, profileID, id string, position int) error
	IncrementClickCount(ctx context.Context, profileID, id string) error
	TopLinks(ctx context.Context, profileID string, limit int) ([]domain.Link, error)
}

// EventRepository appends and reads engagement events. Events are never
// updated or deleted.
type EventRepository interface {
	InsertPageView(ctx context.Context, view *domain.PageView) error
	InsertLinkClick(ctx context.Context, click *domain.LinkClick) error
	ListPageViews(ctx context.Context, profileID string, since time.Time) ([]domain.PageView, error)
	ListLinkClicks(ctx context.Context, profileID string, since time.Time) ([]domain.LinkClick, error)
}

// Repository is the full row store
type Repository interface {
	ProfileRepository
	LinkRepository
	EventRepository
}

// PageCache caches resolved public pages. Implementations may be absent;
// callers treat a nil PageCache as disabled.
type PageCache interface {
	GetPage(ctx context.Context, username string) (*domain.PublicPage, error) // nil, nil on miss
	SetPage(ctx context.Context, page *domain.PublicPage) error
	InvalidateProfile(ctx context.Context, profileID string) error
	InvalidateUsername(ctx context.Context, username string) error
}

// LinkService defines the link ordering operations
type LinkService interface {
	List(ctx context.Context, profileID string) ([]domain.Link, error)
	Add(ctx context.Context, profileID string, fields domain.LinkFields) (*domain.Link, error)
	Update(ctx context.Context, profileID, linkID string, patch domain.LinkPatch) (*domain.Link, error)
	Remove(ctx context.Context, profileID, linkID string) error
	Reorder(ctx context.Context, profileID string, orderedIDs []string) error
	Move(ctx context.Context, profileID string, oldIndex, newIndex int) ([]domain.Link, error)
	ToggleActive(ctx context.Context, profileID, linkID string) (*domain.Link, error)
}

// ProfileService defines profile lifecycle and public resolution
type ProfileService interface {
	EnsureProfile(ctx context.Context, identity domain.Identity) (*domain.Profile, error)
	GetProfile(ctx context.Context, profileID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profileID string, patch domain.ProfilePatch) (*domain.Profile, error)
	SetUsername(ctx context.Context, profileID, username string) (*domain.Profile, error)
	PublicPage(ctx context.Context, username string) (*domain.PublicPage, error)
}

// EngagementService records events and serves analytics
type EngagementService interface {
	RecordView(ctx context.Context, profileID, userAgent, referrer string) error
	RecordClick(ctx context.Context, linkID, profileID, userAgent string) error
	GetAnalytics(ctx context.Context, profileID string, windowDays int) (*domain.Analytics, error)
	Report(ctx context.Context, profileID string, windowDays int) (*domain.Report, error)
}
