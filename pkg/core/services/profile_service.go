package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/folio/pkg/catalog"
	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

const (
	maxUsernameLen    = 30
	maxDisplayNameLen = 60
	maxBioLen         = 160
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)
	accentPattern   = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	usernameStrip   = regexp.MustCompile(`[^a-z0-9_]`)
)

type ProfileService struct {
	profiles ports.ProfileRepository
	links    ports.LinkRepository
	catalog  *catalog.Catalog
	cache    ports.PageCache
	log      logger.Logger
	now      func() time.Time
}

// NewProfileService wires profile lifecycle and public page resolution. cache may be nil.
func NewProfileService(profiles ports.ProfileRepository, links ports.LinkRepository, cat *catalog.Catalog, cache ports.PageCache, log logger.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		links:    links,
		catalog:  cat,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// EnsureProfile returns the profile keyed by identity.ID, creating it on first
// sign-in with a username derived from the identity.
func (s *ProfileService) EnsureProfile(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	if identity.ID == "" {
		return nil, domain.Invalid("id", "identity id is required")
	}

	existing, err := s.profiles.GetProfile(ctx, identity.ID)
	if err != nil {
		return nil, domain.Persistence("ensure profile", err)
	}
	if existing != nil {
		return existing, nil
	}

	base := DeriveUsername(identity)
	displayName := strings.TrimSpace(identity.Metadata["full_name"])
	if displayName == "" {
		displayName = base
	}

	for _, username := range usernameCandidates(base, identity.ID) {
		now := s.now().UTC()
		profile := &domain.Profile{
			ID:          identity.ID,
			Username:    username,
			DisplayName: truncateRunes(displayName, maxDisplayNameLen),
			AvatarURL:   strings.TrimSpace(identity.Metadata["avatar_url"]),
			Theme:       s.catalog.ThemeOrDefault(domain.DefaultTheme).ID,
			AccentColor: domain.DefaultAccentColor,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err := s.profiles.CreateProfile(ctx, profile)
		if err == nil {
			s.log.Info("profile created",
				logger.String("profile_id", profile.ID),
				logger.String("username", profile.Username),
			)
			return profile, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, domain.Persistence("ensure profile", err)
		}

		// A concurrent sign-in may have created it; otherwise the username is taken.
		existing, err := s.profiles.GetProfile(ctx, identity.ID)
		if err != nil {
			return nil, domain.Persistence("ensure profile", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	return nil, domain.Persistence("ensure profile", fmt.Errorf("%w: no free username for %s", domain.ErrConflict, base))
}

// DeriveUsername builds a username from identity metadata or email
func DeriveUsername(identity domain.Identity) string {
	raw := identity.Metadata["username"]
	if strings.TrimSpace(raw) == "" {
		raw, _, _ = strings.Cut(identity.Email, "@")
	}

	name := usernameStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "")
	if name == "" {
		name = "user"
	}
	if len(name) < 3 {
		name = "user" + name
	}
	if len(name) > maxUsernameLen {
		name = name[:maxUsernameLen]
	}
	return name
}

func usernameCandidates(base, identityID string) []string {
	idPart := usernameStrip.ReplaceAllString(strings.ToLower(identityID), "")
	if len(idPart) > 6 {
		idPart = idPart[:6]
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	candidates := []string{base}
	if idPart != "" {
		candidates = append(candidates, withSuffix(base, idPart))
	}
	return append(candidates, withSuffix(base, random))
}

func withSuffix(base, suffix string) string {
	keep := maxUsernameLen - len(suffix) - 1
	if len(base) > keep {
		base = base[:keep]
	}
	return base + "_" + suffix
}

func (s *ProfileService) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return nil, domain.Persistence("get profile", err)
	}
	if profile == nil {
		return nil, domain.NotFound("profile", profileID)
	}
	return profile, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, profileID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		if name == "" {
			return nil, domain.Invalid("display_name", "display name must not be empty")
		}
		if utf8.RuneCountInString(name) > maxDisplayNameLen {
			return nil, domain.Invalid("display_name", fmt.Sprintf("at most %d characters", maxDisplayNameLen))
		}
		profile.DisplayName = name
	}
	if patch.Bio != nil {
		bio := strings.TrimSpace(*patch.Bio)
		if utf8.RuneCountInString(bio) > maxBioLen {
			return nil, domain.Invalid("bio", fmt.Sprintf("at most %d characters", maxBioLen))
		}
		profile.Bio = bio
	}
	if patch.Theme != nil {
		if _, ok := s.catalog.Theme(*patch.Theme); !ok {
			return nil, domain.Invalid("theme", fmt.Sprintf("unknown theme %q", *patch.Theme))
		}
		profile.Theme = *patch.Theme
	}
	if patch.AccentColor != nil {
		if !accentPattern.MatchString(*patch.AccentColor) {
			return nil, domain.Invalid("accent_color", "must look like #RRGGBB")
		}
		profile.AccentColor = strings.ToUpper(*patch.AccentColor)
	}
	if patch.AvatarURL != nil {
		profile.AvatarURL = domain.NormalizeURL(*patch.AvatarURL)
	}

	profile.UpdatedAt = s.now().UTC()
	if err := s.profiles.UpdateProfile(ctx, profile); err != nil {
		return nil, domain.Persistence("update profile", err)
	}

	s.invalidateProfile(ctx, profile.ID)
	return profile, nil
}

func (s *ProfileService) SetUsername(ctx context.Context, profileID, username string) (*domain.Profile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, domain.Invalid("username", "3-30 characters of a-z, 0-9 or _")
	}

	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.Username == username {
		return profile, nil
	}

	if err := s.profiles.SetUsername(ctx, profileID, username); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Invalid("username", "username is already taken")
		}
		return nil, domain.Persistence("set username", err)
	}

	old := profile.Username
	profile.Username = username
	profile.UpdatedAt = s.now().UTC()

	if s.cache != nil {
		if err := s.cache.InvalidateUsername(ctx, old); err != nil {
			s.log.Warn("page cache invalidation failed", logger.String("username", old), logger.Error(err))
		}
	}
	s.invalidateProfile(ctx, profileID)
	return profile, nil
}

// PublicPage resolves a username to its profile and active links in
// position order. Unknown usernames are NotFound.
func (s *ProfileService) PublicPage(ctx context.Context, username string) (*domain.PublicPage, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, domain.NotFound("profile", username)
	}

	if s.cache != nil {
		page, err := s.cache.GetPage(ctx, username)
		if err != nil {
			s.log.Warn("page cache read failed", logger.String("username", username), logger.Error(err))
		} else if page != nil {
			return page, nil
		}
	}

	profile, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, domain.Persistence("resolve public page", err)
	}
	if profile == nil {
		return nil, domain.NotFound("profile", username)
	}

	links, err := s.links.ListLinks(ctx, profile.ID, true)
	if err != nil {
		return nil, domain.Persistence("resolve public page", err)
	}

	page := &domain.PublicPage{Profile: *profile, Links: links}
	if s.cache != nil {
		if err := s.cache.SetPage(ctx, page); err != nil {
			s.log.Warn("page cache write failed", logger.String("username", username), logger.Error(err))
		}
	}
	return page, nil
}

func (s *ProfileService) invalidateProfile(ctx context.Context, profileID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProfile(ctx, profileID); err != nil {
		s.log.Warn("page cache invalidation failed", logger.String("profile_id", profileID), logger.Error(err))
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

var _ ports.ProfileService = (*ProfileService)(nil)
