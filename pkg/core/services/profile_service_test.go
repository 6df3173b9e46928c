package services

import (
	"context"
	"strings"
	"testing"

	"github.com/wadjakorntonsri/folio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/folio/pkg/catalog"
	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

func newTestProfileService(repo *sqlite.SQLiteRepository, cache ports.PageCache) *ProfileService {
	s := NewProfileService(repo, repo, catalog.Default(), cache, logger.Nop())
	s.now = fixedClock
	return s
}

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		name     string
		identity domain.Identity
		want     string
	}{
		{"metadata wins", domain.Identity{Email: "x@y.com", Metadata: map[string]string{"username": "Cool.Kid"}}, "coolkid"},
		{"email local part", domain.Identity{Email: "Jane.Doe+tag@example.com"}, "janedoetag"},
		{"nothing usable", domain.Identity{Email: "@example.com"}, "user"},
		{"too short", domain.Identity{Email: "jo@example.com"}, "userjo"},
		{"too long", domain.Identity{Email: strings.Repeat("a", 40) + "@example.com"}, strings.Repeat("a", 30)},
		{"symbols only", domain.Identity{Email: "...@example.com"}, "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveUsername(tt.identity); got != tt.want {
				t.Errorf("DeriveUsername() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnsureProfile(t *testing.T) {
	ctx := context.Background()
	s := newTestProfileService(newTestRepo(t), nil)

	id := domain.Identity{ID: "abc123", Email: "maya@example.com", Metadata: map[string]string{"full_name": "Maya R"}}
	p, err := s.EnsureProfile(ctx, id)
	if err != nil {
		t.Fatalf("EnsureProfile failed: %v", err)
	}
	if p.ID != "abc123" || p.Username != "maya" || p.DisplayName != "Maya R" {
		t.Errorf("profile = %+v", p)
	}
	if p.Theme != domain.DefaultTheme || p.AccentColor != domain.DefaultAccentColor {
		t.Errorf("defaults = %s %s", p.Theme, p.AccentColor)
	}

	again, err := s.EnsureProfile(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if again.Username != "maya" || !again.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("second call should return the existing profile, got %+v", again)
	}

	if _, err := s.EnsureProfile(ctx, domain.Identity{Email: "x@y.com"}); !domain.IsValidation(err) {
		t.Errorf("missing id error = %v", err)
	}
}

func TestEnsureProfileUsernameCollision(t *testing.T) {
	ctx := context.Background()
	s := newTestProfileService(newTestRepo(t), nil)

	if _, err := s.EnsureProfile(ctx, domain.Identity{ID: "first", Email: "sam@a.com"}); err != nil {
		t.Fatal(err)
	}
	p, err := s.EnsureProfile(ctx, domain.Identity{ID: "Second-ID", Email: "sam@b.com"})
	if err != nil {
		t.Fatalf("EnsureProfile failed: %v", err)
	}
	if p.Username != "sam_second" {
		t.Errorf("username = %q, want sam_second", p.Username)
	}
	if p.DisplayName != "sam" {
		t.Errorf("display name = %q", p.DisplayName)
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	s := newTestProfileService(newTestRepo(t), cache)

	p, _ := s.EnsureProfile(ctx, domain.Identity{ID: "u1", Email: "lee@example.com"})

	name, bio, theme, accent := " Lee ", "hello", "forest", "#aabbcc"
	got, err := s.UpdateProfile(ctx, p.ID, domain.ProfilePatch{DisplayName: &name, Bio: &bio, Theme: &theme, AccentColor: &accent})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if got.DisplayName != "Lee" || got.Bio != "hello" || got.Theme != "forest" || got.AccentColor != "#AABBCC" {
		t.Errorf("updated = %+v", got)
	}

	stored, _ := s.GetProfile(ctx, p.ID)
	if stored.Theme != "forest" || stored.Bio != "hello" {
		t.Errorf("stored = %+v", stored)
	}
	if len(cache.invalidated) != 1 {
		t.Errorf("invalidations = %v", cache.invalidated)
	}

	bad := []domain.ProfilePatch{
		{Theme: strPtr("neon")},
		{AccentColor: strPtr("purple")},
		{DisplayName: strPtr("   ")},
		{Bio: strPtr(strings.Repeat("x", maxBioLen+1))},
	}
	for i, patch := range bad {
		if _, err := s.UpdateProfile(ctx, p.ID, patch); !domain.IsValidation(err) {
			t.Errorf("patch %d error = %v, want ValidationError", i, err)
		}
	}

	if _, err := s.UpdateProfile(ctx, "nobody", domain.ProfilePatch{Bio: &bio}); !domain.IsNotFound(err) {
		t.Errorf("missing profile error = %v", err)
	}
}

func TestSetUsername(t *testing.T) {
	ctx := context.Background()
	s := newTestProfileService(newTestRepo(t), nil)

	p, _ := s.EnsureProfile(ctx, domain.Identity{ID: "u1", Email: "kim@example.com"})
	s.EnsureProfile(ctx, domain.Identity{ID: "u2", Email: "taken@example.com"})

	got, err := s.SetUsername(ctx, p.ID, " Kim_2026 ")
	if err != nil {
		t.Fatalf("SetUsername failed: %v", err)
	}
	if got.Username != "kim_2026" {
		t.Errorf("username = %q", got.Username)
	}

	for _, bad := range []string{"ab", "has space", "dash-ed", strings.Repeat("a", 31)} {
		if _, err := s.SetUsername(ctx, p.ID, bad); !domain.IsValidation(err) {
			t.Errorf("SetUsername(%q) error = %v", bad, err)
		}
	}

	if _, err := s.SetUsername(ctx, p.ID, "taken"); !domain.IsValidation(err) {
		t.Errorf("taken username error = %v", err)
	}
	if _, err := s.SetUsername(ctx, "nobody", "fresh_name"); !domain.IsNotFound(err) {
		t.Errorf("missing profile error = %v", err)
	}
}

func TestPublicPage(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	ps := newTestProfileService(repo, nil)
	ls := newTestLinkService(repo, nil)

	p, _ := ps.EnsureProfile(ctx, domain.Identity{ID: "u1", Email: "ana@example.com"})
	mustAdd(t, ls, p.ID, "A", "a.com")
	b := mustAdd(t, ls, p.ID, "B", "b.com")
	mustAdd(t, ls, p.ID, "C", "c.com")
	ls.ToggleActive(ctx, p.ID, b.ID)

	page, err := ps.PublicPage(ctx, "ANA")
	if err != nil {
		t.Fatalf("PublicPage failed: %v", err)
	}
	if page.Profile.ID != p.ID {
		t.Errorf("profile = %+v", page.Profile)
	}
	if got := titles(page.Links); !equalStrings(got, []string{"A", "C"}) {
		t.Errorf("public links = %v", got)
	}

	for _, missing := range []string{"nobody", "x", "bad name!"} {
		if _, err := ps.PublicPage(ctx, missing); !domain.IsNotFound(err) {
			t.Errorf("PublicPage(%q) error = %v", missing, err)
		}
	}
}

func TestPublicPageUsesCache(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	repo := newTestRepo(t)
	ps := newTestProfileService(repo, cache)
	ls := newTestLinkService(repo, cache)

	p, _ := ps.EnsureProfile(ctx, domain.Identity{ID: "u1", Email: "ola@example.com"})
	mustAdd(t, ls, p.ID, "A", "a.com")

	if _, err := ps.PublicPage(ctx, "ola"); err != nil {
		t.Fatal(err)
	}
	if cached, _ := cache.GetPage(ctx, "ola"); cached == nil || len(cached.Links) != 1 {
		t.Fatalf("page was not cached: %+v", cached)
	}

	mustAdd(t, ls, p.ID, "B", "b.com")
	if cached, _ := cache.GetPage(ctx, "ola"); cached != nil {
		t.Error("adding a link should drop the cached page")
	}

	page, _ := ps.PublicPage(ctx, "ola")
	if len(page.Links) != 2 {
		t.Errorf("links = %v", titles(page.Links))
	}

	if _, err := ps.SetUsername(ctx, p.ID, "ola_new"); err != nil {
		t.Fatal(err)
	}
	if cached, _ := cache.GetPage(ctx, "ola"); cached != nil {
		t.Error("old username should no longer resolve from cache")
	}
	if _, err := ps.PublicPage(ctx, "ola"); !domain.IsNotFound(err) {
		t.Errorf("old username error = %v", err)
	}
}

func strPtr(s string) *string { return &s }
