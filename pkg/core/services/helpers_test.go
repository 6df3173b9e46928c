package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wadjakorntonsri/folio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/folio/pkg/catalog"
	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// newTestRepo opens a private in-memory database for the calling test
func newTestRepo(t *testing.T) *sqlite.SQLiteRepository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := sqlite.NewSQLiteRepository("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestLinkService(repo ports.LinkRepository, cache ports.PageCache) *LinkService {
	s := NewLinkService(repo, catalog.Default(), cache, logger.Nop())
	s.now = fixedClock
	return s
}

func mustAdd(t *testing.T, s *LinkService, profileID, title, url string) *domain.Link {
	t.Helper()
	l, err := s.Add(context.Background(), profileID, domain.LinkFields{Title: title, URL: url})
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", title, err)
	}
	return l
}

func titles(links []domain.Link) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var errInjected = errors.New("injected failure")

// flakyRepo wraps a real repository and fails selected writes
type flakyRepo struct {
	ports.Repository
	failPositions map[string]bool
	failIncrement bool
	failInsert    bool
}

func (f *flakyRepo) SetPosition(ctx context.Context, profileID, id string, position int) error {
	if f.failPositions[id] {
		return errInjected
	}
	return f.Repository.SetPosition(ctx, profileID, id, position)
}

func (f *flakyRepo) IncrementClickCount(ctx context.Context, profileID, id string) error {
	if f.failIncrement {
		return errInjected
	}
	return f.Repository.IncrementClickCount(ctx, profileID, id)
}

func (f *flakyRepo) InsertLinkClick(ctx context.Context, c *domain.LinkClick) error {
	if f.failInsert {
		return errInjected
	}
	return f.Repository.InsertLinkClick(ctx, c)
}

// memCache is an in-process PageCache that records invalidations
type memCache struct {
	mu          sync.Mutex
	pages       map[string]*domain.PublicPage // by profile id
	usernames   map[string]string
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{pages: map[string]*domain.PublicPage{}, usernames: map[string]string{}}
}

func (c *memCache) GetPage(_ context.Context, username string) (*domain.PublicPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.usernames[username]
	if !ok {
		return nil, nil
	}
	return c.pages[id], nil
}

func (c *memCache) SetPage(_ context.Context, page *domain.PublicPage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[page.Profile.ID] = page
	c.usernames[page.Profile.Username] = page.Profile.ID
	return nil
}

func (c *memCache) InvalidateProfile(_ context.Context, profileID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, profileID)
	c.invalidated = append(c.invalidated, profileID)
	return nil
}

func (c *memCache) InvalidateUsername(_ context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.usernames, username)
	return nil
}
