package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/folio/pkg/catalog"
	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// maxParallelWrites bounds the position updates a reorder keeps in flight
const maxParallelWrites = 8

type LinkService struct {
	repo    ports.LinkRepository
	catalog *catalog.Catalog
	cache   ports.PageCache
	log     logger.Logger
	now     func() time.Time
	newID   func() string
}

// NewLinkService wires the link store. cache may be nil.
func NewLinkService(repo ports.LinkRepository, cat *catalog.Catalog, cache ports.PageCache, log logger.Logger) *LinkService {
	return &LinkService{
		repo:    repo,
		catalog: cat,
		cache:   cache,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *LinkService) List(ctx context.Context, profileID string) ([]domain.Link, error) {
	links, err := s.repo.ListLinks(ctx, profileID, false)
	if err != nil {
		return nil, domain.Persistence("list links", err)
	}
	return links, nil
}

func (s *LinkService) Add(ctx context.Context, profileID string, fields domain.LinkFields) (*domain.Link, error) {
	title := strings.TrimSpace(fields.Title)
	if title == "" {
		return nil, domain.Invalid("title", "title is required")
	}
	url := domain.NormalizeURL(fields.URL)
	if url == "" {
		return nil, domain.Invalid("url", "url is required")
	}

	typ := strings.TrimSpace(fields.Type)
	if typ == "" {
		typ = domain.DefaultLinkType
	}
	lt, ok := s.catalog.LinkType(typ)
	if !ok {
		return nil, domain.Invalid("type", fmt.Sprintf("unknown link type %q", typ))
	}

	icon := strings.TrimSpace(fields.Icon)
	if icon == "" {
		icon = lt.Icon
	}
	if icon == "" {
		icon = domain.DefaultLinkIcon
	}

	maxPos, ok, err := s.repo.MaxPosition(ctx, profileID)
	if err != nil {
		return nil, domain.Persistence("add link", err)
	}
	position := 0
	if ok {
		position = maxPos + 1
	}

	now := s.now().UTC()
	link := &domain.Link{
		ID:           s.newID(),
		ProfileID:    profileID,
		Title:        title,
		URL:          url,
		Icon:         icon,
		Type:         typ,
		IsActive:     true,
		Position:     position,
		ThumbnailURL: strings.TrimSpace(fields.ThumbnailURL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, domain.Persistence("add link", err)
	}

	s.invalidate(ctx, profileID)
	return link, nil
}

// Update applies patch to one link. Position never changes here.
func (s *LinkService) Update(ctx context.Context, profileID, linkID string, patch domain.LinkPatch) (*domain.Link, error) {
	if err := s.normalizePatch(&patch); err != nil {
		return nil, err
	}

	link, err := s.repo.GetLink(ctx, profileID, linkID)
	if err != nil {
		return nil, domain.Persistence("update link", err)
	}
	if link == nil {
		return nil, domain.NotFound("link", linkID)
	}
	if patch.IsEmpty() {
		return link, nil
	}

	patch.Apply(link)
	link.UpdatedAt = s.now().UTC()

	matched, err := s.repo.UpdateLink(ctx, link)
	if err != nil {
		return nil, domain.Persistence("update link", err)
	}
	if !matched {
		// Deleted between read and write.
		return nil, domain.NotFound("link", linkID)
	}

	s.invalidate(ctx, profileID)
	return link, nil
}

func (s *LinkService) normalizePatch(p *domain.LinkPatch) error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return domain.Invalid("title", "title must not be empty")
		}
		p.Title = &t
	}
	if p.URL != nil {
		u := domain.NormalizeURL(*p.URL)
		if u == "" {
			return domain.Invalid("url", "url must not be empty")
		}
		p.URL = &u
	}
	if p.Type != nil {
		typ := strings.TrimSpace(*p.Type)
		if _, ok := s.catalog.LinkType(typ); !ok {
			return domain.Invalid("type", fmt.Sprintf("unknown link type %q", typ))
		}
		p.Type = &typ
	}
	if p.Icon != nil {
		icon := strings.TrimSpace(*p.Icon)
		p.Icon = &icon
	}
	if p.ThumbnailURL != nil {
		thumb := strings.TrimSpace(*p.ThumbnailURL)
		p.ThumbnailURL = &thumb
	}
	return nil
}

// Remove deletes a link without renumbering the rest. Unknown ids are a no-op.
func (s *LinkService) Remove(ctx context.Context, profileID, linkID string) error {
	if err := s.repo.DeleteLink(ctx, profileID, linkID); err != nil {
		return domain.Persistence("remove link", err)
	}
	s.invalidate(ctx, profileID)
	return nil
}

func (s *LinkService) ToggleActive(ctx context.Context, profileID, linkID string) (*domain.Link, error) {
	link, err := s.repo.GetLink(ctx, profileID, linkID)
	if err != nil {
		return nil, domain.Persistence("toggle link", err)
	}
	if link == nil {
		return nil, domain.NotFound("link", linkID)
	}

	active := !link.IsActive
	return s.Update(ctx, profileID, linkID, domain.LinkPatch{IsActive: &active})
}

// Reorder sets position = index for every id. Writes run concurrently and
// independently; each sets an absolute value so completion order is
// irrelevant. Failed writes are joined into one PersistenceError and the
// successful ones are kept. Ids that no longer exist are skipped.
func (s *LinkService) Reorder(ctx context.Context, profileID string, orderedIDs []string) error {
	if err := checkOrder(orderedIDs); err != nil {
		return err
	}
	if len(orderedIDs) == 0 {
		return nil
	}

	// Once issued, a reorder runs to completion even if the caller goes away.
	wctx := context.WithoutCancel(ctx)

	errs := make([]error, len(orderedIDs))
	var g errgroup.Group
	g.SetLimit(maxParallelWrites)
	for i, id := range orderedIDs {
		g.Go(func() error {
			if err := s.repo.SetPosition(wctx, profileID, id, i); err != nil {
				errs[i] = fmt.Errorf("link %s: %w", id, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.invalidate(wctx, profileID)

	if err := errors.Join(errs...); err != nil {
		s.log.Warn("reorder partially applied",
			logger.String("profile_id", profileID),
			logger.Error(err),
		)
		return domain.Persistence("reorder links", err)
	}
	return nil
}

// Move relocates the link at oldIndex of the current list to newIndex and
// persists positions 0..n-1 for the resulting sequence.
func (s *LinkService) Move(ctx context.Context, profileID string, oldIndex, newIndex int) ([]domain.Link, error) {
	links, err := s.List(ctx, profileID)
	if err != nil {
		return nil, err
	}

	moved, err := MoveItem(links, oldIndex, newIndex)
	if err != nil {
		return nil, err
	}
	AssignPositions(moved)

	if err := s.Reorder(ctx, profileID, linkIDs(moved)); err != nil {
		return moved, err
	}
	return moved, nil
}

func (s *LinkService) invalidate(ctx context.Context, profileID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProfile(ctx, profileID); err != nil {
		s.log.Warn("page cache invalidation failed",
			logger.String("profile_id", profileID),
			logger.Error(err),
		)
	}
}

var _ ports.LinkService = (*LinkService)(nil)
