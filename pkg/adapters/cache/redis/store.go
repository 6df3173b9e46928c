package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

// DefaultPageTTL bounds how stale a cached page (and its view counter) can get
const DefaultPageTTL = 5 * time.Minute

// PageStore caches resolved public pages. Pages are keyed by profile id so
// link edits can drop them without knowing the username; a second key maps
// username to profile id.
type PageStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewPageStore(client redis.Cmdable, ttl time.Duration) *PageStore {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageStore{client: client, ttl: ttl}
}

func (s *PageStore) GetPage(ctx context.Context, username string) (*domain.PublicPage, error) {
	profileID, err := s.client.Get(ctx, UsernameKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve cached username: %w", err)
	}

	data, err := s.client.Get(ctx, PageKey(profileID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached page: %w", err)
	}

	var page domain.PublicPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached page: %w", err)
	}
	// Renamed since it was cached.
	if page.Profile.Username != username {
		return nil, nil
	}
	return &page, nil
}

func (s *PageStore) SetPage(ctx context.Context, page *domain.PublicPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, PageKey(page.Profile.ID), data, s.ttl)
	pipe.Set(ctx, UsernameKey(page.Profile.Username), page.Profile.ID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}

func (s *PageStore) InvalidateProfile(ctx context.Context, profileID string) error {
	if err := s.client.Del(ctx, PageKey(profileID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate page: %w", err)
	}
	return nil
}

func (s *PageStore) InvalidateUsername(ctx context.Context, username string) error {
	if err := s.client.Del(ctx, UsernameKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate username: %w", err)
	}
	return nil
}

var _ ports.PageCache = (*PageStore)(nil)
