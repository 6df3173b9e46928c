package sqlite

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/folio/pkg/core/domain"
)

func (r *SQLiteRepository) InsertPageView(ctx context.Context, v *domain.PageView) error {
	query := `INSERT INTO page_views (id, profile_id, viewed_at, device, referrer) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, v.ID, v.ProfileID, formatTime(v.ViewedAt), string(v.Device), v.Referrer)
	return err
}

func (r *SQLiteRepository) InsertLinkClick(ctx context.Context, c *domain.LinkClick) error {
	query := `INSERT INTO link_clicks (id, link_id, profile_id, clicked_at, device) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.LinkID, c.ProfileID, formatTime(c.ClickedAt), string(c.Device))
	return err
}

func (r *SQLiteRepository) ListPageViews(ctx context.Context, profileID string, since time.Time) ([]domain.PageView, error) {
	query := `SELECT id, profile_id, viewed_at, device, referrer FROM page_views
			  WHERE profile_id = ? AND viewed_at >= ? ORDER BY viewed_at ASC`

	rows, err := r.db.QueryContext(ctx, query, profileID, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []domain.PageView{}
	for rows.Next() {
		var v domain.PageView
		var viewedAt, device string
		if err := rows.Scan(&v.ID, &v.ProfileID, &viewedAt, &device, &v.Referrer); err != nil {
			return nil, err
		}
		if v.ViewedAt, err = parseTime(viewedAt); err != nil {
			return nil, err
		}
		v.Device = domain.Device(device)
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *SQLiteRepository) ListLinkClicks(ctx context.Context, profileID string, since time.Time) ([]domain.LinkClick, error) {
	query := `SELECT id, link_id, profile_id, clicked_at, device FROM link_clicks
			  WHERE profile_id = ? AND clicked_at >= ? ORDER BY clicked_at ASC`

	rows, err := r.db.QueryContext(ctx, query, profileID, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clicks := []domain.LinkClick{}
	for rows.Next() {
		var c domain.LinkClick
		var clickedAt, device string
		if err := rows.Scan(&c.ID, &c.LinkID, &c.ProfileID, &clickedAt, &device); err != nil {
			return nil, err
		}
		if c.ClickedAt, err = parseTime(clickedAt); err != nil {
			return nil, err
		}
		c.Device = domain.Device(device)
		clicks = append(clicks, c)
	}
	return clicks, rows.Err()
}
