package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wadjakorntonsri/folio/pkg/core/domain"
)

const linkColumns = `id, profile_id, title, url, icon, type, is_active, position, click_count, thumbnail_url, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) CreateLink(ctx context.Context, l *domain.Link) error {
	query := `INSERT INTO links (` + linkColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.ProfileID, l.Title, l.URL, l.Icon, l.Type, l.IsActive, l.Position, l.ClickCount,
		l.ThumbnailURL, formatTime(l.CreatedAt), formatTime(l.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetLink(ctx context.Context, profileID, id string) (*domain.Link, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ? AND profile_id = ?`, id, profileID)

	l, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateLink writes every mutable field except position and click_count
func (r *SQLiteRepository) UpdateLink(ctx context.Context, l *domain.Link) (bool, error) {
	query := `UPDATE links SET title = ?, url = ?, icon = ?, type = ?, is_active = ?, thumbnail_url = ?, updated_at = ?
			  WHERE id = ? AND profile_id = ?`

	res, err := r.db.ExecContext(ctx, query,
		l.Title, l.URL, l.Icon, l.Type, l.IsActive, l.ThumbnailURL, formatTime(l.UpdatedAt), l.ID, l.ProfileID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepository) DeleteLink(ctx context.Context, profileID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = ? AND profile_id = ?`, id, profileID)
	return err
}

func (r *SQLiteRepository) ListLinks(ctx context.Context, profileID string, activeOnly bool) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE profile_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY position ASC, created_at ASC`

	return r.queryLinks(ctx, query, profileID)
}

func (r *SQLiteRepository) MaxPosition(ctx context.Context, profileID string) (int, bool, error) {
	var pos sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(position) FROM links WHERE profile_id = ?`, profileID).Scan(&pos); err != nil {
		return 0, false, err
	}
	return int(pos.Int64), pos.Valid, nil
}

// SetPosition writes an absolute position; a stale id matches nothing
func (r *SQLiteRepository) SetPosition(ctx context.Context, profileID, id string, position int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE links SET position = ?, updated_at = ? WHERE id = ? AND profile_id = ?`,
		position, formatTime(r.now()), id, profileID)
	return err
}

func (r *SQLiteRepository) IncrementClickCount(ctx context.Context, profileID, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE links SET click_count = click_count + 1 WHERE id = ? AND profile_id = ?`, id, profileID)
	return err
}

func (r *SQLiteRepository) TopLinks(ctx context.Context, profileID string, limit int) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE profile_id = ? ORDER BY click_count DESC, position ASC LIMIT ?`
	return r.queryLinks(ctx, query, profileID, limit)
}

func (r *SQLiteRepository) queryLinks(ctx context.Context, query string, args ...any) ([]domain.Link, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

func scanLink(s rowScanner) (*domain.Link, error) {
	var l domain.Link
	var createdAt, updatedAt string

	if err := s.Scan(&l.ID, &l.ProfileID, &l.Title, &l.URL, &l.Icon, &l.Type, &l.IsActive, &l.Position,
		&l.ClickCount, &l.ThumbnailURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
