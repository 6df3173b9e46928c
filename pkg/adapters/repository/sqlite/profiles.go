package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wadjakorntonsri/folio/pkg/core/domain"
)

const profileColumns = `id, username, display_name, bio, avatar_url, theme, accent_color, is_pro, total_views, created_at, updated_at`

func (r *SQLiteRepository) CreateProfile(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Username, p.DisplayName, p.Bio, p.AvatarURL, p.Theme, p.AccentColor,
		p.IsPro, p.TotalViews, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: profile %s / username %s", domain.ErrConflict, p.ID, p.Username)
	}
	return err
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

func (r *SQLiteRepository) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE username = ?`, username)
	return scanProfile(row)
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	query := `UPDATE profiles SET display_name = ?, bio = ?, avatar_url = ?, theme = ?, accent_color = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, p.DisplayName, p.Bio, p.AvatarURL, p.Theme, p.AccentColor, formatTime(p.UpdatedAt), p.ID)
	return err
}

func (r *SQLiteRepository) SetUsername(ctx context.Context, id, username string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET username = ?, updated_at = ? WHERE id = ?`, username, formatTime(r.now()), id)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: username %s", domain.ErrConflict, username)
	}
	return err
}

func (r *SQLiteRepository) IncrementTotalViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET total_views = total_views + 1 WHERE id = ?`, id)
	return err
}

func scanProfile(row *sql.Row) (*domain.Profile, error) {
	var p domain.Profile
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.Bio, &p.AvatarURL, &p.Theme, &p.AccentColor,
		&p.IsPro, &p.TotalViews, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
