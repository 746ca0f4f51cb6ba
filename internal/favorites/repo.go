package favorites

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"epaperhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Upsert pins an edition for a user. Re-pinning refreshes the name in
// case the publisher renamed the edition.
func (r *Repo) Upsert(ctx context.Context, f models.Favorite) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO favorites (user_id, source, edition_id, edition_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, source, edition_id) DO UPDATE SET
			edition_name = excluded.edition_name
	`, f.UserID, f.Source, f.EditionID, f.EditionName)
	if err != nil {
		return fmt.Errorf("upsert favorite: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, source string, editionID int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = ? AND source = ? AND edition_id = ?
	`, userID, source, editionID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, source, edition_id, edition_name, created_at
		FROM favorites
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var out []models.Favorite
	for rows.Next() {
		var f models.Favorite
		var created time.Time
		if err := rows.Scan(&f.UserID, &f.Source, &f.EditionID, &f.EditionName, &created); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		f.CreatedAt = created
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
