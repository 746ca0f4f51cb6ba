package readstate

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

// Upsert records where a user left off in an edition. One row per
// user/source/edition; a new date simply overwrites the old position.
func (r *Repo) Upsert(ctx context.Context, st models.ReadState) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO read_state (user_id, source, edition_id, date, page_index, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, source, edition_id) DO UPDATE SET
			date = excluded.date,
			page_index = excluded.page_index,
			updated_at = CURRENT_TIMESTAMP
	`, st.UserID, st.Source, st.EditionID, st.Date, st.PageIndex)
	if err != nil {
		return fmt.Errorf("upsert read state: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, source string, editionID int) (*models.ReadState, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT user_id, source, edition_id, date, page_index, updated_at
		FROM read_state
		WHERE user_id = ? AND source = ? AND edition_id = ?
	`, userID, source, editionID)

	var st models.ReadState
	var updated time.Time
	if err := row.Scan(&st.UserID, &st.Source, &st.EditionID, &st.Date, &st.PageIndex, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get read state: %w", err)
	}
	st.UpdatedAt = updated
	return &st, nil
}

func (r *Repo) List(ctx context.Context, userID string) ([]models.ReadState, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, source, edition_id, date, page_index, updated_at
		FROM read_state
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list read state: %w", err)
	}
	defer rows.Close()

	var out []models.ReadState
	for rows.Next() {
		var st models.ReadState
		var updated time.Time
		if err := rows.Scan(&st.UserID, &st.Source, &st.EditionID, &st.Date, &st.PageIndex, &updated); err != nil {
			return nil, fmt.Errorf("scan read state: %w", err)
		}
		st.UpdatedAt = updated
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
