package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"epaperhub/pkg/models"
)

// Repo persists daily aggregation snapshots so past days stay
// browsable after publishers roll their max date forward.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// DateKey converts a publisher-format date (dd/mm/yyyy) into the
// dash form used as the archive key and in URLs.
func DateKey(date string) string {
	return strings.ReplaceAll(date, "/", "-")
}

// SaveSnapshot replaces the archived snapshot for a date wholesale.
// Partial updates are never written; a reader sees either the old
// day's rows or the new ones.
func (r *Repo) SaveSnapshot(ctx context.Context, date string, editions []models.Edition) error {
	key := DateKey(date)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM editions WHERE date = ?`, key); err != nil {
		return fmt.Errorf("clear snapshot %s: %w", key, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO editions (date, source, edition_id, edition_name, mob_edition_name, path, page_id, edition_date, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, source, edition_id) DO UPDATE SET
		  edition_name = excluded.edition_name,
		  mob_edition_name = excluded.mob_edition_name,
		  path = excluded.path,
		  page_id = excluded.page_id,
		  edition_date = excluded.edition_date,
		  position = excluded.position
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, ed := range editions {
		if _, err := stmt.ExecContext(
			ctx,
			key,
			ed.Source,
			ed.EditionID,
			ed.EditionName,
			ed.MobEditionName,
			ed.Path,
			ed.PageID,
			ed.EditionDate,
			i,
		); err != nil {
			return fmt.Errorf("insert %s/%d for %s: %w", ed.Source, ed.EditionID, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Dates lists archived snapshot dates, most recent first by insertion.
func (r *Repo) Dates(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT date FROM editions
		GROUP BY date
		ORDER BY MAX(fetched_at) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return dates, nil
}

// ByDate returns the archived edition list for a date key in the order
// it was aggregated.
func (r *Repo) ByDate(ctx context.Context, dateKey string) ([]models.Edition, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT source, edition_id, edition_name, mob_edition_name, path, page_id, edition_date
		FROM editions
		WHERE date = ?
		ORDER BY position ASC
	`, dateKey)
	if err != nil {
		return nil, fmt.Errorf("list snapshot %s: %w", dateKey, err)
	}
	defer rows.Close()

	var out []models.Edition
	for rows.Next() {
		var ed models.Edition
		if err := rows.Scan(
			&ed.Source, &ed.EditionID, &ed.EditionName, &ed.MobEditionName,
			&ed.Path, &ed.PageID, &ed.EditionDate,
		); err != nil {
			return nil, fmt.Errorf("scan edition: %w", err)
		}
		ed.Date = dateKey
		out = append(out, ed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
