package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"epaperhub/pkg/database"
)

func main() {
	var (
		editionsOut = flag.String("editions", "data/editions.csv", "output CSV path for archived editions")
		statesOut   = flag.String("read-state", "data/read_state.csv", "output CSV path for user read state")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportEditions(ctx, db, *editionsOut); err != nil {
		log.Fatalf("export editions failed: %v", err)
	}
	if err := exportReadState(ctx, db, *statesOut); err != nil {
		log.Fatalf("export read state failed: %v", err)
	}

	log.Printf("exported editions to %s and read state to %s", *editionsOut, *statesOut)
}

func exportEditions(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "source", "edition_id", "edition_name", "mob_edition_name", "path", "page_id", "edition_date", "position"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT date, source, edition_id, edition_name, mob_edition_name, path, page_id, edition_date, position
        FROM editions
        ORDER BY date, position
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			date           string
			source         string
			editionID      int
			editionName    string
			mobEditionName string
			path           string
			pageID         string
			editionDate    string
			position       int
		)

		if err := rows.Scan(&date, &source, &editionID, &editionName, &mobEditionName, &path, &pageID, &editionDate, &position); err != nil {
			return err
		}

		if err := w.Write([]string{
			date,
			source,
			strconv.Itoa(editionID),
			editionName,
			mobEditionName,
			path,
			pageID,
			editionDate,
			strconv.Itoa(position),
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportReadState(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "source", "edition_id", "date", "page_index", "updated_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT user_id, source, edition_id, date, page_index, updated_at
        FROM read_state
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID    string
			source    string
			editionID int
			date      string
			pageIndex int
			updatedAt sql.NullTime
		)

		if err := rows.Scan(&userID, &source, &editionID, &date, &pageIndex, &updatedAt); err != nil {
			return err
		}

		updated := ""
		if updatedAt.Valid {
			updated = updatedAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			userID,
			source,
			strconv.Itoa(editionID),
			date,
			strconv.Itoa(pageIndex),
			updated,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
