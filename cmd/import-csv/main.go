package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"epaperhub/pkg/database"
)

// Restores an editions archive exported by cmd/export-csv, e.g. when
// moving the service to a new host.
func main() {
	editionsIn := flag.String("editions", "data/editions.csv", "input CSV path for archived editions")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	n, err := importEditions(ctx, db, *editionsIn)
	if err != nil {
		log.Fatalf("import editions failed: %v", err)
	}

	log.Printf("imported %d edition rows from %s", n, *editionsIn)
}

func importEditions(ctx context.Context, db *sql.DB, inPath string) (int, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if len(header) != 9 || strings.TrimSpace(header[0]) != "date" {
		return 0, fmt.Errorf("unexpected header: %v", header)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

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
		return 0, fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read row %d: %w", count+1, err)
		}
		if len(record) != 9 {
			return 0, fmt.Errorf("row %d: expected 9 fields, got %d", count+1, len(record))
		}

		editionID, err := strconv.Atoi(record[2])
		if err != nil {
			return 0, fmt.Errorf("row %d: bad edition_id %q", count+1, record[2])
		}
		position, err := strconv.Atoi(record[8])
		if err != nil {
			return 0, fmt.Errorf("row %d: bad position %q", count+1, record[8])
		}

		if _, err := stmt.ExecContext(
			ctx,
			record[0], record[1], editionID, record[3], record[4], record[5], record[6], record[7], position,
		); err != nil {
			return 0, fmt.Errorf("row %d: insert: %w", count+1, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return count, nil
}
