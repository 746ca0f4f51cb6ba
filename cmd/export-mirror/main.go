package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"epaperhub/internal/archive"
	"epaperhub/pkg/database"
	"epaperhub/pkg/models"
)

// Generates the fixture tree cmd/mirror-server serves, from an
// archived snapshot. Each publisher directory gets a max date, an
// editions hierarchy and a one-page GetAllpages response per edition,
// enough for the full aggregation chain to run offline.
func main() {
	var (
		outDir = flag.String("out", "data/mirror", "output fixture directory")
		date   = flag.String("date", "", "archived date key (dd-mm-yyyy); default latest")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := archive.NewRepo(db)

	key := *date
	if key == "" {
		dates, err := repo.Dates(ctx)
		if err != nil || len(dates) == 0 {
			log.Fatalf("no archived snapshots available (run cmd/fetch first)")
		}
		key = dates[0]
	}

	editions, err := repo.ByDate(ctx, key)
	if err != nil {
		log.Fatalf("load snapshot %s: %v", key, err)
	}
	if len(editions) == 0 {
		log.Fatalf("snapshot %s is empty", key)
	}

	if err := writeFixtures(*outDir, key, editions); err != nil {
		log.Fatalf("write fixtures failed: %v", err)
	}

	log.Printf("exported %d editions for %s to %s", len(editions), key, *outDir)
}

type hierarchyLocation struct {
	Label     string `json:"Editionlocation"`
	EditionID int    `json:"EditionId"`
}

type hierarchyEntry struct {
	EditionLocations []hierarchyLocation `json:"editionlocation"`
}

func writeFixtures(outDir, dateKey string, editions []models.Edition) error {
	slashDate := strings.ReplaceAll(dateKey, "-", "/")

	bySource := make(map[string][]models.Edition)
	var order []string
	for _, ed := range editions {
		if _, ok := bySource[ed.Source]; !ok {
			order = append(order, ed.Source)
		}
		bySource[ed.Source] = append(bySource[ed.Source], ed)
	}

	for _, source := range order {
		dir := filepath.Join(outDir, source)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		rows := bySource[source]
		if source == "eenadu" {
			if err := writeEenadu(dir, slashDate, rows); err != nil {
				return err
			}
		} else {
			if err := writePublisher(dir, slashDate, rows); err != nil {
				return err
			}
		}

		for _, ed := range rows {
			page := models.RawPage{
				PageNo:          "1",
				HighResolution:  ed.Path,
				XHighResolution: ed.Path,
				EditionDate:     ed.EditionDate,
				EditionName:     ed.MobEditionName,
				EditionID:       json.Number(fmt.Sprint(ed.EditionID)),
				PageID:          json.Number(ed.PageID),
			}
			name := fmt.Sprintf("pages-%d.json", ed.EditionID)
			if err := writeJSON(filepath.Join(dir, name), []models.RawPage{page}); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeEenadu(dir, slashDate string, rows []models.Edition) error {
	// quoted string literal, matching the real GetMaxdateJson
	if err := os.WriteFile(filepath.Join(dir, "maxdate.json"), []byte(`"`+slashDate+`"`), 0o644); err != nil {
		return err
	}

	var mail, district []models.Edition
	for _, ed := range rows {
		if ed.EditionName == "KHAMMAM" {
			district = append(district, ed)
			continue
		}
		mail = append(mail, ed)
	}
	if district == nil {
		district = []models.Edition{}
	}

	if err := writeJSON(filepath.Join(dir, "mail-editions.json"), mail); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "district-editions.json"), district)
}

func writePublisher(dir, slashDate string, rows []models.Edition) error {
	if err := writeJSON(filepath.Join(dir, "maxdate.json"), map[string]string{"maxdate": slashDate}); err != nil {
		return err
	}

	locations := make([]hierarchyLocation, 0, len(rows))
	for _, ed := range rows {
		locations = append(locations, hierarchyLocation{
			Label:     ed.MobEditionName,
			EditionID: ed.EditionID,
		})
	}
	return writeJSON(filepath.Join(dir, "hierarchy.json"), []hierarchyEntry{{EditionLocations: locations}})
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
