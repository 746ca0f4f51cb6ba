package main

import (
	"context"
	"log"
	"os"
	"time"

	"epaperhub/internal/archive"
	"epaperhub/internal/cache"
	"epaperhub/internal/epaper"
	"epaperhub/pkg/database"
)

// One-shot aggregation: resolve every configured publisher, print a
// summary and archive the snapshot. Useful from cron or by hand.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	publishers, err := epaper.LoadPublishers(os.Getenv("EPAPERHUB_PUBLISHERS"))
	if err != nil {
		log.Fatalf("load publishers failed: %v", err)
	}

	svc := epaper.NewService(epaper.NewHTTPClient(), cache.New(cache.DefaultTTL), epaper.Eenadu, publishers)

	snap, err := svc.ListEditions(ctx)
	if err != nil {
		log.Fatalf("aggregate failed: %v", err)
	}

	log.Printf("aggregated %d editions for %s", len(snap.Editions), snap.Date)
	for _, ed := range snap.Editions {
		log.Printf("  %-14s %4d  %s", ed.Source, ed.EditionID, ed.EditionName)
	}

	if err := archive.NewRepo(db).SaveSnapshot(ctx, snap.Date, snap.Editions); err != nil {
		log.Fatalf("archive failed: %v", err)
	}

	log.Printf("snapshot archived as %s", archive.DateKey(snap.Date))
}
