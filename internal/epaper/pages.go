package epaper

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"epaperhub/pkg/models"
)

const editionDateLayout = "02/01/2006"

// formatEditionDate re-parses a dd/mm/yyyy date and re-emits it in the
// same layout. The round trip is a deliberate no-op kept from earlier
// date-format variance between publishers; a date that is already in
// this layout passes through unchanged, anything else errors loudly.
func formatEditionDate(date string) (string, error) {
	t, err := time.Parse(editionDateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", fmt.Errorf("malformed edition date %q: %w", date, err)
	}
	return t.Format(editionDateLayout), nil
}

// Pages fetches the ordered page list for one secondary publisher
// edition. The result is sorted ascending by PageNo as an integer;
// that ordering is the one guarantee the page-turning UI depends on.
func (s *Service) Pages(ctx context.Context, pub Publisher, editionID int, date string) ([]models.RawPage, error) {
	formatted, err := formatEditionDate(date)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("pages/%s/%d/%s", pub.Key, editionID, formatted)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.RawPage), nil
	}

	u := fmt.Sprintf("%s/Home/GetAllpages?editionid=%d&editiondate=%s",
		pub.BaseURL, editionID, url.QueryEscape(formatted))

	var pages []models.RawPage
	if err := s.getJSON(ctx, u, &pages); err != nil {
		return nil, err
	}
	if err := sortPages(pages); err != nil {
		return nil, fmt.Errorf("pages for %s edition %d: %w", pub.Key, editionID, err)
	}

	s.cache.Set(key, pages)
	return pages, nil
}

// EenaduPages fetches the page list for an eenadu edition. The date is
// passed through as-is; only this endpoint carries the IsMag flag.
func (s *Service) EenaduPages(ctx context.Context, editionID int, date string) ([]models.RawPage, error) {
	key := fmt.Sprintf("pages/%s/%d/%s", s.eenadu.Key, editionID, date)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.RawPage), nil
	}

	u := fmt.Sprintf("%s/Home/GetAllpages?editionid=%d&editiondate=%s&IsMag=0",
		s.eenadu.BaseURL, editionID, url.QueryEscape(date))

	var pages []models.RawPage
	if err := s.getJSON(ctx, u, &pages); err != nil {
		return nil, err
	}
	if err := sortPages(pages); err != nil {
		return nil, fmt.Errorf("pages for eenadu edition %d: %w", editionID, err)
	}

	s.cache.Set(key, pages)
	return pages, nil
}

// sortPages orders pages ascending by the integer value of PageNo.
// The sort is stable so equal page numbers keep response order.
func sortPages(pages []models.RawPage) error {
	type numbered struct {
		n    int
		page models.RawPage
	}

	tmp := make([]numbered, len(pages))
	for i, p := range pages {
		n, err := strconv.Atoi(p.PageNo.String())
		if err != nil {
			return fmt.Errorf("non-numeric PageNo %q: %w", p.PageNo.String(), err)
		}
		tmp[i] = numbered{n: n, page: p}
	}

	sort.SliceStable(tmp, func(i, j int) bool { return tmp[i].n < tmp[j].n })
	for i := range tmp {
		pages[i] = tmp[i].page
	}
	return nil
}
