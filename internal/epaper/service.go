package epaper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"

	"epaperhub/internal/cache"
	"epaperhub/pkg/models"
)

// Service aggregates edition data from the configured publishers and
// keeps the routing snapshot the page endpoints resolve against.
type Service struct {
	client     *http.Client
	cache      *cache.Store
	eenadu     Publisher
	publishers []Publisher

	mu   sync.RWMutex
	snap *Snapshot
}

// Snapshot is one immutable aggregation result: the ordered edition
// list for a date plus the publisher-to-edition-id routing index built
// from it. A rebuild produces a fresh snapshot and swaps the pointer;
// nothing mutates a snapshot after construction.
type Snapshot struct {
	Date     string
	Editions []models.Edition
	index    map[string]map[int]struct{}
}

// Knows reports whether the snapshot saw the given edition id for the
// given source during its aggregation run.
func (sn *Snapshot) Knows(source string, editionID int) bool {
	if sn == nil {
		return false
	}
	ids, ok := sn.index[source]
	if !ok {
		return false
	}
	_, ok = ids[editionID]
	return ok
}

func NewService(client *http.Client, store *cache.Store, eenadu Publisher, publishers []Publisher) *Service {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Service{
		client:     client,
		cache:      store,
		eenadu:     eenadu,
		publishers: publishers,
	}
}

// Current returns the last built snapshot, or nil before the first
// successful aggregation.
func (s *Service) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// ListEditions aggregates all configured publishers for the current
// max date. The append order is fixed: eenadu main editions, the
// KHAMMAM district edition, then each secondary publisher's base
// edition immediately followed by its supplement. One publisher
// failing never aborts the others; it just contributes nothing.
func (s *Service) ListEditions(ctx context.Context) (*Snapshot, error) {
	date, err := s.EenaduMaxDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate editions: %w", err)
	}

	key := "editions/" + date
	if v, ok := s.cache.Get(key); ok {
		return v.(*Snapshot), nil
	}

	editions := s.eenaduEditions(ctx, date)

	if district, err := s.districtEdition(ctx, date); err != nil {
		log.Printf("[epaper] district edition unavailable: %v", err)
	} else {
		editions = append(editions, district)
	}

	for _, pub := range s.publishers {
		for i, target := range pub.Targets {
			ed, err := s.PublisherEdition(ctx, pub, target)
			if err != nil {
				log.Printf("[epaper] %s %q edition unavailable: %v", pub.Key, target, err)
				continue
			}
			editions = append(editions, ed)

			// the supplement rides along with the first target only
			if i != 0 || !pub.Supplement {
				continue
			}
			supp, err := s.SupplementEdition(ctx, pub)
			if err != nil {
				log.Printf("[epaper] %s supplement unavailable: %v", pub.Key, err)
				continue
			}
			editions = append(editions, supp)
		}
	}

	snap := newSnapshot(date, editions)

	s.cache.Set(key, snap)
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	log.Printf("[epaper] aggregated %d editions for %s", len(editions), date)
	return snap, nil
}

func newSnapshot(date string, editions []models.Edition) *Snapshot {
	index := make(map[string]map[int]struct{})
	for _, ed := range editions {
		ids, ok := index[ed.Source]
		if !ok {
			ids = make(map[int]struct{})
			index[ed.Source] = ids
		}
		ids[ed.EditionID] = struct{}{}
	}
	return &Snapshot{Date: date, Editions: editions, index: index}
}

// eenaduEditions fetches the aggregator publisher's main edition list,
// already in canonical shape, and tags each entry with its source.
// Failure degrades to an empty list so the secondary publishers still
// contribute.
func (s *Service) eenaduEditions(ctx context.Context, date string) []models.Edition {
	u := s.eenadu.BaseURL + "/Login/GetMailEditionPages?Date=" + url.QueryEscape(date)

	var editions []models.Edition
	if err := s.getJSON(ctx, u, &editions); err != nil {
		log.Printf("[epaper] eenadu main editions unavailable: %v", err)
		return nil
	}
	for i := range editions {
		editions[i].Source = s.eenadu.Key
	}
	return editions
}

// districtEdition fetches eenadu's district edition list and picks the
// KHAMMAM entry. The match is exact and case-sensitive; district names
// are uppercase on the wire.
func (s *Service) districtEdition(ctx context.Context, date string) (models.Edition, error) {
	u := s.eenadu.BaseURL + "/Login/GetDistrictEditionPages?DistrictEditionId=1&Date=" + url.QueryEscape(date)

	var districts []models.Edition
	if err := s.getJSON(ctx, u, &districts); err != nil {
		return models.Edition{}, err
	}
	for _, d := range districts {
		if d.EditionName == "KHAMMAM" {
			d.Source = s.eenadu.Key
			return d, nil
		}
	}
	return models.Edition{}, fmt.Errorf("district edition KHAMMAM: %w", ErrNotFound)
}

// PublisherEdition runs one secondary publisher's full resolution
// chain for a target label: max date, edition id, page list, then
// normalization of the first page into a canonical edition entry.
func (s *Service) PublisherEdition(ctx context.Context, pub Publisher, target string) (models.Edition, error) {
	id, err := s.EditionID(ctx, pub, target)
	if err != nil {
		return models.Edition{}, err
	}
	return s.editionFromPages(ctx, pub, id)
}

// SupplementEdition resolves a publisher's supplement edition: the
// default target's id plus one, fetched and normalized the same way.
func (s *Service) SupplementEdition(ctx context.Context, pub Publisher) (models.Edition, error) {
	id, err := s.SupplementEditionID(ctx, pub)
	if err != nil {
		return models.Edition{}, err
	}
	return s.editionFromPages(ctx, pub, id)
}

func (s *Service) editionFromPages(ctx context.Context, pub Publisher, editionID int) (models.Edition, error) {
	date, err := s.MaxDate(ctx, pub)
	if err != nil {
		return models.Edition{}, err
	}

	pages, err := s.Pages(ctx, pub, editionID, date)
	if err != nil {
		return models.Edition{}, err
	}
	if len(pages) == 0 {
		return models.Edition{}, fmt.Errorf("edition %d for %s has no pages: %w", editionID, pub.Key, ErrNotFound)
	}

	return NormalizeEntry(pages[0], pub.Key)
}

// PagesFor routes a page-list request to the right fetch path by
// source name. Unknown names are a not-found condition, not an error.
func (s *Service) PagesFor(ctx context.Context, name string, editionID int) ([]models.RawPage, error) {
	if name == s.eenadu.Key {
		date, err := s.EenaduMaxDate(ctx)
		if err != nil {
			return nil, err
		}
		return s.EenaduPages(ctx, editionID, date)
	}

	pub, ok := s.publisherByKey(name)
	if !ok {
		return nil, fmt.Errorf("publisher %q: %w", name, ErrNotFound)
	}

	date, err := s.MaxDate(ctx, pub)
	if err != nil {
		return nil, err
	}
	return s.Pages(ctx, pub, editionID, date)
}

func (s *Service) publisherByKey(key string) (Publisher, bool) {
	for _, pub := range s.publishers {
		if pub.Key == key {
			return pub, true
		}
	}
	return Publisher{}, false
}

// InvalidateAll drops every memoized lookup. Idempotent; the daily
// schedule and the admin endpoint both call it.
func (s *Service) InvalidateAll() {
	s.cache.Clear()
	log.Printf("[epaper] cache cleared")
}

// Refresh invalidates everything and aggregates from scratch.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	s.InvalidateAll()
	return s.ListEditions(ctx)
}
