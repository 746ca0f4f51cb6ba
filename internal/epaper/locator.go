package epaper

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// hierarchyEntry is one top-level node of a publisher's editions
// hierarchy. Only the nested location list matters; everything else in
// the response is ignored.
type hierarchyEntry struct {
	EditionLocations []struct {
		Label     string      `json:"Editionlocation"`
		EditionID json.Number `json:"EditionId"`
	} `json:"editionlocation"`
}

// EditionID resolves the numeric edition id for a target label by
// scanning the publisher's hierarchy in response order. First exact
// match (after trimming whitespace, no case folding) wins; duplicate
// labels silently resolve to the earliest occurrence.
func (s *Service) EditionID(ctx context.Context, pub Publisher, target string) (int, error) {
	key := "editionid/" + pub.Key + "/" + target
	if v, ok := s.cache.Get(key); ok {
		return v.(int), nil
	}

	var entries []hierarchyEntry
	if err := s.getJSON(ctx, pub.BaseURL+"/Home/GetEditionsHierarchy", &entries); err != nil {
		return 0, err
	}

	for _, entry := range entries {
		for _, loc := range entry.EditionLocations {
			if strings.TrimSpace(loc.Label) != target {
				continue
			}
			id, err := strconv.Atoi(loc.EditionID.String())
			if err != nil {
				return 0, fmt.Errorf("edition id for %s %q: %w", pub.Key, target, err)
			}
			s.cache.Set(key, id)
			return id, nil
		}
	}
	return 0, fmt.Errorf("edition %q for %s: %w", target, pub.Key, ErrNotFound)
}

// SupplementEditionID returns the id of the publisher's supplement
// (zilla) edition: the default label's id plus one. The offset is how
// these publishers number their supplements; it is resolved from the
// already-located base id, never via a second hierarchy lookup.
func (s *Service) SupplementEditionID(ctx context.Context, pub Publisher) (int, error) {
	base, err := s.EditionID(ctx, pub, DefaultTarget)
	if err != nil {
		return 0, err
	}
	return base + 1, nil
}
