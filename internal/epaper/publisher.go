package epaper

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultTarget is the edition label supplements are resolved against.
// The supplement id is always the id of this label plus one; that
// offset is a publisher-side numbering convention, not a general rule.
const DefaultTarget = "Khammam"

// Publisher describes one secondary newspaper source: where its
// endpoints live and which edition labels to pull from its hierarchy.
// The key doubles as the display prefix on normalized edition names.
type Publisher struct {
	Key        string   `yaml:"key"`
	BaseURL    string   `yaml:"base_url"`
	Targets    []string `yaml:"targets"`
	Supplement bool     `yaml:"supplement"`
}

// Eenadu is the aggregator publisher. It has its own endpoint shapes
// (quoted max-date literal, mail edition list, district editions,
// IsMag page list) and is not part of the secondary publisher table.
var Eenadu = Publisher{
	Key:     "eenadu",
	BaseURL: "https://epaper.eenadu.net",
}

// DefaultPublishers returns the compiled-in secondary publisher table.
// Order matters: the aggregate appends contributions in this order, and
// the routing table downstream depends on it staying stable.
func DefaultPublishers() []Publisher {
	return []Publisher{
		{
			Key:        "andhrajyothy",
			BaseURL:    "https://epaper.andhrajyothy.com",
			Targets:    []string{"Khammam"},
			Supplement: true,
		},
		{
			Key:        "vaartha",
			BaseURL:    "https://epaper.vaartha.com",
			Targets:    []string{"Khammam"},
			Supplement: true,
		},
		{
			Key:     "prabhanews",
			BaseURL: "https://epaper.prabhanews.com",
			Targets: []string{"Khammam", "Telangana"},
		},
	}
}

// LoadPublishers reads a YAML publisher table. An empty path returns
// the compiled-in defaults.
func LoadPublishers(path string) ([]Publisher, error) {
	if path == "" {
		return DefaultPublishers(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var pubs []Publisher
	if err := yaml.Unmarshal(b, &pubs); err != nil {
		return nil, fmt.Errorf("parse publishers file: %w", err)
	}

	for i, p := range pubs {
		if p.Key == "" || p.BaseURL == "" {
			return nil, fmt.Errorf("publisher %d: key and base_url are required", i)
		}
		if len(p.Targets) == 0 {
			return nil, fmt.Errorf("publisher %q: at least one target label is required", p.Key)
		}
	}
	return pubs, nil
}
