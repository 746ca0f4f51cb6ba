package epaper

import (
	"context"
	"fmt"
	"strings"
)

// EenaduMaxDate fetches the latest published date from the aggregator
// publisher. The endpoint answers with a JSON string literal, e.g.
// "21/06/2024" including the quotes, which are stripped and the value
// returned untouched: it is a cache key component, never reformatted.
func (s *Service) EenaduMaxDate(ctx context.Context) (string, error) {
	key := "maxdate/" + s.eenadu.Key
	if v, ok := s.cache.Get(key); ok {
		return v.(string), nil
	}

	text, err := s.getText(ctx, s.eenadu.BaseURL+"/Home/GetMaxdateJson")
	if err != nil {
		return "", err
	}
	date := strings.Trim(text, `"`)
	if date == "" {
		return "", fmt.Errorf("max date for %s: %w", s.eenadu.Key, ErrNotFound)
	}

	s.cache.Set(key, date)
	return date, nil
}

// MaxDate fetches the latest published date for a secondary publisher
// from its GetMaxDate endpoint.
func (s *Service) MaxDate(ctx context.Context, pub Publisher) (string, error) {
	key := "maxdate/" + pub.Key
	if v, ok := s.cache.Get(key); ok {
		return v.(string), nil
	}

	var body struct {
		MaxDate string `json:"maxdate"`
	}
	if err := s.getJSON(ctx, pub.BaseURL+"/Login/GetMaxDate", &body); err != nil {
		return "", err
	}
	if strings.TrimSpace(body.MaxDate) == "" {
		return "", fmt.Errorf("max date for %s: %w", pub.Key, ErrNotFound)
	}

	s.cache.Set(key, body.MaxDate)
	return body.MaxDate, nil
}
