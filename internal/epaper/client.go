package epaper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound marks a semantic miss: the publisher answered, but the
// label, edition or page list we asked for does not exist. Transport
// and decode failures are returned as ordinary wrapped errors, so
// callers can tell the two apart with errors.Is.
var ErrNotFound = errors.New("not found")

// NewHTTPClient returns the client used for all publisher calls. The
// timeout is hygiene, not correctness: nothing retries or cancels on
// its account.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

func (s *Service) getBody(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	return body, nil
}

func (s *Service) getJSON(ctx context.Context, url string, v any) error {
	body, err := s.getBody(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// getText returns a trimmed response body for endpoints that answer
// with a bare string instead of a JSON document.
func (s *Service) getText(ctx context.Context, url string) (string, error) {
	body, err := s.getBody(ctx, url)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
