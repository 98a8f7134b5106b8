// Package pollsource retrieves raw polling observations and normalizes them
// into the schema the aggregation engine consumes. Sources are pluggable
// behind contract.PollSource: an HTTP source that scrapes a published poll
// table, and a CSV source for previously exported data.
package pollsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/polltrend/polltrend/internal/contract"
	"github.com/polltrend/polltrend/schema"
)

// payloadVersion guards cached page payloads against format changes.
const payloadVersion = 1

// HTTPSource fetches a poll table from a URL. Fetched pages are cached
// through a contract.CacheStore so repeat runs within the TTL avoid the
// network entirely.
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Cache   contract.CacheStore
	TTL     time.Duration
	Verbose bool
}

// NewHTTPSource builds an HTTP source. cache may be a no-op store when
// caching is disabled.
func NewHTTPSource(url string, timeout time.Duration, cache contract.CacheStore, ttl time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		Cache:  cache,
		TTL:    ttl,
	}
}

// FetchPolls retrieves the page, parses its first table and normalizes the
// rows into observations.
func (s *HTTPSource) FetchPolls(ctx context.Context) (*schema.PollsResult, error) {
	payload, err := s.fetchPage(ctx)
	if err != nil {
		return nil, err
	}

	header, rows, err := ParseFirstTable(payload)
	if err != nil {
		return nil, fmt.Errorf("parse poll table from %s: %w", s.URL, err)
	}

	return Normalize(header, rows)
}

// fetchPage returns the raw page bytes, preferring a fresh cache entry.
func (s *HTTPSource) fetchPage(ctx context.Context) ([]byte, error) {
	if cached, ok := s.cachedPage(); ok {
		if s.Verbose {
			contract.LogInfo(fmt.Sprintf("using cached page for %s", s.URL))
		}
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", s.URL, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch polls from %s: %w", s.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch polls from %s: unexpected status %s", s.URL, resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read poll page body: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.Set(s.URL, payload, payloadVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("caching poll page", err)
		}
	}

	return payload, nil
}

// cachedPage returns a cached payload when it exists, matches the current
// payload version, and is younger than the TTL.
func (s *HTTPSource) cachedPage() ([]byte, bool) {
	if s.Cache == nil || s.TTL <= 0 {
		return nil, false
	}
	payload, version, timestamp, err := s.Cache.Get(s.URL)
	if err != nil || payload == nil {
		return nil, false
	}
	if version != payloadVersion {
		return nil, false
	}
	if time.Since(time.Unix(timestamp, 0)) > s.TTL {
		return nil, false
	}
	return payload, true
}
