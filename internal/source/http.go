package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/telemetry/tracing"
)

const httpCacheSize = 10 * 1024 * 1024 // 10 MB

// HTTPSource fetches the raw records text over HTTP. Response bodies are
// cached for cacheTTL, so repeated reloads within that time do not hit the
// remote end.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	cache      *freecache.Cache
	cacheTTL   time.Duration
	loc        *time.Location
}

func NewHTTPSource(url string, httpClient *http.Client, cacheTTL time.Duration, loc *time.Location) *HTTPSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPSource{
		url:        url,
		httpClient: httpClient,
		cache:      freecache.NewCache(httpCacheSize),
		cacheTTL:   cacheTTL,
		loc:        loc,
	}
}

func (s *HTTPSource) FetchRecords(ctx context.Context) (_ []records.ExerciseRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "source.http.fetch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := []byte(s.url)
	if cached, err := s.cache.Get(cacheKey); err == nil {
		log.Tracef("records for %s served from cache", s.url)
		return ParseRecords(bytes.NewReader(cached), s.loc)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get records: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s returned 404", ErrResourceMissing, s.url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get records: unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read records response: %w", err)
	}

	if ttl := int(s.cacheTTL.Seconds()); ttl > 0 {
		if err := s.cache.Set(cacheKey, body, ttl); err != nil {
			log.Warnf("failed to cache records response (%d bytes): %s", len(body), err)
		}
	}

	return ParseRecords(bytes.NewReader(body), s.loc)
}

// ClearCache forces the next fetch to go to the remote end.
func (s *HTTPSource) ClearCache() {
	s.cache.Clear()
}
