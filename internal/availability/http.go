package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jockelind/lagerkoll/internal/metrics"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPSource implements Source against a JSON-over-HTTP availability service.
type HTTPSource struct {
	endpoint    string
	storesURL   string
	client      *http.Client
	rateLimiter *RateLimiter
}

// HTTPOption configures the HTTPSource.
type HTTPOption func(*HTTPSource)

// WithStoresURL sets the store directory endpoint. Defaults to
// endpoint + "/stores".
func WithStoresURL(u string) HTTPOption {
	return func(s *HTTPSource) {
		s.storesURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.client = hc
	}
}

// WithRateLimiter injects a rate limiter. When set, every Fetch and Stores
// call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) HTTPOption {
	return func(s *HTTPSource) {
		s.rateLimiter = r
	}
}

// NewHTTPSource creates an availability client for the given endpoint.
func NewHTTPSource(endpoint string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.storesURL == "" {
		s.storesURL = s.endpoint + "/stores"
	}
	return s
}

// Fetch queries per-store availability for a product.
func (s *HTTPSource) Fetch(
	ctx context.Context,
	region, productID string,
	storeIDs []string,
) ([]StoreStock, error) {
	q := url.Values{}
	q.Set("region", region)
	q.Set("product", productID)
	if len(storeIDs) > 0 {
		q.Set("stores", strings.Join(storeIDs, ","))
	}

	var records []StoreStock
	if err := s.getJSON(ctx, s.endpoint+"?"+q.Encode(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Stores queries the store directory for a region.
func (s *HTTPSource) Stores(ctx context.Context, region string) ([]StoreInfo, error) {
	q := url.Values{}
	q.Set("region", region)

	var stores []StoreInfo
	if err := s.getJSON(ctx, s.storesURL+"?"+q.Encode(), &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, rawURL string, dst any) error {
	if s.rateLimiter != nil {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return err
		}
	}

	metrics.SourceCallsTotal.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating availability request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.SourceErrorsTotal.Inc()
		return fmt.Errorf("calling availability source: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.SourceErrorsTotal.Inc()
		return fmt.Errorf("reading availability response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.SourceErrorsTotal.Inc()
		return fmt.Errorf("availability source returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, dst); err != nil {
		metrics.SourceErrorsTotal.Inc()
		return fmt.Errorf("parsing availability response: %w", err)
	}

	return nil
}
