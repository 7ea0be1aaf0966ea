package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stocksage-ai/stocksage/pkg/cache"
	"github.com/stocksage-ai/stocksage/pkg/config"
	"github.com/stocksage-ai/stocksage/pkg/models"
)

// Fetch failure classes. All of them are absorbed at the context-assembly
// boundary: a failed facet becomes an absent field, never a propagated error.
var (
	// ErrTransient marks network or timeout failures; the next call may retry.
	ErrTransient = errors.New("market data request failed")
	// ErrUpstream marks a non-2xx response from the provider.
	ErrUpstream = errors.New("market data endpoint returned an error")
	// ErrMalformed marks a response body that is not valid JSON.
	ErrMalformed = errors.New("market data response is not valid JSON")
)

// Client fetches live market data facets for a symbol, backed by a shared
// TTL cache. The blocking and concurrent entry points drive the same
// fetch-with-cache routine, so callers on either path observe each other's
// cache fills.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	store   *cache.Store
	log     zerolog.Logger
}

// NewClient validates the provider configuration and builds a Client.
// A malformed base URL is the one fatal error in this package.
func NewClient(cfg config.ProviderConfig, cacheCfg config.CacheConfig, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid provider url %q", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var store *cache.Store
	if cacheCfg.Enabled {
		store = cache.New(cacheCfg.TTL)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: timeout},
		store:   store,
		log:     logger.With().Str("component", "marketdata").Logger(),
	}, nil
}

// Key returns the cache fingerprint for a facet/symbol pair, e.g. "price:TCS".
func Key(facet models.Facet, symbol string) string {
	return string(facet) + ":" + strings.ToUpper(symbol)
}

// Context fetches all three facets sequentially and assembles a best-effort
// LiveContext. Individual facet failures are logged and left absent.
func (c *Client) Context(ctx context.Context, symbol string) *models.LiveContext {
	lc := &models.LiveContext{Symbol: strings.ToUpper(symbol), FetchedAt: time.Now().UTC()}
	for _, facet := range models.Facets {
		lc.Set(facet, c.fetchOrAbsent(ctx, facet, lc.Symbol))
	}
	return lc
}

// ContextConcurrent fetches the three facets in parallel and waits for all
// of them before assembling the LiveContext. A failed facet never cancels
// its siblings; errors are absorbed inside each goroutine.
func (c *Client) ContextConcurrent(ctx context.Context, symbol string) *models.LiveContext {
	lc := &models.LiveContext{Symbol: strings.ToUpper(symbol), FetchedAt: time.Now().UTC()}

	blobs := make([]json.RawMessage, len(models.Facets))
	g, gctx := errgroup.WithContext(ctx)
	for i, facet := range models.Facets {
		g.Go(func() error {
			blobs[i] = c.fetchOrAbsent(gctx, facet, lc.Symbol)
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	for i, facet := range models.Facets {
		lc.Set(facet, blobs[i])
	}
	return lc
}

// Fetch retrieves a single facet, going through the cache. Unlike the
// context assemblers it surfaces the classified error to the caller.
func (c *Client) Fetch(ctx context.Context, facet models.Facet, symbol string) (json.RawMessage, error) {
	return c.fetchFacet(ctx, facet, strings.ToUpper(symbol))
}

// CacheStats reports cache metrics; zeros when the cache is disabled.
func (c *Client) CacheStats() models.CacheStats {
	if c.store == nil {
		return models.CacheStats{}
	}
	return c.store.Stats()
}

func (c *Client) fetchOrAbsent(ctx context.Context, facet models.Facet, symbol string) json.RawMessage {
	data, err := c.fetchFacet(ctx, facet, symbol)
	if err != nil {
		c.log.Warn().
			Str("facet", string(facet)).
			Str("symbol", symbol).
			Err(err).
			Msg("facet fetch failed, continuing without it")
		return nil
	}
	return data
}

// fetchFacet is the single fetch-with-cache routine behind both call paths.
// Failures are never cached, so the next call retries instead of pinning a
// bad result for the TTL window.
func (c *Client) fetchFacet(ctx context.Context, facet models.Facet, symbol string) (json.RawMessage, error) {
	key := Key(facet, symbol)
	if c.store != nil {
		if data, ok := c.store.Get(key); ok {
			c.log.Debug().Str("key", key).Msg("cache hit")
			return data, nil
		}
	}

	endpoint := fmt.Sprintf("%s/stock/%s/%s", c.baseURL, url.PathEscape(symbol), facet)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d for %s", ErrUpstream, resp.StatusCode, key)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, key)
	}

	if c.store != nil {
		c.store.Set(key, body)
	}
	return body, nil
}
