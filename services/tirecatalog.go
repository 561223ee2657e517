// ABOUTME: Client for the independent tire catalog provider
// ABOUTME: Query-string filters with a static access token, no login required

package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/skolesnik/shinshop/backend/models"
)

// TireCatalogClient fetches the tire feed. The provider answers with
// either {tires: [...]} or a bare array depending on its version; both
// shapes are accepted.
type TireCatalogClient struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewTireCatalogClient(baseURL, accessToken string) *TireCatalogClient {
	return &TireCatalogClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient allows overriding the HTTP client (useful for testing)
func (c *TireCatalogClient) SetHTTPClient(client *http.Client) {
	c.client = client
}

// FetchTires returns raw tire records for the given filters. Only filters
// the caller actually supplied become query parameters.
func (c *TireCatalogClient) FetchTires(ctx context.Context, f models.Filters) ([]gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v2/tires", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	req.URL.RawQuery = c.buildQuery(f).Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Tire catalog fetch failed", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: tire catalog returned status %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	parsed := gjson.ParseBytes(body)
	list := parsed
	if parsed.IsObject() {
		list = parsed.Get("tires")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: tire catalog body is not a list", models.ErrUpstreamUnavailable)
	}

	records := list.Array()
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: tire catalog", models.ErrEmptyResult)
	}

	slog.Debug("Tire catalog fetched", "items", len(records))
	return records, nil
}

// buildQuery maps the filter set to the provider's parameter names.
// Absent filters are omitted entirely, never sent as sentinel values.
func (c *TireCatalogClient) buildQuery(f models.Filters) url.Values {
	q := url.Values{}
	q.Set("access_token", c.accessToken)

	setIfPresent := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	setIfPresent("season", f.Season)
	setIfPresent("width", f.Width)
	setIfPresent("height", f.Height)
	setIfPresent("diameter", f.Diameter)
	setIfPresent("brand", f.Brand)
	setIfPresent("model", f.Model)

	if f.RunFlat {
		q.Set("runflat", "1")
	}
	if f.Studded {
		q.Set("spike", "1")
	}
	if f.Cargo {
		q.Set("cargo", "1")
	}

	return q
}
