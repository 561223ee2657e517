// ABOUTME: Back-office feed client for fasteners, sensors, and spare-wheel items
// ABOUTME: Bearer-authenticated GET by numeric feed id with optional SOCKS5 proxy

package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	proxy "github.com/cloudfoundry/socks5-proxy"
	"github.com/tidwall/gjson"

	"github.com/skolesnik/shinshop/backend/models"
)

// feedTimeout bounds a catalog feed fetch.
const feedTimeout = 30 * time.Second

// BackOfficeClient fetches product feeds from the back-office system.
// Responses have the shape {member: [...], totalItems: N}.
type BackOfficeClient struct {
	baseURL string
	session *AuthSession
	client  *http.Client
}

// NewBackOfficeClient builds a client and its auth session. The
// BACKOFFICE_ALL_PROXY environment variable routes all back-office traffic
// (including login) through an SSH+SOCKS5 proxy.
func NewBackOfficeClient(baseURL, login, password string) *BackOfficeClient {
	baseURL = strings.TrimRight(baseURL, "/")
	transport := &http.Transport{
		TLSHandshakeTimeout: 30 * time.Second,
	}

	if allProxy := os.Getenv("BACKOFFICE_ALL_PROXY"); allProxy != "" {
		dialContextFunc := createSOCKS5DialContextFunc(allProxy)
		if dialContextFunc != nil {
			transport.DialContext = dialContextFunc
		}
	}

	return &BackOfficeClient{
		baseURL: baseURL,
		session: NewAuthSession(baseURL, login, password, &http.Client{
			Timeout:   loginTimeout,
			Transport: transport,
		}),
		client: &http.Client{
			Timeout:   feedTimeout,
			Transport: transport,
		},
	}
}

// Session exposes the auth session for pipeline error handling and tests.
func (c *BackOfficeClient) Session() *AuthSession {
	return c.session
}

// SetHTTPClient allows overriding the HTTP client (useful for testing)
func (c *BackOfficeClient) SetHTTPClient(client *http.Client) {
	c.client = client
}

// FetchFeed returns the raw member records of a feed. An auth failure is
// surfaced as models.ErrAuthUnavailable; every other failure maps to
// models.ErrUpstreamUnavailable or models.ErrEmptyResult so the caller can
// fall back to synthetic data.
func (c *BackOfficeClient) FetchFeed(ctx context.Context, feedID int) ([]gjson.Result, error) {
	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, err
	}

	feedURL := c.baseURL + "/api/feeds/" + strconv.Itoa(feedID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Back-office feed fetch failed", "feed_id", feedID, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: feed %d returned status %d", models.ErrUpstreamUnavailable, feedID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	member := gjson.GetBytes(body, "member")
	if !member.IsArray() {
		return nil, fmt.Errorf("%w: feed %d body has no member array", models.ErrUpstreamUnavailable, feedID)
	}

	records := member.Array()
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: feed %d", models.ErrEmptyResult, feedID)
	}

	slog.Debug("Back-office feed fetched", "feed_id", feedID, "items", len(records))
	return records, nil
}

// createSOCKS5DialContextFunc creates a dial function for SSH+SOCKS5 proxy connections.
// Supports format: ssh+socks5://user@host:port?private-key=/path/to/key
func createSOCKS5DialContextFunc(allProxy string) func(ctx context.Context, network, address string) (net.Conn, error) {
	// Strip ssh+ prefix if present
	allProxy = strings.TrimPrefix(allProxy, "ssh+")

	proxyURL, err := url.Parse(allProxy)
	if err != nil {
		slog.Error("Failed to parse BACKOFFICE_ALL_PROXY URL", "error", err)
		return nil
	}

	queryMap, err := url.ParseQuery(proxyURL.RawQuery)
	if err != nil {
		slog.Error("Failed to parse BACKOFFICE_ALL_PROXY query params", "error", err)
		return nil
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	proxySSHKeyPath := queryMap.Get("private-key")
	if proxySSHKeyPath == "" {
		slog.Error("BACKOFFICE_ALL_PROXY missing required 'private-key' query param")
		return nil
	}

	proxySSHKey, err := os.ReadFile(proxySSHKeyPath)
	if err != nil {
		slog.Error("Failed to read SSH private key", "path", proxySSHKeyPath, "error", err)
		return nil
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.RWMutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.RLock()
		haveDialer := dialer != nil
		mut.RUnlock()

		if haveDialer {
			return dialer(network, address)
		}

		mut.Lock()
		defer mut.Unlock()
		if dialer == nil {
			proxyDialer, err := socks5Proxy.Dialer(username, string(proxySSHKey), proxyURL.Host)
			if err != nil {
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = proxyDialer
		}
		return dialer(network, address)
	}
}
