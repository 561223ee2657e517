// ABOUTME: Back-office auth session with cached bearer token and expiry margin
// ABOUTME: Collapses concurrent logins with singleflight; clock injectable for tests

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/skolesnik/shinshop/backend/models"
)

// tokenTTL is how long a freshly obtained token is trusted. The back-office
// issues tokens for 60 minutes; the 10 minute margin guarantees a request
// never starts with a token that expires mid-flight.
const tokenTTL = 50 * time.Minute

// loginTimeout bounds the login call; it is a light endpoint.
const loginTimeout = 8 * time.Second

type authToken struct {
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func (t authToken) valid(now time.Time) bool {
	return t.accessToken != "" && now.Before(t.expiresAt)
}

// AuthSession holds the single process-wide back-office token. Tokens are
// refreshed lazily on use; two concurrent refreshes are collapsed into one
// login call, and a stale overwrite is harmless (both tokens are valid).
type AuthSession struct {
	loginURL string
	login    string
	password string
	client   *http.Client
	now      func() time.Time

	mu    sync.RWMutex
	token authToken

	group singleflight.Group

	// optional login outcome hook, see SetMetrics
	recordLogin func(success bool)
}

// NewAuthSession creates a session against {baseURL}/api/auth/login.
// A nil client gets a default with the login timeout.
func NewAuthSession(baseURL, login, password string, client *http.Client) *AuthSession {
	if client == nil {
		client = &http.Client{Timeout: loginTimeout}
	}
	return &AuthSession{
		loginURL: strings.TrimRight(baseURL, "/") + "/api/auth/login",
		login:    login,
		password: password,
		client:   client,
		now:      time.Now,
	}
}

// SetClock overrides the session clock (useful for testing expiry).
func (s *AuthSession) SetClock(now func() time.Time) {
	s.now = now
}

// SetMetrics installs a hook called with the outcome of every login.
func (s *AuthSession) SetMetrics(recordLogin func(success bool)) {
	s.recordLogin = recordLogin
}

// Token returns a valid bearer token, performing a login only when the
// cached one is missing or past its safety margin. Failures are reported
// as models.ErrAuthUnavailable and nothing is cached.
func (s *AuthSession) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token.valid(s.now()) {
		return token.accessToken, nil
	}

	result, err, _ := s.group.Do("login", func() (any, error) {
		// Another caller may have refreshed while we waited for the flight.
		s.mu.RLock()
		token := s.token
		s.mu.RUnlock()
		if token.valid(s.now()) {
			return token.accessToken, nil
		}

		fresh, err := s.authenticate(ctx)
		if s.recordLogin != nil {
			s.recordLogin(err == nil)
		}
		if err != nil {
			return "", err
		}

		s.mu.Lock()
		s.token = fresh
		s.mu.Unlock()

		return fresh.accessToken, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// Invalidate drops the cached token so the next Token call logs in again.
func (s *AuthSession) Invalidate() {
	s.mu.Lock()
	s.token = authToken{}
	s.mu.Unlock()
}

func (s *AuthSession) authenticate(ctx context.Context) (authToken, error) {
	payload, err := json.Marshal(map[string]string{
		"login":    s.login,
		"password": s.password,
	})
	if err != nil {
		return authToken{}, fmt.Errorf("%w: %v", models.ErrAuthUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.loginURL, bytes.NewReader(payload))
	if err != nil {
		return authToken{}, fmt.Errorf("%w: %v", models.ErrAuthUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return authToken{}, fmt.Errorf("%w: %v", models.ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("Back-office login failed", "status", resp.StatusCode, "body", string(body))
		return authToken{}, fmt.Errorf("%w: login returned status %d", models.ErrAuthUnavailable, resp.StatusCode)
	}

	var tokenResp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return authToken{}, fmt.Errorf("%w: %v", models.ErrAuthUnavailable, err)
	}
	if tokenResp.Token == "" {
		return authToken{}, fmt.Errorf("%w: login returned empty token", models.ErrAuthUnavailable)
	}

	slog.Debug("Back-office login succeeded")

	return authToken{
		accessToken:  tokenResp.Token,
		refreshToken: tokenResp.RefreshToken,
		expiresAt:    s.now().Add(tokenTTL),
	}, nil
}
