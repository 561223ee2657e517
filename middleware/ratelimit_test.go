package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("client")
		if !allowed {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}

	allowed, retryAfter := rl.Allow("client")
	if allowed {
		t.Error("Fourth request should be denied")
	}
	if retryAfter <= 0 {
		t.Errorf("Expected positive retry-after, got %v", retryAfter)
	}
}

func TestRateLimiter_KeysIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if allowed, _ := rl.Allow("a"); !allowed {
		t.Fatal("First request for key a should pass")
	}
	if allowed, _ := rl.Allow("b"); !allowed {
		t.Error("Key b must have its own counter")
	}
	if allowed, _ := rl.Allow("a"); allowed {
		t.Error("Second request for key a should be denied")
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	rl.Allow("client")
	if allowed, _ := rl.Allow("client"); allowed {
		t.Fatal("Second request should be denied")
	}

	time.Sleep(15 * time.Millisecond)

	if allowed, _ := rl.Allow("client"); !allowed {
		t.Error("Request after window expiry should pass")
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := RateLimit(rl, ClientIP)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/tires", nil)
	req.RemoteAddr = "10.0.0.1:12345"

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("First request: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Second request: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header on 429")
	}
}

func TestRateLimit_NilLimiterDisabled(t *testing.T) {
	handler := RateLimit(nil, ClientIP)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Disabled limiter must pass everything, got %d", rec.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4321"

	if ip := ClientIP(req); ip != "ip:192.168.1.5" {
		t.Errorf("Expected ip:192.168.1.5, got %s", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")
	if ip := ClientIP(req); ip != "ip:203.0.113.9" {
		t.Errorf("Expected leftmost forwarded IP, got %s", ip)
	}

	req.Header.Set("X-Forwarded-For", "not-an-ip")
	if ip := ClientIP(req); ip != "ip:192.168.1.5" {
		t.Errorf("Garbage XFF must fall back to RemoteAddr, got %s", ip)
	}
}
