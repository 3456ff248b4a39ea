package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestTokenBucket_AllowUntilExhausted(t *testing.T) {
	// Near-zero refill rate so the burst is the effective budget.
	b := newTokenBucket(0.0001, 3)

	for i := 0; i < 3; i++ {
		if !b.allow() {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if b.allow() {
		t.Error("request beyond burst should be rejected")
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	b := newTokenBucket(100, 1)
	if !b.allow() {
		t.Fatal("first request should be allowed")
	}
	if b.allow() {
		t.Fatal("bucket should be empty")
	}

	// Simulate elapsed time instead of sleeping.
	b.mu.Lock()
	b.lastRefill = b.lastRefill.Add(-100 * time.Millisecond) // 100ms at 100 rps refills 10 tokens
	b.mu.Unlock()

	if !b.allow() {
		t.Error("bucket should refill after elapsed time")
	}
}

func TestRateLimit_SetsHeadersAndRejects(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.0001, BurstSize: 1})
	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")

	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}
	if rec.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("allowed responses should carry X-RateLimit-Limit")
	}

	rec = httptest.NewRecorder()
	err := h(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("rejected responses should carry Retry-After")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Error("rejected responses should report zero remaining")
	}
}

func TestRateLimit_SeparateBucketsPerClient(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.0001, BurstSize: 1})
	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	call := func(ip string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", ip)
		return h(e.NewContext(req, httptest.NewRecorder()))
	}

	if err := call("10.0.0.1"); err != nil {
		t.Fatalf("first client should pass: %v", err)
	}
	if err := call("10.0.0.1"); err == nil {
		t.Fatal("first client should now be limited")
	}
	if err := call("10.0.0.2"); err != nil {
		t.Errorf("second client should have its own bucket: %v", err)
	}
}
