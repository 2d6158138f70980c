package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestKeyByClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	if key := KeyByClientIP()(c); key != "ip:203.0.113.9" {
		t.Fatalf("expected ip-based key; got %q", key)
	}

	req.Header.Set(HeaderFarmerID, "f123")
	if key := KeyByClientIP()(c); key != "ip:203.0.113.9" {
		t.Fatalf("farmer header must not change the key; got %q", key)
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(2, 0, nil)
	if rl.burst != 1 {
		t.Fatalf("burst coercion failed, got %d", rl.burst)
	}
	if rl.keyFn == nil {
		t.Fatalf("nil keyFn should default")
	}
	lim := rl.getVisitor("k1")
	if rl.getVisitor("k1") != lim {
		t.Fatalf("expected the same limiter instance to be reused")
	}
}

func TestRateLimiter_GetVisitorSweepsIdle(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	rl.ttl = time.Millisecond

	old := rl.getVisitor("stale")
	rl.visitors["stale"].lastSeen = time.Now().Add(-time.Hour)
	rl.cleanupN = 4999

	if rl.getVisitor("stale") == old {
		t.Fatalf("stale visitor should have been swept and recreated")
	}
	if rl.cleanupN != 0 {
		t.Fatalf("cleanup counter not reset: %d", rl.cleanupN)
	}
}

func newLimitedRouter(rl *RateLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(pre...)
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRateLimiter_Handler_Blocks(t *testing.T) {
	r := newLimitedRouter(NewRateLimiter(0.0001, 1, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("first request: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" {
		t.Fatalf("missing Retry-After")
	}
	m := decode(t, w)
	if m["success"] != false || m["code"] != "too_many_requests" || m["error"] != "rate limit exceeded" {
		t.Fatalf("unexpected envelope %v", m)
	}
}

func TestRateLimiter_Handler_RotatingFarmerIDSharesBucket(t *testing.T) {
	r := newLimitedRouter(NewRateLimiter(0.0001, 1, nil))

	codes := make([]int, 0, 2)
	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderFarmerID, id)
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected one bucket per IP, got %v", codes)
	}
}

func TestRateLimiter_Handler_SeparateBucketsPerIP(t *testing.T) {
	r := newLimitedRouter(NewRateLimiter(0.0001, 1, nil))

	for _, ip := range []string{"198.51.100.1", "198.51.100.2"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = net.JoinHostPort(ip, "4000")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("%s first request: %d", ip, w.Code)
		}
	}
}

func TestRateLimiter_Handler_BypassOnReplay(t *testing.T) {
	bypass := func(c *gin.Context) { c.Set(ctxKeyRateBypass, true); c.Next() }
	r := newLimitedRouter(NewRateLimiter(0.0001, 1, nil), bypass)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("replay %d limited: %d", i, w.Code)
		}
	}
}
