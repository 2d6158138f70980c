package httpapi

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/tbourn/farmwise-backend/docs"
	"github.com/tbourn/farmwise-backend/internal/config"
	"github.com/tbourn/farmwise-backend/internal/http/middleware"
	"github.com/tbourn/farmwise-backend/internal/repo"
)

// newSQLStore opens a named in-memory database (pure-Go sqlite, no CGO).
func newSQLStore(t *testing.T, name string) repo.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	st := repo.NewSQLStore(db)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api",
		RateRPS:        100,
		RateBurst:      50,
		IdempotencyTTL: time.Hour,
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
		Weather:        config.WeatherConfig{CacheTTL: time.Minute},
	}
}

func newRouter(t *testing.T, st repo.Store, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{Store: st}, cfg)
	return r
}

func send(r *gin.Engine, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginFarmer(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := send(r, http.MethodPost, "/api/farmers/login", map[string]any{
		"phone": "9876543210", "name": "Ravi", "state": "Maharashtra", "district": "Pune",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("login = %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Farmer struct {
			ID string `json:"id"`
		} `json:"farmer"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Farmer.ID == "" {
		t.Fatalf("login body: %v %s", err, w.Body.String())
	}
	return resp.Farmer.ID
}

func cropBody(farmerID string) map[string]any {
	return map[string]any{
		"farmerId": farmerID,
		"soilData": map[string]any{
			"N": 80, "P": 48, "K": 40, "ph": 6.2, "temperature": 24, "humidity": 82, "rainfall": 200,
		},
	}
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r := newRouter(t, newSQLStore(t, "router_health"), testConfig())

	w := send(r, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("GET /health = %d %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected request id and security headers: %v", w.Header())
	}

	w = send(r, http.MethodGet, "/metrics", nil, map[string]string{"Accept-Encoding": "gzip"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "farmwise_http_requests_total") {
		t.Fatalf("GET /metrics bad: code=%d", w.Code)
	}

	w = send(r, http.MethodGet, "/nope", nil, nil)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), `"code":"not_found"`) {
		t.Fatalf("GET /nope = %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPost, "/health", nil, nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}

	if w := send(r, http.MethodGet, "/swagger/index.html", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger should be off by default, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	cfg := testConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	r := newRouter(t, newSQLStore(t, "router_cors"), cfg)

	w := send(r, http.MethodGet, "/health", nil, map[string]string{"Origin": "http://example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}

	w = send(r, http.MethodGet, "/health", nil, map[string]string{"Origin": "http://evil.test"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "http://evil.test" || got == "*" {
		t.Fatalf("origin outside allowlist echoed: %q", got)
	}
}

func TestRegisterRoutes_EndToEnd_SQLStore(t *testing.T) {
	r := newRouter(t, newSQLStore(t, "router_e2e"), testConfig())
	id := loginFarmer(t, r)

	w := send(r, http.MethodPost, "/api/predict/crop", cropBody(id), nil)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"confidence":`) {
		t.Fatalf("crop = %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPost, "/api/predict/yield", map[string]any{
		"farmerId":  id,
		"yieldData": map[string]any{"crop": "rice", "season": "Kharif", "area": 2, "year": 2024},
	}, nil)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"predicted_production":9.9`) {
		t.Fatalf("yield = %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodGet, "/api/farmers/"+id+"/predictions", nil, nil)
	if w.Code != http.StatusOK || w.Header().Get("ETag") == "" {
		t.Fatalf("history = %d %v", w.Code, w.Header())
	}
	if !strings.Contains(w.Body.String(), `"crops":[{`) || !strings.Contains(w.Body.String(), `"yields":[{`) {
		t.Fatalf("history body: %s", w.Body.String())
	}

	w = send(r, http.MethodGet, "/api/soil/pune", nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"found":false`) {
		t.Fatalf("soil = %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodGet, "/api/weather?lat=18.52&lon=73.86", nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"source":"default"`) {
		t.Fatalf("weather = %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_IdempotentReplayBypassesRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateRPS = 0.001
	cfg.RateBurst = 3
	r := newRouter(t, newSQLStore(t, "router_idem"), cfg)

	// login takes the first token from the client's bucket
	id := loginFarmer(t, r)
	hdr := func(key string) map[string]string {
		return map[string]string{middleware.HeaderFarmerID: id, middleware.HeaderIdempotencyKey: key}
	}

	if w := send(r, http.MethodPost, "/api/predict/crop", cropBody(id), hdr("k-1")); w.Code != http.StatusCreated {
		t.Fatalf("first = %d %s", w.Code, w.Body.String())
	}
	if w := send(r, http.MethodPost, "/api/predict/crop", cropBody(id), hdr("k-2")); w.Code != http.StatusCreated {
		t.Fatalf("second = %d %s", w.Code, w.Body.String())
	}

	w := send(r, http.MethodPost, "/api/predict/crop", cropBody(id), hdr("k-3"))
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "1" {
		t.Fatalf("third should be limited, got %d", w.Code)
	}

	w = send(r, http.MethodPost, "/api/predict/crop", cropBody(id), hdr("k-1"))
	if w.Code != http.StatusOK || w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("replay should bypass the limiter: %d %v", w.Code, w.Header())
	}

	if w := send(r, http.MethodPost, "/api/predict/crop", cropBody(id), hdr("bad key!")); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid key = %d", w.Code)
	}
}

func TestRegisterRoutes_GzipAndBasePath(t *testing.T) {
	cfg := testConfig()
	cfg.APIBasePath = "/api/v1"
	st, err := repo.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	r := newRouter(t, st, cfg)

	if w := send(r, http.MethodGet, "/api/catalog/states", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("old base path should 404, got %d", w.Code)
	}

	w := send(r, http.MethodGet, "/api/v1/catalog/states", nil, map[string]string{"Accept-Encoding": "gzip"})
	if w.Code != http.StatusOK || w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, got %d %v", w.Code, w.Header())
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, _ := io.ReadAll(zr)
	if !strings.Contains(string(body), "Maharashtra") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRegisterRoutes_BodyLimit(t *testing.T) {
	r := newRouter(t, newSQLStore(t, "router_body"), testConfig())

	big := map[string]any{
		"phone": "9876543210", "name": strings.Repeat("a", MaxBodyBytes), "state": "Goa", "district": "Panaji",
	}
	w := send(r, http.MethodPost, "/api/farmers/login", big, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized body = %d", w.Code)
	}
}

func TestRegisterRoutes_Swagger(t *testing.T) {
	cfg := testConfig()
	cfg.SwaggerEnabled = true
	r := newRouter(t, newSQLStore(t, "router_swagger"), cfg)

	w := send(r, http.MethodGet, "/swagger/doc.json", nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/predict/crop") {
		t.Fatalf("doc.json = %d %s", w.Code, w.Body.String())
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		w := send(r, http.MethodGet, path, nil, nil)
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, w.Code, w.Body.String())
		}
	}
}
