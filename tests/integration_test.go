package main_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ghiemer/qr-redirector/internal/config"
	"github.com/ghiemer/qr-redirector/internal/handlers"
	"github.com/ghiemer/qr-redirector/internal/models"
	"github.com/ghiemer/qr-redirector/internal/repository"
	"github.com/ghiemer/qr-redirector/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stack struct {
	router *gin.Engine
	store  repository.Store
	worker *services.TrackWorker
	logDir string
}

func setupStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dir := t.TempDir()
	cfg := config.Config{
		PublicBaseURL:       "http://localhost:8080",
		StorageBackend:      "json",
		JSONDBPath:          filepath.Join(dir, "qr-data.json"),
		ClickCounterEnabled: true,
		LoggingEnabled:      true,
		LogRetentionDays:    30,
		LogDir:              filepath.Join(dir, "logs"),
		SessionSecret:       "integration-secret-0123456789012345",
		AdminEmail:          "admin@example.com",
		AdminPassword:       "admin",
	}

	store, err := repository.NewStore(cfg, logger)
	if err != nil {
		t.Fatalf("failed to initialize storage: %v", err)
	}

	tracker := services.NewClickTracker(store, logger, cfg.ClickCounterEnabled)
	audit := services.NewAuditLogger(cfg.LogDir, cfg.LoggingEnabled, cfg.LogRetentionDays, logger)
	worker := services.NewTrackWorker(tracker, audit, logger)
	resolver := services.NewResolver(store, nil, worker, logger)
	routeService := services.NewRouteService(store, nil, logger)

	h := handlers.NewHandler(cfg, logger, resolver, routeService, audit, services.NewQRService())
	return &stack{
		router: h.SetupRouter(nil),
		store:  store,
		worker: worker,
		logDir: cfg.LogDir,
	}
}

func adminLogin(t *testing.T, router *gin.Engine) []*http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "admin"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func TestRedirectPipeline(t *testing.T) {
	s := setupStack(t)
	cookies := adminLogin(t, s.router)

	// Admin creates the route.
	body, _ := json.Marshal(map[string]any{
		"alias":      "promo",
		"target":     "https://shop.example/item",
		"utm_source": "flyer",
		"active":     true,
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/routes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Visitor follows the alias.
	visit := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/promo", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")
		req.RemoteAddr = "203.0.113.5:1234"
		s.router.ServeHTTP(w, req)
		return w
	}

	first := visit()
	assert.Equal(t, http.StatusFound, first.Code)
	assert.Equal(t, "https://shop.example/item?utm_source=flyer", first.Header().Get("Location"))
	s.worker.ProcessPending()

	stats, _ := s.store.ClickStats("promo")
	assert.Equal(t, 1, stats.Total)

	// Same visitor one second later: redirected again, not recounted.
	second := visit()
	assert.Equal(t, http.StatusFound, second.Code)
	s.worker.ProcessPending()

	stats, _ = s.store.ClickStats("promo")
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Unique)

	// Both visits are in today's audit log, pseudonymized.
	logFile := filepath.Join(s.logDir, "redirects-"+time.Now().Format("2006-01-02")+".log")
	content, err := os.ReadFile(logFile)
	assert.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(content), []byte("\n"))
	assert.Len(t, lines, 2)

	var firstEntry, secondEntry models.AuditLogEntry
	assert.NoError(t, json.Unmarshal(lines[0], &firstEntry))
	assert.NoError(t, json.Unmarshal(lines[1], &secondEntry))
	assert.True(t, firstEntry.ClickTracked)
	assert.True(t, firstEntry.UniqueVisit)
	assert.False(t, secondEntry.ClickTracked)
	assert.Equal(t, firstEntry.Fingerprint, secondEntry.Fingerprint)
	assert.NotContains(t, string(content), "203.0.113.5")
	assert.NotContains(t, string(content), "TestAgent/1.0")

	// Route counter reflects the single unique visit.
	route, err := s.store.GetRouteByAlias("promo")
	assert.NoError(t, err)
	assert.Equal(t, 1, route.ClicksCount)
}

func TestDeactivatedRouteStopsRedirecting(t *testing.T) {
	s := setupStack(t)
	cookies := adminLogin(t, s.router)

	body, _ := json.Marshal(map[string]any{"alias": "promo", "target": "https://shop.example", "active": true})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/routes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created models.Route
	json.Unmarshal(w.Body.Bytes(), &created)

	// Deactivate via the admin API.
	body, _ = json.Marshal(map[string]any{"alias": "promo", "target": "https://shop.example", "active": false})
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PUT", "/api/v1/routes/"+created.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/promo", nil)
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
