package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghiemer/qr-redirector/internal/config"
	"github.com/ghiemer/qr-redirector/internal/repository"
	"github.com/ghiemer/qr-redirector/internal/services"

	"github.com/gin-gonic/gin"
)

type testEnv struct {
	handler *Handler
	router  *gin.Engine
	store   repository.Store
	worker  *services.TrackWorker
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{
		PublicBaseURL:       "http://localhost:8080",
		SessionSecret:       "test-secret-12345678901234567890123456789012",
		AdminEmail:          "admin@example.com",
		AdminPassword:       "admin",
		ClickCounterEnabled: true,
		LoggingEnabled:      false,
		LogRetentionDays:    30,
		LogDir:              filepath.Join(t.TempDir(), "logs"),
	}

	store, err := repository.NewJSONStore(filepath.Join(t.TempDir(), "qr-data.json"), logger)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	tracker := services.NewClickTracker(store, logger, cfg.ClickCounterEnabled)
	audit := services.NewAuditLogger(cfg.LogDir, cfg.LoggingEnabled, cfg.LogRetentionDays, logger)
	worker := services.NewTrackWorker(tracker, audit, logger)
	resolver := services.NewResolver(store, nil, worker, logger)
	routeService := services.NewRouteService(store, nil, logger)
	qrService := services.NewQRService()

	h := NewHandler(cfg, logger, resolver, routeService, audit, qrService)
	return &testEnv{
		handler: h,
		router:  h.SetupRouter(nil),
		store:   store,
		worker:  worker,
	}
}

// login performs the admin login and returns the session cookies for
// subsequent requests.
func login(t *testing.T, router *gin.Engine) []*http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "admin"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func authedRequest(method, path string, body []byte, cookies []*http.Cookie) *http.Request {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}
