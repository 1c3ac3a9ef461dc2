package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogin(t *testing.T) {
	t.Run("Valid credentials open a session", func(t *testing.T) {
		env := setupTestEnv(t)
		cookies := login(t, env.router)
		assert.NotEmpty(t, cookies)

		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, authedRequest("GET", "/api/v1/routes", nil, cookies))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Wrong password rejected", func(t *testing.T) {
		env := setupTestEnv(t)
		body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "nope"})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Wrong email rejected", func(t *testing.T) {
		env := setupTestEnv(t)
		body, _ := json.Marshal(map[string]string{"email": "intruder@example.com", "password": "admin"})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Missing body rejected", func(t *testing.T) {
		env := setupTestEnv(t)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/login", nil)
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	t.Run("Admin API requires a session", func(t *testing.T) {
		env := setupTestEnv(t)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/routes", nil)
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Logout invalidates the session", func(t *testing.T) {
		env := setupTestEnv(t)
		cookies := login(t, env.router)

		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, authedRequest("POST", "/api/logout", nil, cookies))
		assert.Equal(t, http.StatusOK, w.Code)

		// The cleared cookie replaces the authenticated one.
		loggedOut := w.Result().Cookies()
		w = httptest.NewRecorder()
		env.router.ServeHTTP(w, authedRequest("GET", "/api/v1/routes", nil, loggedOut))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Redirects stay public", func(t *testing.T) {
		env := setupTestEnv(t)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whatever", nil)
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code, "no session needed, only the alias was unknown")
	})
}
