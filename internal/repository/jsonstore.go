package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ghiemer/qr-redirector/internal/models"
)

// jsonDocument is the single on-disk document of the embedded backend.
type jsonDocument struct {
	Routes []models.Route      `json:"routes"`
	Clicks []models.ClickRecord `json:"clicks"`
}

// JSONStore is the embedded document backend: everything lives in one
// in-memory document mirrored to a JSON file on every mutation. The file is
// loaded once at startup and fully rewritten on each save. A failed save is
// logged but does not roll back the in-memory state; disk can drift from
// memory on a crash, which is an accepted trade-off for this backend.
type JSONStore struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	data jsonDocument
}

func NewJSONStore(path string, logger *slog.Logger) (*JSONStore, error) {
	s := &JSONStore{path: path, logger: logger}

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("failed to initialize data file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read data file: %w", err)
	default:
		if err := json.Unmarshal(content, &s.data); err != nil {
			return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
		}
	}

	return s, nil
}

// save rewrites the whole document. Callers must hold s.mu.
func (s *JSONStore) save() error {
	content, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, content, 0o644)
}

// persist logs save failures instead of returning them; the in-memory state
// stays authoritative either way.
func (s *JSONStore) persist() {
	if err := s.save(); err != nil {
		s.logger.Error("Failed to persist data file", "path", s.path, "error", err)
	}
}

func (s *JSONStore) GetRouteByID(id string) (*models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Routes {
		if s.data.Routes[i].ID == id {
			route := s.data.Routes[i]
			return &route, nil
		}
	}
	return nil, models.ErrRouteNotFound
}

func (s *JSONStore) GetRouteByAlias(alias string) (*models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Routes {
		if s.data.Routes[i].Alias == alias {
			route := s.data.Routes[i]
			return &route, nil
		}
	}
	return nil, models.ErrRouteNotFound
}

func (s *JSONStore) GetActiveRouteByAlias(alias string) (*models.Route, error) {
	route, err := s.GetRouteByAlias(alias)
	if err != nil {
		return nil, err
	}
	if !route.Active {
		return nil, models.ErrRouteNotFound
	}
	return route, nil
}

func (s *JSONStore) ListRoutes() ([]models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	routes := make([]models.Route, len(s.data.Routes))
	copy(routes, s.data.Routes)
	return routes, nil
}

func (s *JSONStore) CreateRoute(route *models.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Routes {
		if s.data.Routes[i].Alias == route.Alias {
			return models.ErrAliasExists
		}
	}
	s.data.Routes = append(s.data.Routes, *route)
	s.persist()
	return nil
}

func (s *JSONStore) UpdateRoute(route *models.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Routes {
		if s.data.Routes[i].ID == route.ID {
			s.data.Routes[i] = *route
			s.persist()
			return nil
		}
	}
	return models.ErrRouteNotFound
}

func (s *JSONStore) DeleteRoute(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Routes {
		if s.data.Routes[i].ID == id {
			alias := s.data.Routes[i].Alias
			s.data.Routes = append(s.data.Routes[:i], s.data.Routes[i+1:]...)
			s.data.Clicks = clicksWithoutAlias(s.data.Clicks, alias)
			s.persist()
			return nil
		}
	}
	return models.ErrRouteNotFound
}

func (s *JSONStore) FindRecentClick(alias, fingerprint string, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Clicks {
		c := &s.data.Clicks[i]
		if c.Alias == alias && c.Fingerprint == fingerprint && c.Timestamp.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *JSONStore) InsertClick(click *models.ClickRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Clicks = append(s.data.Clicks, *click)
	s.persist()
	return nil
}

func (s *JSONStore) DeleteAllClicks() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Clicks = nil
	for i := range s.data.Routes {
		s.data.Routes[i].ClicksCount = 0
	}
	s.persist()
	return nil
}

func (s *JSONStore) DeleteClicksForAlias(alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Clicks = clicksWithoutAlias(s.data.Clicks, alias)
	for i := range s.data.Routes {
		if s.data.Routes[i].Alias == alias {
			s.data.Routes[i].ClicksCount = 0
		}
	}
	s.persist()
	return nil
}

func (s *JSONStore) IncrementRouteClicks(alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Routes {
		if s.data.Routes[i].Alias == alias {
			s.data.Routes[i].ClicksCount++
			s.persist()
			return nil
		}
	}
	return models.ErrRouteNotFound
}

func (s *JSONStore) ClickStats(alias string) (models.ClickStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats models.ClickStats
	fingerprints := make(map[string]struct{})
	today := time.Now().Format("2006-01-02")

	for i := range s.data.Clicks {
		c := &s.data.Clicks[i]
		if c.Alias != alias {
			continue
		}
		stats.Total++
		fingerprints[c.Fingerprint] = struct{}{}
		if c.Timestamp.Format("2006-01-02") == today {
			stats.Today++
		}
	}
	stats.Unique = len(fingerprints)
	return stats, nil
}

func clicksWithoutAlias(clicks []models.ClickRecord, alias string) []models.ClickRecord {
	kept := clicks[:0]
	for _, c := range clicks {
		if c.Alias != alias {
			kept = append(kept, c)
		}
	}
	return kept
}
