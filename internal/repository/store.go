package repository

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ghiemer/qr-redirector/internal/config"
	"github.com/ghiemer/qr-redirector/internal/models"
)

// Store is the capability set both storage backends expose. The core
// pipeline only ever talks to this interface; the backend is picked once at
// startup by NewStore.
type Store interface {
	// Routes
	GetRouteByID(id string) (*models.Route, error)
	GetRouteByAlias(alias string) (*models.Route, error)
	GetActiveRouteByAlias(alias string) (*models.Route, error)
	ListRoutes() ([]models.Route, error)
	CreateRoute(route *models.Route) error
	UpdateRoute(route *models.Route) error
	DeleteRoute(id string) error

	// Clicks
	FindRecentClick(alias, fingerprint string, since time.Time) (bool, error)
	InsertClick(click *models.ClickRecord) error
	DeleteAllClicks() error
	DeleteClicksForAlias(alias string) error
	IncrementRouteClicks(alias string) error
	ClickStats(alias string) (models.ClickStats, error)
}

// NewStore selects and initializes the configured backend. Any failure here
// is fatal to the caller; the process must not serve traffic against a
// broken store.
func NewStore(cfg config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case "json":
		return NewJSONStore(cfg.JSONDBPath, logger)
	case "database":
		db, err := InitDB(cfg)
		if err != nil {
			return nil, err
		}
		return NewDBStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}
