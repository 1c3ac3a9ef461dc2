package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ghiemer/qr-redirector/internal/models"
	"github.com/ghiemer/qr-redirector/internal/repository"
	"github.com/ghiemer/qr-redirector/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RouteDTO carries the admin-editable fields of a route. The alias is only
// honored on create; updates never touch it so printed QR codes stay valid.
type RouteDTO struct {
	Alias       string `json:"alias"`
	Target      string `json:"target"`
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	Active      bool   `json:"active"`
}

// RouteWithStats is the admin listing view.
type RouteWithStats struct {
	models.Route
	Stats models.ClickStats `json:"stats"`
}

// RouteService is the admin-facing CRUD surface over the store, plus the
// counter resets. It also invalidates the resolver's route cache.
type RouteService struct {
	store  repository.Store
	rdb    *redis.Client
	logger *slog.Logger
}

func NewRouteService(store repository.Store, rdb *redis.Client, logger *slog.Logger) *RouteService {
	return &RouteService{
		store:  store,
		rdb:    rdb,
		logger: logger,
	}
}

// List returns every route with its click stats. Stats failures degrade to
// zero values so one broken aggregate does not hide the whole listing.
func (s *RouteService) List() ([]RouteWithStats, error) {
	routes, err := s.store.ListRoutes()
	if err != nil {
		return nil, err
	}

	listed := make([]RouteWithStats, 0, len(routes))
	for _, route := range routes {
		stats, err := s.store.ClickStats(route.Alias)
		if err != nil {
			s.logger.Error("Failed to load click stats", "alias", route.Alias, "error", err)
			stats = models.ClickStats{}
		}
		listed = append(listed, RouteWithStats{Route: route, Stats: stats})
	}
	return listed, nil
}

func (s *RouteService) Create(dto RouteDTO) (*models.Route, error) {
	alias := strings.TrimSpace(dto.Alias)
	if alias == "" {
		// Generate until free; collisions on 6 random chars are rare.
		for {
			alias = utils.GenerateAlias(6)
			_, err := s.store.GetRouteByAlias(alias)
			if errors.Is(err, models.ErrRouteNotFound) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("alias lookup failed: %w", err)
			}
		}
	} else {
		_, err := s.store.GetRouteByAlias(alias)
		if err == nil {
			return nil, models.ErrAliasExists
		}
		if !errors.Is(err, models.ErrRouteNotFound) {
			return nil, fmt.Errorf("alias lookup failed: %w", err)
		}
	}

	now := time.Now()
	route := &models.Route{
		ID:          uuid.NewString(),
		Alias:       alias,
		Target:      dto.Target,
		UTMSource:   dto.UTMSource,
		UTMMedium:   dto.UTMMedium,
		UTMCampaign: dto.UTMCampaign,
		Active:      dto.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateRoute(route); err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}
	return route, nil
}

// Update changes target, UTM fields and the active flag. The alias field of
// the DTO is ignored.
func (s *RouteService) Update(id string, dto RouteDTO) (*models.Route, error) {
	route, err := s.store.GetRouteByID(id)
	if err != nil {
		return nil, err
	}

	route.Target = dto.Target
	route.UTMSource = dto.UTMSource
	route.UTMMedium = dto.UTMMedium
	route.UTMCampaign = dto.UTMCampaign
	route.Active = dto.Active
	route.UpdatedAt = time.Now()

	if err := s.store.UpdateRoute(route); err != nil {
		return nil, fmt.Errorf("failed to update route: %w", err)
	}

	s.invalidateCache(route.Alias)
	return route, nil
}

func (s *RouteService) Delete(id string) error {
	route, err := s.store.GetRouteByID(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRoute(id); err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}
	s.invalidateCache(route.Alias)
	return nil
}

func (s *RouteService) Get(id string) (*models.Route, error) {
	return s.store.GetRouteByID(id)
}

func (s *RouteService) Stats(alias string) (models.ClickStats, error) {
	return s.store.ClickStats(alias)
}

// ResetAllCounters drops every click record and zeroes the route counters.
func (s *RouteService) ResetAllCounters() error {
	return s.store.DeleteAllClicks()
}

// ResetCounter drops the click records of a single route.
func (s *RouteService) ResetCounter(alias string) error {
	if _, err := s.store.GetRouteByAlias(alias); err != nil {
		return err
	}
	return s.store.DeleteClicksForAlias(alias)
}

func (s *RouteService) invalidateCache(alias string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(context.Background(), routeCacheKeyPrefix+alias).Err(); err != nil {
		s.logger.Warn("Route cache invalidation failed", "alias", alias, "error", err)
	}
}
