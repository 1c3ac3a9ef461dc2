package services

import (
	"testing"
	"time"

	"github.com/ghiemer/qr-redirector/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRouteService(t *testing.T) {
	t.Run("Create with explicit alias", func(t *testing.T) {
		store := newTestStore(t)
		service := NewRouteService(store, nil, testLogger())

		route, err := service.Create(RouteDTO{Alias: "promo", Target: "https://shop.example", Active: true})
		assert.NoError(t, err)
		assert.Equal(t, "promo", route.Alias)
		assert.NotEmpty(t, route.ID)
		assert.True(t, route.Active)
	})

	t.Run("Create generates alias when absent", func(t *testing.T) {
		store := newTestStore(t)
		service := NewRouteService(store, nil, testLogger())

		route, err := service.Create(RouteDTO{Target: "https://shop.example", Active: true})
		assert.NoError(t, err)
		assert.Len(t, route.Alias, 6)
	})

	t.Run("Create surfaces storage errors instead of treating the alias as free", func(t *testing.T) {
		service := NewRouteService(&failingStore{}, nil, testLogger())

		_, err := service.Create(RouteDTO{Alias: "promo", Target: "https://a.example"})
		assert.ErrorIs(t, err, errStoreDown)
		assert.NotErrorIs(t, err, models.ErrAliasExists)

		_, err = service.Create(RouteDTO{Target: "https://a.example"})
		assert.ErrorIs(t, err, errStoreDown)
	})

	t.Run("Duplicate alias rejected", func(t *testing.T) {
		store := newTestStore(t)
		service := NewRouteService(store, nil, testLogger())

		_, err := service.Create(RouteDTO{Alias: "promo", Target: "https://a.example"})
		assert.NoError(t, err)
		_, err = service.Create(RouteDTO{Alias: "promo", Target: "https://b.example"})
		assert.ErrorIs(t, err, models.ErrAliasExists)
	})

	t.Run("Update never changes the alias", func(t *testing.T) {
		store := newTestStore(t)
		service := NewRouteService(store, nil, testLogger())

		created, _ := service.Create(RouteDTO{Alias: "promo", Target: "https://a.example", Active: true})

		updated, err := service.Update(created.ID, RouteDTO{
			Alias:     "hijacked",
			Target:    "https://b.example",
			UTMSource: "flyer",
			Active:    false,
		})
		assert.NoError(t, err)
		assert.Equal(t, "promo", updated.Alias)
		assert.Equal(t, "https://b.example", updated.Target)
		assert.Equal(t, "flyer", updated.UTMSource)
		assert.False(t, updated.Active)
	})

	t.Run("Update of missing route", func(t *testing.T) {
		store := newTestStore(t)
		service := NewRouteService(store, nil, testLogger())

		_, err := service.Update("missing-id", RouteDTO{Target: "https://b.example"})
		assert.ErrorIs(t, err, models.ErrRouteNotFound)
	})

	t.Run("Delete removes route and its clicks", func(t *testing.T) {
		store := newTestStore(t)
		service := NewRouteService(store, nil, testLogger())

		created, _ := service.Create(RouteDTO{Alias: "promo", Target: "https://a.example", Active: true})
		store.InsertClick(&models.ClickRecord{ID: "c-1", Alias: "promo", Fingerprint: "fp", Timestamp: time.Now()})

		assert.NoError(t, service.Delete(created.ID))
		_, err := store.GetRouteByAlias("promo")
		assert.ErrorIs(t, err, models.ErrRouteNotFound)
		stats, _ := store.ClickStats("promo")
		assert.Equal(t, 0, stats.Total)
	})

	t.Run("List includes stats", func(t *testing.T) {
		store := newTestStore(t)
		service := NewRouteService(store, nil, testLogger())

		service.Create(RouteDTO{Alias: "promo", Target: "https://a.example", Active: true})
		store.InsertClick(&models.ClickRecord{ID: "c-2", Alias: "promo", Fingerprint: "fp", Timestamp: time.Now()})

		listed, err := service.List()
		assert.NoError(t, err)
		assert.Len(t, listed, 1)
		assert.Equal(t, 1, listed[0].Stats.Total)
	})

	t.Run("Counter resets", func(t *testing.T) {
		store := newTestStore(t)
		service := NewRouteService(store, nil, testLogger())

		service.Create(RouteDTO{Alias: "a", Target: "https://a.example", Active: true})
		service.Create(RouteDTO{Alias: "b", Target: "https://b.example", Active: true})
		store.InsertClick(&models.ClickRecord{ID: "c-3", Alias: "a", Fingerprint: "fp", Timestamp: time.Now()})
		store.InsertClick(&models.ClickRecord{ID: "c-4", Alias: "b", Fingerprint: "fp", Timestamp: time.Now()})

		assert.NoError(t, service.ResetCounter("a"))
		statsA, _ := store.ClickStats("a")
		statsB, _ := store.ClickStats("b")
		assert.Equal(t, 0, statsA.Total)
		assert.Equal(t, 1, statsB.Total)

		assert.NoError(t, service.ResetAllCounters())
		statsB, _ = store.ClickStats("b")
		assert.Equal(t, 0, statsB.Total)
	})

	t.Run("Reset counter for unknown alias", func(t *testing.T) {
		store := newTestStore(t)
		service := NewRouteService(store, nil, testLogger())
		assert.ErrorIs(t, service.ResetCounter("nope"), models.ErrRouteNotFound)
	})
}
