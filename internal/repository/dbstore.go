package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/ghiemer/qr-redirector/internal/models"

	"gorm.io/gorm"
)

// DBStore is the relational backend, GORM over sqlite or postgres.
// Concurrency control is left to the database engine; each statement is
// atomic, multi-statement sequences are not wrapped in transactions.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) GetRouteByID(id string) (*models.Route, error) {
	var route models.Route
	err := s.db.Where("id = ?", id).First(&route).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("route lookup failed: %w", err)
	}
	return &route, nil
}

func (s *DBStore) GetRouteByAlias(alias string) (*models.Route, error) {
	var route models.Route
	err := s.db.Where("alias = ?", alias).First(&route).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("route lookup failed: %w", err)
	}
	return &route, nil
}

func (s *DBStore) GetActiveRouteByAlias(alias string) (*models.Route, error) {
	var route models.Route
	err := s.db.Where("alias = ? AND active = ?", alias, true).First(&route).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("route lookup failed: %w", err)
	}
	return &route, nil
}

func (s *DBStore) ListRoutes() ([]models.Route, error) {
	var routes []models.Route
	if err := s.db.Order("created_at").Find(&routes).Error; err != nil {
		return nil, fmt.Errorf("route listing failed: %w", err)
	}
	return routes, nil
}

func (s *DBStore) CreateRoute(route *models.Route) error {
	if err := s.db.Create(route).Error; err != nil {
		return fmt.Errorf("route create failed: %w", err)
	}
	return nil
}

func (s *DBStore) UpdateRoute(route *models.Route) error {
	if err := s.db.Save(route).Error; err != nil {
		return fmt.Errorf("route update failed: %w", err)
	}
	return nil
}

func (s *DBStore) DeleteRoute(id string) error {
	route, err := s.GetRouteByID(id)
	if err != nil {
		return err
	}
	// Clicks are removed explicitly so the cascade does not depend on
	// foreign key enforcement being enabled (sqlite has it off by default).
	if err := s.DeleteClicksForAlias(route.Alias); err != nil {
		return err
	}
	if err := s.db.Delete(&models.Route{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("route delete failed: %w", err)
	}
	return nil
}

func (s *DBStore) FindRecentClick(alias, fingerprint string, since time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.ClickRecord{}).
		Where("alias = ? AND fingerprint = ? AND timestamp > ?", alias, fingerprint, since).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("recent click lookup failed: %w", err)
	}
	return count > 0, nil
}

func (s *DBStore) InsertClick(click *models.ClickRecord) error {
	if err := s.db.Create(click).Error; err != nil {
		return fmt.Errorf("click insert failed: %w", err)
	}
	return nil
}

func (s *DBStore) DeleteAllClicks() error {
	if err := s.db.Where("1 = 1").Delete(&models.ClickRecord{}).Error; err != nil {
		return fmt.Errorf("click reset failed: %w", err)
	}
	if err := s.db.Model(&models.Route{}).Where("1 = 1").UpdateColumn("clicks", 0).Error; err != nil {
		return fmt.Errorf("counter reset failed: %w", err)
	}
	return nil
}

func (s *DBStore) DeleteClicksForAlias(alias string) error {
	if err := s.db.Where("alias = ?", alias).Delete(&models.ClickRecord{}).Error; err != nil {
		return fmt.Errorf("click reset failed: %w", err)
	}
	if err := s.db.Model(&models.Route{}).Where("alias = ?", alias).UpdateColumn("clicks", 0).Error; err != nil {
		return fmt.Errorf("counter reset failed: %w", err)
	}
	return nil
}

func (s *DBStore) IncrementRouteClicks(alias string) error {
	err := s.db.Model(&models.Route{}).
		Where("alias = ?", alias).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("counter increment failed: %w", err)
	}
	return nil
}

func (s *DBStore) ClickStats(alias string) (models.ClickStats, error) {
	var stats models.ClickStats

	var total int64
	if err := s.db.Model(&models.ClickRecord{}).Where("alias = ?", alias).Count(&total).Error; err != nil {
		return stats, fmt.Errorf("click stats failed: %w", err)
	}

	var unique int64
	err := s.db.Model(&models.ClickRecord{}).
		Where("alias = ?", alias).
		Distinct("fingerprint").
		Count(&unique).Error
	if err != nil {
		return stats, fmt.Errorf("click stats failed: %w", err)
	}

	var today int64
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err = s.db.Model(&models.ClickRecord{}).
		Where("alias = ? AND timestamp >= ?", alias, midnight).
		Count(&today).Error
	if err != nil {
		return stats, fmt.Errorf("click stats failed: %w", err)
	}

	stats.Total = int(total)
	stats.Unique = int(unique)
	stats.Today = int(today)
	return stats, nil
}
