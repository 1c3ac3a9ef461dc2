package models

import (
	"time"
)

// Route maps a public alias to a target URL. The alias is chosen once at
// creation time and never changes afterwards; printed QR codes depend on it.
type Route struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Alias       string    `gorm:"unique;not null;size:64;index" json:"alias"`
	Target      string    `gorm:"not null;type:text" json:"target"`
	UTMSource   string    `gorm:"column:utm_source;size:255" json:"utm_source,omitempty"`
	UTMMedium   string    `gorm:"column:utm_medium;size:255" json:"utm_medium,omitempty"`
	UTMCampaign string    `gorm:"column:utm_campaign;size:255" json:"utm_campaign,omitempty"`
	Active      bool      `gorm:"default:true;index" json:"active"`
	ClicksCount int       `gorm:"column:clicks;default:0" json:"clicks_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Clicks []ClickRecord `gorm:"foreignKey:Alias;references:Alias;constraint:OnDelete:CASCADE" json:"-"`
}

func (Route) TableName() string {
	return "routes"
}

// ClickStats is the aggregated view the admin panel shows per route.
type ClickStats struct {
	Total  int `json:"total"`
	Unique int `json:"unique"`
	Today  int `json:"today"`
}
