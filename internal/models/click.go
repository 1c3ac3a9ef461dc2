package models

import (
	"time"
)

// ClickRecord is one counted visit. It only ever holds salted digests of the
// client data; raw IP, user agent and referer are never persisted.
type ClickRecord struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Alias         string    `gorm:"not null;size:64;index:idx_clicks_alias_fp,priority:1" json:"alias"`
	Fingerprint   string    `gorm:"not null;size:16;index:idx_clicks_alias_fp,priority:2" json:"fingerprint"`
	IPHash        string    `gorm:"column:ip_hash;size:12" json:"ip_hash"`
	UserAgentHash string    `gorm:"column:user_agent_hash;size:8" json:"user_agent_hash"`
	RefererHash   string    `gorm:"column:referer_hash;size:8" json:"referer_hash,omitempty"`
	Timestamp     time.Time `gorm:"index" json:"timestamp"`
}

func (ClickRecord) TableName() string {
	return "clicks"
}
