package models

import (
	"time"
)

// AuditLogEntry is one line in the per-day redirect log. Written once on a
// resolved redirect, never updated, removed only by the retention sweep.
type AuditLogEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Alias         string    `json:"alias"`
	Target        string    `json:"target"`
	IPHash        string    `json:"ip_hash"`
	UserAgentHash string    `json:"user_agent_hash"`
	RefererHash   string    `json:"referer_hash,omitempty"`
	Fingerprint   string    `json:"fingerprint"`
	ClickTracked  bool      `json:"click_tracked"`
	UniqueVisit   bool      `json:"unique_visit"`
}
