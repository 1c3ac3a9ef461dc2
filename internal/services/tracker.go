package services

import (
	"log/slog"
	"time"

	"github.com/ghiemer/qr-redirector/internal/models"
	"github.com/ghiemer/qr-redirector/internal/repository"

	"github.com/google/uuid"
)

// DedupWindow is the trailing interval during which repeat visits from the
// same fingerprint are not recounted.
const DedupWindow = 5 * time.Minute

// TrackResult reports what happened to a single visit. Err is operational
// detail only; tracking failures never propagate to the redirect outcome.
type TrackResult struct {
	Tracked bool
	Unique  bool
	Reason  string
	Err     error
}

// ClickTracker decides per (alias, fingerprint) whether a visit counts and
// persists the click record when it does.
type ClickTracker struct {
	store   repository.Store
	logger  *slog.Logger
	enabled bool
}

func NewClickTracker(store repository.Store, logger *slog.Logger, enabled bool) *ClickTracker {
	return &ClickTracker{
		store:   store,
		logger:  logger,
		enabled: enabled,
	}
}

// ShouldCount is false when the same fingerprint already produced a click
// for this alias within the dedup window.
func (t *ClickTracker) ShouldCount(alias, fingerprint string, now time.Time) (bool, error) {
	found, err := t.store.FindRecentClick(alias, fingerprint, now.Add(-DedupWindow))
	if err != nil {
		return false, err
	}
	return !found, nil
}

// Track runs the full dedup decision for one visit. The window check and
// the insert are two separate store calls on purpose: concurrent visits
// from the same fingerprint in the same instant can both count. Dedup here
// is best effort, not exactly-once.
func (t *ClickTracker) Track(alias, ip, userAgent, referer string, now time.Time) TrackResult {
	if !t.enabled {
		return TrackResult{Reason: "counter disabled"}
	}

	fingerprint := Fingerprint(ip, userAgent)

	countable, err := t.ShouldCount(alias, fingerprint, now)
	if err != nil {
		t.logger.Error("Click dedup check failed", "alias", alias, "error", err)
		return TrackResult{Reason: "storage error", Err: err}
	}
	if !countable {
		return TrackResult{Reason: "recent duplicate"}
	}

	click := models.ClickRecord{
		ID:            uuid.NewString(),
		Alias:         alias,
		Fingerprint:   fingerprint,
		IPHash:        HashIP(ip),
		UserAgentHash: HashHeader(userAgent),
		RefererHash:   HashHeader(referer),
		Timestamp:     now,
	}
	if err := t.store.InsertClick(&click); err != nil {
		t.logger.Error("Click insert failed", "alias", alias, "error", err)
		return TrackResult{Reason: "storage error", Err: err}
	}

	if err := t.store.IncrementRouteClicks(alias); err != nil {
		// The record exists, only the denormalized counter lagged.
		t.logger.Warn("Route counter increment failed", "alias", alias, "error", err)
	}

	return TrackResult{Tracked: true, Unique: true}
}
