package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ghiemer/qr-redirector/internal/models"
)

// Visit is one resolved redirect handed off for tracking and audit logging.
// The raw client values only live inside the worker; everything persisted is
// a digest.
type Visit struct {
	Alias     string
	Target    string
	IP        string
	UserAgent string
	Referer   string
	Time      time.Time
}

// TrackWorker runs tracking and audit logging off the request path. The
// redirect response is never held up by it; a full queue drops the visit and
// failures are logged, not surfaced.
type TrackWorker struct {
	tracker *ClickTracker
	audit   *AuditLogger
	logger  *slog.Logger
	queue   chan Visit
}

func NewTrackWorker(tracker *ClickTracker, audit *AuditLogger, logger *slog.Logger) *TrackWorker {
	return &TrackWorker{
		tracker: tracker,
		audit:   audit,
		logger:  logger,
		queue:   make(chan Visit, 1000),
	}
}

func (w *TrackWorker) Start(ctx context.Context) {
	w.logger.Info("Tracking worker starting")
	for {
		select {
		case visit := <-w.queue:
			w.Process(visit)
		case <-ctx.Done():
			w.logger.Info("Tracking worker stopping")
			return
		}
	}
}

// Enqueue hands a visit to the worker without blocking the caller.
func (w *TrackWorker) Enqueue(visit Visit) {
	select {
	case w.queue <- visit:
		// Sent
	default:
		w.logger.Warn("Tracking queue full, dropping visit", "alias", visit.Alias)
	}
}

// ProcessPending drains the queue synchronously. Intended for tests and
// shutdown paths where no worker goroutine is running.
func (w *TrackWorker) ProcessPending() {
	for {
		select {
		case visit := <-w.queue:
			w.Process(visit)
		default:
			return
		}
	}
}

// Process records the click (subject to dedup) and appends the audit entry.
// Exported so tests can drive it synchronously.
func (w *TrackWorker) Process(visit Visit) {
	result := w.tracker.Track(visit.Alias, visit.IP, visit.UserAgent, visit.Referer, visit.Time)
	if result.Err != nil {
		w.logger.Error("Click tracking failed", "alias", visit.Alias, "error", result.Err)
	}

	entry := models.AuditLogEntry{
		Timestamp:     visit.Time,
		Alias:         visit.Alias,
		Target:        visit.Target,
		IPHash:        HashIP(visit.IP),
		UserAgentHash: HashHeader(visit.UserAgent),
		RefererHash:   HashHeader(visit.Referer),
		Fingerprint:   Fingerprint(visit.IP, visit.UserAgent),
		ClickTracked:  result.Tracked,
		UniqueVisit:   result.Unique,
	}
	if _, err := w.audit.Append(entry); err != nil {
		w.logger.Error("Audit log append failed", "alias", visit.Alias, "error", err)
	}
}
