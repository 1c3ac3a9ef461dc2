package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ghiemer/qr-redirector/internal/models"
)

const (
	logFilePrefix        = "redirects-"
	logFileSuffix        = ".log"
	logDateLayout        = "2006-01-02"
	DefaultRetentionDays = 30
)

// AuditLogger appends one pseudonymized JSON line per resolved redirect to a
// per-day log file and sweeps files past the retention period.
type AuditLogger struct {
	dir           string
	enabled       bool
	retentionDays int
	logger        *slog.Logger

	mu sync.Mutex
}

func NewAuditLogger(dir string, enabled bool, retentionDays int, logger *slog.Logger) *AuditLogger {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &AuditLogger{
		dir:           dir,
		enabled:       enabled,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Append writes one entry to the file for the entry's calendar date,
// creating the log directory on first use. Returns whether the entry was
// logged; false with a nil error means logging is disabled.
func (a *AuditLogger) Append(entry models.AuditLogEntry) (bool, error) {
	if !a.enabled {
		return false, nil
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("failed to encode audit entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := logFilePrefix + entry.Timestamp.Format(logDateLayout) + logFileSuffix
	f, err := os.OpenFile(filepath.Join(a.dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return false, fmt.Errorf("failed to append audit entry: %w", err)
	}

	return true, nil
}

// Cleanup removes log files whose date, parsed from the file name, is older
// than retentionDays. A missing log directory means nothing to clean.
func (a *AuditLogger) Cleanup(retentionDays int) error {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}

	entries, err := os.ReadDir(a.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileSuffix) {
			continue
		}

		dateStr := strings.TrimSuffix(strings.TrimPrefix(name, logFilePrefix), logFileSuffix)
		fileDate, err := time.Parse(logDateLayout, dateStr)
		if err != nil {
			a.logger.Warn("Skipping log file with unparsable date", "file", name)
			continue
		}

		if fileDate.Before(cutoff) {
			if err := os.Remove(filepath.Join(a.dir, name)); err != nil {
				a.logger.Error("Failed to delete old log file", "file", name, "error", err)
				continue
			}
			a.logger.Info("Deleted old log file", "file", name)
		}
	}

	return nil
}

// StartJanitor runs the retention sweep once at startup and then daily until
// the context is cancelled.
func (a *AuditLogger) StartJanitor(ctx context.Context) {
	if err := a.Cleanup(a.retentionDays); err != nil {
		a.logger.Error("Log cleanup failed", "error", err)
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := a.Cleanup(a.retentionDays); err != nil {
				a.logger.Error("Log cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
