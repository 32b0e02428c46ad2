package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// SessionLogRepository manages estimate session log persistence
type SessionLogRepository interface {
	// Log writes a log entry with deduplication
	Log(ctx context.Context, sessionID, message, level string, metadata map[string]interface{}) error

	// GetLogs retrieves the newest logs of a session with optional filtering
	GetLogs(ctx context.Context, sessionID string, limit int, level *string, since *time.Time) ([]SessionLogEntry, error)
}

// SessionLogEntry represents a log entry
type SessionLogEntry struct {
	ID        int
	SessionID string
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormSessionLogRepository is a GORM-based implementation
type GormSessionLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache   map[string]time.Time // key: sessionID|message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormSessionLogRepository creates a new session log repository.
// If clock is nil, uses RealClock.
func NewGormSessionLogRepository(db *gorm.DB, clock shared.Clock) *GormSessionLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSessionLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Log writes a log entry, skipping repeats of the same message for the same
// session within the deduplication window
func (r *GormSessionLogRepository) Log(ctx context.Context, sessionID, message, level string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	cacheKey := sessionID + "|" + message

	r.dedupMu.Lock()
	if lastLogged, exists := r.dedupCache[cacheKey]; exists && now.Sub(lastLogged) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	var metadataJSON string
	if len(metadata) > 0 {
		// metadata is optional; unencodable values are dropped
		if data, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(data)
		}
	}

	if level == "" {
		level = "INFO"
	}
	entry := &SessionLogModel{
		SessionID: sessionID,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// cleanupDedupCache removes entries older than the window.
// Must be called while holding dedupMu.
func (r *GormSessionLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves logs for a session, newest first
func (r *GormSessionLogRepository) GetLogs(ctx context.Context, sessionID string, limit int, level *string, since *time.Time) ([]SessionLogEntry, error) {
	var models []SessionLogModel

	query := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}
	query = query.Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]SessionLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = SessionLogEntry{
			ID:        model.ID,
			SessionID: model.SessionID,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}
	return entries, nil
}

// SessionLogger adapts the repository to common.Logger for one session.
// Write failures are dropped; the session keeps working without its audit trail.
type SessionLogger struct {
	repo      SessionLogRepository
	sessionID string
}

func NewSessionLogger(repo SessionLogRepository, sessionID string) *SessionLogger {
	return &SessionLogger{repo: repo, sessionID: sessionID}
}

func (l *SessionLogger) Log(level, message string, metadata map[string]interface{}) {
	if l.repo == nil {
		return
	}
	_ = l.repo.Log(context.Background(), l.sessionID, message, level, metadata)
}
