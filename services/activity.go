package services

import (
	"log"
	"sync"

	"gorm.io/gorm"

	"gig-booking-server/models"
)

// ActivityRecorder persists activity log entries off the request path.
// Recording is best effort: a full queue drops the entry instead of
// blocking the caller, and write failures are logged and forgotten.
// A nil recorder is valid and records nothing, which keeps services
// usable in tests without wiring.
type ActivityRecorder struct {
	db       *gorm.DB
	entries  chan models.ActivityLog
	notify   func(entry models.ActivityLog)
	done     chan struct{}
	stopOnce sync.Once
}

func NewActivityRecorder(db *gorm.DB) *ActivityRecorder {
	r := &ActivityRecorder{
		db:      db,
		entries: make(chan models.ActivityLog, 256),
		done:    make(chan struct{}),
	}
	go r.writeLoop()
	return r
}

// SetNotifier installs a callback invoked for every recorded entry,
// used to push activity out over websockets. Must be called before the
// recorder is shared across goroutines.
func (r *ActivityRecorder) SetNotifier(fn func(entry models.ActivityLog)) {
	r.notify = fn
}

// Record queues an activity entry. Safe to call on a nil recorder.
func (r *ActivityRecorder) Record(userID uint, activityType, description string) {
	if r == nil {
		return
	}
	entry := models.ActivityLog{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
	}
	select {
	case r.entries <- entry:
	default:
		log.Printf("⚠️ Activity queue full, dropping entry: %s", activityType)
	}
}

// Stop drains pending entries and shuts the writer down
func (r *ActivityRecorder) Stop() {
	if r == nil {
		return
	}
	r.stopOnce.Do(func() {
		close(r.entries)
		<-r.done
	})
}

func (r *ActivityRecorder) writeLoop() {
	defer close(r.done)
	for entry := range r.entries {
		if err := r.db.Create(&entry).Error; err != nil {
			log.Printf("⚠️ Failed to record activity %s: %v", entry.ActivityType, err)
			continue
		}
		if r.notify != nil {
			r.notify(entry)
		}
	}
}

// RecentActivity returns the newest activity entries, optionally
// scoped to one user
func (r *ActivityRecorder) RecentActivity(userID *uint, limit int) ([]models.ActivityLog, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	q := r.db.Model(&models.ActivityLog{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var entries []models.ActivityLog
	if err := q.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, persistenceError(err)
	}
	return entries, nil
}
