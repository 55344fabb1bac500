package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action is the kind of change recorded in the activity log.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionStatus Action = "status"
	ActionImport Action = "import"
	ActionExport Action = "export"
)

// Entity names used in activity entries and metrics labels.
const (
	EntityLoad   = "load"
	EntityDriver = "driver"
	EntityTruck  = "truck"
)

// DefaultActivityCapacity is how many entries the log keeps.
const DefaultActivityCapacity = 200

// ActivityEntry describes one applied change.
type ActivityEntry struct {
	ID           string    `json:"id"`
	Action       Action    `json:"action"`
	Entity       string    `json:"entity"`
	EntityID     int       `json:"entityId,omitempty"`
	RowsAffected int       `json:"rowsAffected,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	UserAgent    string    `json:"userAgent,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ActivityLog keeps the most recent changes in memory.
// When full, the oldest entry is overwritten.
type ActivityLog struct {
	mu      sync.Mutex
	entries []ActivityEntry
	next    int
	full    bool
}

// NewActivityLog creates a log holding at most capacity entries.
func NewActivityLog(capacity int) *ActivityLog {
	if capacity <= 0 {
		capacity = DefaultActivityCapacity
	}
	return &ActivityLog{entries: make([]ActivityEntry, capacity)}
}

// Record stores e, filling in ID, timestamp and request metadata from ctx.
func (a *ActivityLog) Record(ctx context.Context, e ActivityEntry) ActivityEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	info := RequestInfoFromContext(ctx)
	if e.IPAddress == "" {
		e.IPAddress = info.IPAddress
	}
	if e.UserAgent == "" {
		e.UserAgent = info.UserAgent
	}

	a.mu.Lock()
	a.entries[a.next] = e
	a.next = (a.next + 1) % len(a.entries)
	if a.next == 0 {
		a.full = true
	}
	a.mu.Unlock()

	return e
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (a *ActivityLog) Recent(limit int) []ActivityEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.next
	if a.full {
		n = len(a.entries)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]ActivityEntry, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (a.next - 1 - i + len(a.entries)) % len(a.entries)
		out = append(out, a.entries[idx])
	}
	return out
}
