// Package notify tracks the transient notifications shown to the user.
//
// A notification is keyed by its kind and title. While one is active,
// showing another with the same key is a no-op, so a burst of identical
// failures produces a single message. The key is released when the
// notification is dismissed or its display duration elapses.
package notify

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes success from error notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Default display durations.
const (
	DefaultSuccessDuration = 3 * time.Second
	DefaultErrorDuration   = 4 * time.Second
	DefaultLongDuration    = 6 * time.Second
)

// Durations configures how long notifications stay visible.
type Durations struct {
	Success time.Duration
	Error   time.Duration
	Long    time.Duration
}

// DefaultDurations returns the standard display durations.
func DefaultDurations() Durations {
	return Durations{
		Success: DefaultSuccessDuration,
		Error:   DefaultErrorDuration,
		Long:    DefaultLongDuration,
	}
}

// Options customize a single notification.
type Options struct {
	Description string
	// Duration overrides the kind's default when positive.
	Duration time.Duration
	// Long selects the long duration (ignored if Duration is set).
	Long bool
}

// Notification is an active message.
type Notification struct {
	ID          string        `json:"id"`
	Kind        Kind          `json:"kind"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Key returns the de-duplication key of n.
func (n Notification) Key() string {
	return Key(n.Kind, n.Title)
}

// Key builds the de-duplication key for a kind and title.
func Key(kind Kind, title string) string {
	return string(kind) + "-" + title
}

type entry struct {
	n     Notification
	timer *time.Timer
}

// Registry owns the set of active notifications.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	byKey     map[string]*entry
	byID      map[string]string // id -> key
	durations Durations
}

// NewRegistry creates an empty registry. Zero durations fall back to defaults.
func NewRegistry(d Durations) *Registry {
	def := DefaultDurations()
	if d.Success <= 0 {
		d.Success = def.Success
	}
	if d.Error <= 0 {
		d.Error = def.Error
	}
	if d.Long <= 0 {
		d.Long = def.Long
	}
	return &Registry{
		byKey:     make(map[string]*entry),
		byID:      make(map[string]string),
		durations: d,
	}
}

// Success shows a success notification.
// Returns false if an identical one is already active.
func (r *Registry) Success(title string, opts Options) (Notification, bool) {
	return r.show(KindSuccess, title, opts)
}

// Error shows an error notification.
// Returns false if an identical one is already active.
func (r *Registry) Error(title string, opts Options) (Notification, bool) {
	return r.show(KindError, title, opts)
}

func (r *Registry) show(kind Kind, title string, opts Options) (Notification, bool) {
	key := Key(kind, title)

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byKey[key]; ok {
		slog.Debug("notification suppressed", "key", key, "active_id", e.n.ID)
		return e.n, false
	}

	n := Notification{
		ID:          uuid.New().String(),
		Kind:        kind,
		Title:       title,
		Description: opts.Description,
		Duration:    r.durationFor(kind, opts),
		CreatedAt:   time.Now(),
	}

	id := n.ID
	r.byKey[key] = &entry{
		n:     n,
		timer: time.AfterFunc(n.Duration, func() { r.expire(id) }),
	}
	r.byID[id] = key
	return n, true
}

func (r *Registry) durationFor(kind Kind, opts Options) time.Duration {
	switch {
	case opts.Duration > 0:
		return opts.Duration
	case opts.Long:
		return r.durations.Long
	case kind == KindError:
		return r.durations.Error
	default:
		return r.durations.Success
	}
}

// Dismiss removes the notification with the given id.
// Returns false if it was not active.
func (r *Registry) Dismiss(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(id, true)
}

// DismissAll removes every active notification and returns how many there were.
func (r *Registry) DismissAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.byID)
	for id := range r.byID {
		r.removeLocked(id, true)
	}
	return n
}

func (r *Registry) expire(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id, false)
}

func (r *Registry) removeLocked(id string, stopTimer bool) bool {
	key, ok := r.byID[id]
	if !ok {
		return false
	}
	if e := r.byKey[key]; e != nil && stopTimer {
		e.timer.Stop()
	}
	delete(r.byID, id)
	delete(r.byKey, key)
	return true
}

// Active returns the live notifications, oldest first.
func (r *Registry) Active() []Notification {
	r.mu.Lock()
	out := make([]Notification, 0, len(r.byKey))
	for _, e := range r.byKey {
		out = append(out, e.n)
	}
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of active notifications.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}
