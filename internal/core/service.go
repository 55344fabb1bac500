package core

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNotFound is returned when an id does not match any record.
	ErrNotFound = errors.New("record not found")

	// ErrMutationFailed is returned when a change panicked and was not applied.
	ErrMutationFailed = errors.New("mutation failed")
)

// Observer receives a callback after each applied change.
// Implementations must be safe for concurrent use.
type Observer interface {
	MutationApplied(entity string, action Action)
	ImportFinished(result string, imported, skipped int)
	ExportFinished(rows int)
}

// Import outcomes reported to Observer.ImportFinished.
const (
	ImportOK       = "ok"
	ImportRejected = "rejected"
	ImportFailed   = "failed"
)

type nopObserver struct{}

func (nopObserver) MutationApplied(string, Action) {}
func (nopObserver) ImportFinished(string, int, int) {}
func (nopObserver) ExportFinished(int) {}

// Service is the single writer of the entity collections.
//
// Every mutation validates its input first, so invalid data never reaches
// the store. Views and counters are recomputed from current state on each
// call and never cached.
type Service struct {
	store    *Store
	activity *ActivityLog
	limiter  *ImportLimiter
	observer Observer
}

// Option configures a Service.
type Option func(*Service)

// WithObserver registers o for change notifications.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithImportLimiter replaces the default import limiter.
func WithImportLimiter(l *ImportLimiter) Option {
	return func(s *Service) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithActivityLog replaces the default activity log.
func WithActivityLog(a *ActivityLog) Option {
	return func(s *Service) {
		if a != nil {
			s.activity = a
		}
	}
}

// NewService creates a Service with empty collections.
func NewService(opts ...Option) *Service {
	s := &Service{
		store:    NewStore(),
		activity: NewActivityLog(DefaultActivityCapacity),
		limiter:  NewImportLimiter(DefaultMaxConcurrentImports, DefaultImportWait),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportLimiter returns the limiter guarding ImportLoads.
func (s *Service) ImportLimiter() *ImportLimiter {
	return s.limiter
}

// Activity returns up to limit recent changes, newest first.
func (s *Service) Activity(limit int) []ActivityEntry {
	return s.activity.Recent(limit)
}

// guard runs fn and converts a panic into ErrMutationFailed.
// Collection methods release their lock on panic, so the store stays usable.
func guard(entity string, action Action, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in mutation",
				"entity", entity,
				"action", action,
				"panic", r,
			)
			err = fmt.Errorf("%s %s: %w", action, entity, ErrMutationFailed)
		}
	}()
	fn()
	return nil
}
