package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"authform/internal/domain"
)

// FormRegistry hands out one AuthFormController per open form.
// The map is shared between requests; each controller still owns its own state.
// At most maxOpen forms are kept; a new form evicts the least recently used idle one.
type FormRegistry struct {
	mu       sync.Mutex
	provider domain.AuthProvider
	logger   *zap.Logger
	forms    map[uuid.UUID]*formEntry
	maxOpen  int
	now      func() time.Time
}

type formEntry struct {
	controller *AuthFormController
	lastUsed   time.Time
}

// NewFormRegistry creates an empty registry whose controllers call provider.
// maxOpen <= 0 disables the cap.
func NewFormRegistry(provider domain.AuthProvider, maxOpen int, logger *zap.Logger) *FormRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormRegistry{
		provider: provider,
		logger:   logger,
		forms:    make(map[uuid.UUID]*formEntry),
		maxOpen:  maxOpen,
		now:      time.Now,
	}
}

// Get returns the controller for the form id, creating it on first use
func (r *FormRegistry) Get(id uuid.UUID) *AuthFormController {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.forms[id]
	if !ok {
		if r.maxOpen > 0 && len(r.forms) >= r.maxOpen {
			r.evictOldestLocked()
		}
		entry = &formEntry{
			controller: NewAuthFormController(r.provider, r.logger.With(zap.String("form_id", id.String()))),
		}
		r.forms[id] = entry
	}
	entry.lastUsed = r.now()
	return entry.controller
}

// Lookup returns the controller for an existing form without creating one
func (r *FormRegistry) Lookup(id uuid.UUID) (*AuthFormController, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.forms[id]
	if !ok {
		return nil, false
	}
	return entry.controller, true
}

// evictOldestLocked drops the least recently used form with no call in flight.
// If every form is pending nothing is dropped.
func (r *FormRegistry) evictOldestLocked() {
	var (
		oldestID uuid.UUID
		oldest   *formEntry
	)
	for id, entry := range r.forms {
		if entry.controller.Pending() {
			continue
		}
		if oldest == nil || entry.lastUsed.Before(oldest.lastUsed) {
			oldestID, oldest = id, entry
		}
	}
	if oldest == nil {
		r.logger.Warn("form registry full and every form is pending", zap.Int("open", len(r.forms)))
		return
	}
	delete(r.forms, oldestID)
}

// Sweep drops forms idle for longer than idle. Forms with a call in flight are kept.
func (r *FormRegistry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, entry := range r.forms {
		if entry.lastUsed.Before(cutoff) && !entry.controller.Pending() {
			delete(r.forms, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of open forms
func (r *FormRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}
