// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION ACCESS
// Every policy transition is a read-modify-write against one learner's state.
// Those sequences are not individually atomic, so all mutations for the same
// learner are serialized through a per-learner lock before touching the
// repository. The AI passthrough and other external calls never run inside
// this critical section.
// ══════════════════════════════════════════════════════════════════════════════

// ErrEmptyPrompt is returned when an AI prompt is blank.
var ErrEmptyPrompt = errors.New("prompt is required")

// AdsSwitch exposes the tenant-wide advertising override.
// It is distinct from the per-learner ads preference: effective visibility
// is preference AND NOT override.
type AdsSwitch interface {
	// AdsDisabledGlobally reports whether the tenant kill switch is on.
	AdsDisabledGlobally() bool

	// ToggleGlobal flips the kill switch and returns true when ads are
	// globally enabled after the flip.
	ToggleGlobal() bool
}

// LearnerLocks serializes mutations per learner.
type LearnerLocks struct {
	mu    sync.Mutex
	locks map[learner.TelegramID]*sync.Mutex
}

// NewLearnerLocks creates an empty lock registry.
func NewLearnerLocks() *LearnerLocks {
	return &LearnerLocks{locks: make(map[learner.TelegramID]*sync.Mutex)}
}

// Lock acquires the lock for a learner and returns the unlock function.
func (l *LearnerLocks) Lock(id learner.TelegramID) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Sessions loads, mutates and saves learner state under the per-learner lock.
type Sessions struct {
	repo  learner.Repository
	locks *LearnerLocks
}

// NewSessions creates a session accessor.
func NewSessions(repo learner.Repository, locks *LearnerLocks) *Sessions {
	if locks == nil {
		locks = NewLearnerLocks()
	}
	return &Sessions{repo: repo, locks: locks}
}

// Mutate applies fn to the learner's state as a single unit of work.
// Unknown learners are created with new-user defaults first. When fn
// returns an error the state is not saved.
func (s *Sessions) Mutate(ctx context.Context, id learner.TelegramID, fn func(e *learner.Entitlements) error) (*learner.Entitlements, error) {
	if !id.IsValid() {
		return nil, learner.ErrInvalidTelegramID
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	e, created, err := s.loadOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(e); err != nil {
		return nil, err
	}

	if created {
		if err := s.repo.Create(ctx, e); err != nil {
			return nil, fmt.Errorf("create learner state: %w", err)
		}
	} else {
		if err := s.repo.Update(ctx, e); err != nil {
			return nil, fmt.Errorf("update learner state: %w", err)
		}
	}

	return e, nil
}

// Load returns the learner's state, creating it on first contact so that
// read-only intents also see the new-user defaults.
func (s *Sessions) Load(ctx context.Context, id learner.TelegramID) (*learner.Entitlements, error) {
	if !id.IsValid() {
		return nil, learner.ErrInvalidTelegramID
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	e, created, err := s.loadOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.repo.Create(ctx, e); err != nil {
			return nil, fmt.Errorf("create learner state: %w", err)
		}
	}
	return e, nil
}

func (s *Sessions) loadOrCreate(ctx context.Context, id learner.TelegramID) (*learner.Entitlements, bool, error) {
	e, err := s.repo.GetByTelegramID(ctx, id)
	if err == nil {
		return e, false, nil
	}
	if !errors.Is(err, learner.ErrLearnerNotFound) {
		return nil, false, fmt.Errorf("load learner state: %w", err)
	}

	e, err = learner.NewEntitlements(uuid.New().String(), id)
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}
