package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/simonkvalheim/bankist/internal/model"
)

type entry struct {
	state    State
	lastSeen time.Time
}

// Manager keeps the State of every client session and expires sessions that
// have been idle for longer than the configured timeout.
type Manager struct {
	mu         sync.Mutex
	controller *Controller
	sessions   map[uuid.UUID]*entry
	idle       time.Duration
	now        func() time.Time
	cron       *cron.Cron
}

// NewManager creates a new Manager. An idle timeout <= 0 disables expiry.
func NewManager(controller *Controller, idle time.Duration) *Manager {
	return &Manager{
		controller: controller,
		sessions:   make(map[uuid.UUID]*entry),
		idle:       idle,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for idle tracking
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Login starts a new session for a successful login
func (m *Manager) Login(ctx context.Context, username, pin string) (uuid.UUID, *model.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, view, err := m.controller.Login(ctx, State{}, username, pin)
	if err != nil {
		return uuid.Nil, nil, err
	}

	id := uuid.New()
	m.sessions[id] = &entry{state: state, lastSeen: m.now()}
	return id, view, nil
}

// View returns the current view of a session
func (m *Manager) View(id uuid.UUID) (*model.View, error) {
	return m.apply(id, func(s State) (State, *model.View, error) {
		view, err := m.controller.View(s)
		return s, view, err
	})
}

// Transfer runs a transfer for a session
func (m *Manager) Transfer(ctx context.Context, id uuid.UUID, req model.TransferRequest) (*model.View, error) {
	return m.apply(id, func(s State) (State, *model.View, error) {
		return m.controller.Transfer(ctx, s, req)
	})
}

// RequestLoan runs a loan request for a session
func (m *Manager) RequestLoan(ctx context.Context, id uuid.UUID, req model.LoanRequest) (*model.View, error) {
	return m.apply(id, func(s State) (State, *model.View, error) {
		return m.controller.RequestLoan(ctx, s, req)
	})
}

// ToggleSort flips the sort flag of a session
func (m *Manager) ToggleSort(ctx context.Context, id uuid.UUID) (*model.View, error) {
	return m.apply(id, func(s State) (State, *model.View, error) {
		return m.controller.ToggleSort(ctx, s)
	})
}

// Close deletes the session's account and ends the session
func (m *Manager) Close(ctx context.Context, id uuid.UUID, req model.CloseRequest) error {
	_, err := m.apply(id, func(s State) (State, *model.View, error) {
		next, err := m.controller.Close(ctx, s, req)
		return next, nil, err
	})
	return err
}

// Logout ends a session
func (m *Manager) Logout(ctx context.Context, id uuid.UUID) error {
	_, err := m.apply(id, func(s State) (State, *model.View, error) {
		return m.controller.Logout(ctx, s), nil, nil
	})
	return err
}

// apply runs fn against a live session and stores the state it returns.
// Sessions that end up logged out are dropped.
func (m *Manager) apply(id uuid.UUID, fn func(State) (State, *model.View, error)) (*model.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	now := m.now()
	if m.expired(e, now) {
		delete(m.sessions, id)
		return nil, model.ErrSessionExpired
	}
	e.lastSeen = now

	next, view, err := fn(e.state)
	if err != nil {
		// The account behind this session was closed elsewhere
		if errors.Is(err, model.ErrNotLoggedIn) {
			delete(m.sessions, id)
		}
		return nil, err
	}

	if !next.LoggedIn() {
		delete(m.sessions, id)
		return view, nil
	}
	e.state = next
	return view, nil
}

// State returns the stored state of a session without touching it
func (m *Manager) State(id uuid.UUID) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return State{}, model.ErrSessionNotFound
	}
	if m.expired(e, m.now()) {
		return State{}, model.ErrSessionExpired
	}
	return e.state, nil
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes every expired session and returns how many were removed
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Start runs Sweep on a cron schedule such as "@every 1m"
func (m *Manager) Start(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if n := m.Sweep(); n > 0 {
			log.Info().Int("expired", n).Msg("Swept idle sessions")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	m.cron = c
	c.Start()
	log.Info().Str("schedule", schedule).Dur("idle_timeout", m.idle).Msg("Session sweeper started")
	return nil
}

// Stop halts the sweeper and waits for a running sweep to finish
func (m *Manager) Stop() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
	log.Info().Msg("Session sweeper stopped")
}

func (m *Manager) expired(e *entry, now time.Time) bool {
	return m.idle > 0 && now.Sub(e.lastSeen) > m.idle
}
