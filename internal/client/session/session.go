// Package session holds the CLI's view of who is logged in and which pages
// they may act on. State changes only through Login and Logout and is
// mirrored to durable storage so it survives restarts.
package session

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/logging"
)

// State is the session shape. Empty page sets mean every page is allowed.
type State struct {
	IsLoggedIn    bool     `json:"isLoggedIn"`
	User          string   `json:"user"`
	Pages         []string `json:"pages"`
	LinkedInPages []string `json:"linkedinPages"`
}

func (s State) clone() State {
	s.Pages = cloneSet(s.Pages)
	s.LinkedInPages = cloneSet(s.LinkedInPages)
	return s
}

func anonymous() State {
	return State{Pages: []string{}, LinkedInPages: []string{}}
}

// Persister is durable storage for one State.
type Persister interface {
	// Load returns nil, nil when nothing is stored.
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s State) error
	Clear(ctx context.Context) error
}

// Store owns the current State.
type Store struct {
	persister Persister
	logger    logging.Logger

	mu          sync.RWMutex
	state       State
	subscribers []func(State)
}

// NewStore rehydrates from persister before returning. A missing,
// unreadable or malformed entry yields the anonymous state.
func NewStore(ctx context.Context, persister Persister, logger logging.Logger) *Store {
	s := &Store{persister: persister, logger: logger.With("module", "session"), state: anonymous()}

	saved, err := persister.Load(ctx)
	switch {
	case err != nil:
		s.logger.Warn(ctx, "ignoring stored session", "error", err)
	case saved != nil && saved.IsLoggedIn && saved.User != "":
		s.state = saved.clone()
	}

	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLoggedIn
}

// IsAdmin reports whether the administrator is logged in.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLoggedIn && s.state.User == common.AdminUsername
}

// Subscribe registers fn to be called with the new state after every
// transition.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Login replaces the state wholesale and saves it.
func (s *Store) Login(ctx context.Context, user string, pages, linkedInPages []string) {
	next := State{
		IsLoggedIn:    true,
		User:          user,
		Pages:         cloneSet(pages),
		LinkedInPages: cloneSet(linkedInPages),
	}

	if err := s.persister.Save(ctx, next); err != nil {
		s.logger.Error(ctx, "error saving session", "error", err)
	}
	s.transition(next)
}

// Logout returns to the anonymous state and removes the stored entry.
func (s *Store) Logout(ctx context.Context) {
	if err := s.persister.Clear(ctx); err != nil {
		s.logger.Error(ctx, "error clearing session", "error", err)
	}
	s.transition(anonymous())
}

func (s *Store) transition(next State) {
	s.mu.Lock()
	s.state = next
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.clone())
	}
}

func cloneSet(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return slices.Clone(ids)
}
