package authflowrepo

import (
	"errors"
	"sync"
	"time"
)

const DefaultTTL = 10 * time.Minute

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	states map[string]*AuthFlowState
}

// NewInMemoryRepo creates a repository whose states expire after ttl.
func NewInMemoryRepo(ttl time.Duration) *InMemoryRepo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InMemoryRepo{
		ttl:    ttl,
		now:    time.Now,
		states: make(map[string]*AuthFlowState),
	}
}

// Upsert stores or updates an auth flow state and drops expired ones.
func (r *InMemoryRepo) Upsert(state string, authState *AuthFlowState) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if authState == nil {
		return errors.New("authState cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, v := range r.states {
		if r.expired(v, now) {
			delete(r.states, k)
		}
	}

	stored := *authState
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	r.states[state] = &stored
	return nil
}

func (r *InMemoryRepo) Take(state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, ErrStateNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	authState, exists := r.states[state]
	if !exists {
		return nil, ErrStateNotFound
	}
	delete(r.states, state)
	if r.expired(authState, r.now()) {
		return nil, ErrStateExpired
	}

	found := *authState
	return &found, nil
}

func (r *InMemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *InMemoryRepo) expired(s *AuthFlowState, now time.Time) bool {
	return now.Sub(s.CreatedAt) > r.ttl
}
