package store

import (
	"context"
	"strings"
	"sync"

	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/ports"
)

// MemorySessionStore is an in-memory implementation of the SessionStore
// interface. Suitable for single-process deployments and tests.
type MemorySessionStore struct {
	sessions map[string]core.Session
	mu       sync.RWMutex
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]core.Session)}
}

func (s *MemorySessionStore) Put(ctx context.Context, session core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return core.Session{}, core.ErrNotFound
	}
	return session, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok, nil
}

func (s *MemorySessionStore) DeleteByWallet(ctx context.Context, wallet string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet = core.NormalizeWallet(wallet)
	removed := 0
	for id, session := range s.sessions {
		if session.Wallet == wallet {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemorySessionStore) All(ctx context.Context) ([]core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]core.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// MemoryChallengeStore is an in-memory implementation of the
// ChallengeStore interface.
type MemoryChallengeStore struct {
	challenges map[string]core.ValueChallenge
	mu         sync.RWMutex
}

// NewMemoryChallengeStore creates a new in-memory challenge store.
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{challenges: make(map[string]core.ValueChallenge)}
}

func (s *MemoryChallengeStore) Put(ctx context.Context, challenge core.ValueChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges[challenge.ID] = challenge
	return nil
}

func (s *MemoryChallengeStore) Get(ctx context.Context, challengeID string) (core.ValueChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	challenge, ok := s.challenges[challengeID]
	if !ok {
		return core.ValueChallenge{}, core.ErrNotFound
	}
	return challenge, nil
}

// MemoryCredentialStore is an in-memory implementation of the
// CredentialStore interface, seeded at boot from configuration.
type MemoryCredentialStore struct {
	admins []core.AdminCredential
	mu     sync.RWMutex
}

// NewMemoryCredentialStore creates a new in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (s *MemoryCredentialStore) SeedAdmin(ctx context.Context, admin core.AdminCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin.Wallet = core.NormalizeWallet(admin.Wallet)
	s.admins = append(s.admins, admin)
	return nil
}

func (s *MemoryCredentialStore) FindAdminByEmail(ctx context.Context, email string) (core.AdminCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, admin := range s.admins {
		if strings.EqualFold(admin.Email, email) {
			return admin, nil
		}
	}
	return core.AdminCredential{}, core.ErrNotFound
}

func (s *MemoryCredentialStore) FindAdminByWallet(ctx context.Context, wallet string) (core.AdminCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallet = core.NormalizeWallet(wallet)
	for _, admin := range s.admins {
		if admin.Wallet == wallet {
			return admin, nil
		}
	}
	return core.AdminCredential{}, core.ErrNotFound
}

// MemoryActivityStore retains the most recent entries up to a fixed cap;
// older entries are dropped FIFO.
type MemoryActivityStore struct {
	activities []core.Activity
	cap        int
	mu         sync.RWMutex
}

// NewMemoryActivityStore creates an activity store that retains at most
// cap entries.
func NewMemoryActivityStore(cap int) *MemoryActivityStore {
	return &MemoryActivityStore{cap: cap}
}

func (s *MemoryActivityStore) Append(ctx context.Context, activity core.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities = append(s.activities, activity)
	if len(s.activities) > s.cap {
		s.activities = s.activities[len(s.activities)-s.cap:]
	}
	return nil
}

func (s *MemoryActivityStore) Recent(ctx context.Context, limit int) ([]core.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.activities) {
		limit = len(s.activities)
	}

	// Entries are appended oldest-first; reads are newest-first.
	out := make([]core.Activity, 0, limit)
	for i := len(s.activities) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.activities[i])
	}
	return out, nil
}

var (
	_ ports.SessionStore    = (*MemorySessionStore)(nil)
	_ ports.ChallengeStore  = (*MemoryChallengeStore)(nil)
	_ ports.CredentialStore = (*MemoryCredentialStore)(nil)
	_ ports.ActivityStore   = (*MemoryActivityStore)(nil)
)
