package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/ports"
)

// SessionService issues, validates, revokes and garbage-collects sessions.
//
// Identity is encoded in a signed stateless token, but the store kept by
// this service stays authoritative: a request is authorized only when the
// token checks out AND the referenced session still exists unexpired
// server-side. Skipping the store check would make logout and forced
// invalidation ineffective.
type SessionService struct {
	store     ports.SessionStore
	tokenizer ports.Tokenizer
	events    ports.EventPublisher

	sessionTTL time.Duration
	nowTime    func() time.Time
}

// SessionServiceOption modifies a SessionService instance.
type SessionServiceOption func(*SessionService)

// WithNowTime sets the clock function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) SessionServiceOption {
	return func(s *SessionService) {
		s.nowTime = nowFunc
	}
}

// NewSessionService creates a new session service.
func NewSessionService(
	store ports.SessionStore,
	tokenizer ports.Tokenizer,
	events ports.EventPublisher,
	sessionTTL time.Duration,
	options ...SessionServiceOption,
) *SessionService {
	s := &SessionService{
		store:      store,
		tokenizer:  tokenizer,
		events:     events,
		sessionTTL: sessionTTL,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Issue mints a new session for the wallet and signs a bearer token for
// it. The wallet is lowercase-normalized; the session is immutable once
// stored.
func (s *SessionService) Issue(ctx context.Context, wallet string, role core.Role) (string, core.Session, error) {
	now := s.nowTime()
	session := core.Session{
		ID:        uuid.New().String(),
		Wallet:    core.NormalizeWallet(wallet),
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		return "", core.Session{}, err
	}

	if err := s.store.Put(ctx, session); err != nil {
		return "", core.Session{}, err
	}

	if err := s.events.PublishLogin(ctx, session.Wallet, session.ID); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to publish login event")
	}

	return token, session, nil
}

// Verify cryptographically validates the token and returns its claims.
// This is a pure check on the token; callers must also consult IsValid
// before authorizing a request.
func (s *SessionService) Verify(token string) (core.SessionClaims, error) {
	return s.tokenizer.TokenToClaims(token)
}

// IsValid consults the authoritative store. An expired record is deleted
// as a side effect of this check (lazy eviction), so a false result for a
// lapsed session also removes it.
func (s *SessionService) IsValid(ctx context.Context, sessionID string) bool {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return false
	}

	if session.Expired(s.nowTime()) {
		if _, err := s.store.Delete(ctx, sessionID); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to evict expired session")
		}
		return false
	}

	return true
}

// Session returns the stored session record or core.ErrNotFound.
func (s *SessionService) Session(ctx context.Context, sessionID string) (core.Session, error) {
	return s.store.Get(ctx, sessionID)
}

// Invalidate deletes the session record if present. Idempotent: repeat
// calls report false without error.
func (s *SessionService) Invalidate(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if err == core.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	removed, err := s.store.Delete(ctx, sessionID)
	if err != nil {
		return false, err
	}

	if removed {
		if err := s.events.PublishLogout(ctx, session.Wallet, sessionID); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to publish logout event")
		}
	}

	return removed, nil
}

// InvalidateAllForWallet deletes every session belonging to the wallet
// and returns the count removed. This is the force-logout-everywhere
// primitive.
func (s *SessionService) InvalidateAllForWallet(ctx context.Context, wallet string) (int, error) {
	wallet = core.NormalizeWallet(wallet)
	removed, err := s.store.DeleteByWallet(ctx, wallet)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		if err := s.events.PublishWalletInvalidated(ctx, wallet, removed); err != nil {
			log.Warn().Err(err).Str("wallet", wallet).Msg("failed to publish invalidation event")
		}
	}

	return removed, nil
}

// CleanupExpired bulk-evicts sessions whose expiry has passed at call
// time. Cleanup is best effort: store errors are logged and reported as
// zero removals.
func (s *SessionService) CleanupExpired(ctx context.Context) int {
	sessions, err := s.store.All(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("session cleanup: listing store failed")
		return 0
	}

	now := s.nowTime()
	removed := 0
	for _, session := range sessions {
		if !session.Expired(now) {
			continue
		}
		ok, err := s.store.Delete(ctx, session.ID)
		if err != nil {
			log.Warn().Err(err).Str("session_id", session.ID).Msg("session cleanup: delete failed")
			continue
		}
		// A concurrent logout may have removed it first; count only
		// deletions this sweep performed.
		if ok {
			removed++
		}
	}

	return removed
}

// Stats returns a read-only diagnostic snapshot of the session store.
func (s *SessionService) Stats(ctx context.Context) (core.SessionStats, error) {
	sessions, err := s.store.All(ctx)
	if err != nil {
		return core.SessionStats{}, err
	}

	now := s.nowTime()
	stats := core.SessionStats{ByRole: make(map[core.Role]int)}
	for _, session := range sessions {
		stats.Total++
		if session.Expired(now) {
			stats.Expired++
			continue
		}
		stats.Active++
		stats.ByRole[session.Role]++
	}
	return stats, nil
}

// ActiveSessions returns the unexpired sessions bound to a wallet.
func (s *SessionService) ActiveSessions(ctx context.Context, wallet string) ([]core.Session, error) {
	sessions, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	wallet = core.NormalizeWallet(wallet)
	now := s.nowTime()
	var active []core.Session
	for _, session := range sessions {
		if session.Wallet == wallet && !session.Expired(now) {
			active = append(active, session)
		}
	}
	return active, nil
}

// StartJanitor runs CleanupExpired on the given cadence until ctx is
// cancelled. The returned channel closes once the janitor goroutine has
// fully stopped.
func (s *SessionService) StartJanitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.CleanupExpired(ctx); removed > 0 {
					log.Info().Int("removed", removed).Msg("session janitor swept expired sessions")
				}
			}
		}
	}()

	return done
}
