package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pizajolo/nft-ticket-registration/adapters/events"
	"github.com/Pizajolo/nft-ticket-registration/adapters/store"
	"github.com/Pizajolo/nft-ticket-registration/adapters/tokenizer"
	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/ports"
	"github.com/Pizajolo/nft-ticket-registration/service"
)

const testWallet = "0x2C7536E3605D9C16a7a3D7b1898e529396a65c23"

// fakeClock is a settable clock for deterministic expiry tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTokenizer(t *testing.T) ports.Tokenizer {
	t.Helper()
	tk, err := tokenizer.NewJWTTokenizer([]byte("test-secret-test-secret-test-secret!"))
	require.NoError(t, err)
	return tk
}

func newSessionService(t *testing.T, clock *fakeClock, ttl time.Duration) *service.SessionService {
	t.Helper()
	return service.NewSessionService(
		store.NewMemorySessionStore(),
		newTestTokenizer(t),
		events.NopPublisher{},
		ttl,
		service.WithNowTime(clock.Now),
	)
}

func TestIssueThenIsValid(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	sessions := newSessionService(t, clock, time.Hour)

	token, session, err := sessions.Issue(ctx, testWallet, core.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23", session.Wallet)
	require.Equal(t, clock.Now().Add(time.Hour), session.ExpiresAt)

	require.True(t, sessions.IsValid(ctx, session.ID))
}

func TestInvalidateThenIsValid(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionService(t, newFakeClock(), time.Hour)

	_, session, err := sessions.Issue(ctx, testWallet, core.RoleUser)
	require.NoError(t, err)

	removed, err := sessions.Invalidate(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, removed)

	require.False(t, sessions.IsValid(ctx, session.ID))

	// Idempotent.
	removed, err = sessions.Invalidate(ctx, session.ID)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestIsValidLazilyEvictsExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	sessions := newSessionService(t, clock, time.Hour)

	_, session, err := sessions.Issue(ctx, testWallet, core.RoleUser)
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)
	require.False(t, sessions.IsValid(ctx, session.ID))

	// The expired record was removed by the check itself.
	_, err = sessions.Session(ctx, session.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestVerifyIgnoresStore(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionService(t, newFakeClock(), time.Hour)

	token, session, err := sessions.Issue(ctx, testWallet, core.RoleUser)
	require.NoError(t, err)

	_, err = sessions.Invalidate(ctx, session.ID)
	require.NoError(t, err)

	// The token still verifies cryptographically; only IsValid reflects
	// the revocation. Both checks are required to authorize.
	claims, err := sessions.Verify(token)
	require.NoError(t, err)
	require.Equal(t, session.ID, claims.SessionID)
	require.False(t, sessions.IsValid(ctx, session.ID))
}

func TestInvalidateAllForWallet(t *testing.T) {
	ctx := context.Background()
	sessions := newSessionService(t, newFakeClock(), time.Hour)

	for i := 0; i < 3; i++ {
		_, _, err := sessions.Issue(ctx, testWallet, core.RoleUser)
		require.NoError(t, err)
	}
	_, other, err := sessions.Issue(ctx, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", core.RoleUser)
	require.NoError(t, err)

	// Case difference must not matter.
	removed, err := sessions.InvalidateAllForWallet(ctx, "0x2C7536E3605D9C16A7A3D7B1898E529396A65C23")
	require.NoError(t, err)
	require.Equal(t, 3, removed)

	// The other wallet is untouched.
	require.True(t, sessions.IsValid(ctx, other.ID))
}

func TestCleanupExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	sessions := newSessionService(t, clock, time.Hour)

	_, expired1, err := sessions.Issue(ctx, testWallet, core.RoleUser)
	require.NoError(t, err)
	_, expired2, err := sessions.Issue(ctx, testWallet, core.RoleAdmin)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	_, fresh, err := sessions.Issue(ctx, testWallet, core.RoleUser)
	require.NoError(t, err)

	clock.Advance(31 * time.Minute) // first two are now past expiry

	removed := sessions.CleanupExpired(ctx)
	require.Equal(t, 2, removed)

	require.False(t, sessions.IsValid(ctx, expired1.ID))
	require.False(t, sessions.IsValid(ctx, expired2.ID))
	require.True(t, sessions.IsValid(ctx, fresh.ID))

	// Second sweep removes nothing.
	require.Equal(t, 0, sessions.CleanupExpired(ctx))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	sessions := newSessionService(t, clock, time.Hour)

	_, _, err := sessions.Issue(ctx, testWallet, core.RoleUser)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, _, err = sessions.Issue(ctx, testWallet, core.RoleAdmin)
	require.NoError(t, err)

	stats, err := sessions.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
	require.Equal(t, 1, stats.Active)
	require.Equal(t, 1, stats.Expired)
	require.Equal(t, 1, stats.ByRole[core.RoleAdmin])
	require.Equal(t, 0, stats.ByRole[core.RoleUser])
}

func TestActiveSessions(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	sessions := newSessionService(t, clock, time.Hour)

	_, s1, err := sessions.Issue(ctx, testWallet, core.RoleUser)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, s2, err := sessions.Issue(ctx, testWallet, core.RoleUser)
	require.NoError(t, err)

	active, err := sessions.ActiveSessions(ctx, testWallet)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, s2.ID, active[0].ID)
	require.NotEqual(t, s1.ID, active[0].ID)
}

func TestJanitorStops(t *testing.T) {
	sessions := newSessionService(t, newFakeClock(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := sessions.StartJanitor(ctx, time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancellation")
	}
}
