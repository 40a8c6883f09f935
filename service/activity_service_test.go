package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pizajolo/nft-ticket-registration/adapters/store"
	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/service"
)

func newActivityService(clock *fakeClock, cap int) *service.ActivityService {
	return service.NewActivityService(
		store.NewMemoryActivityStore(cap),
		service.WithActivityNowTime(clock.Now),
	)
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	activities := newActivityService(clock, service.DefaultActivityCap)

	first, err := activities.Record(ctx, core.ActivityAdminLogin, testWallet, map[string]string{"method": "password"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.Equal(t, clock.Now(), first.Timestamp)
	require.Equal(t, core.NormalizeWallet(testWallet), first.AdminWallet)

	clock.Advance(time.Minute)
	second, err := activities.Record(ctx, core.ActivityAdminLogout, testWallet, nil)
	require.NoError(t, err)

	recent, err := activities.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, second.ID, recent[0].ID)
	require.Equal(t, first.ID, recent[1].ID)
}

func TestRecentRespectsCap(t *testing.T) {
	ctx := context.Background()
	activities := newActivityService(newFakeClock(), 3)

	var ids []string
	for i := 0; i < 5; i++ {
		activity, err := activities.Record(ctx, core.ActivitySessionsCleaned, testWallet, nil)
		require.NoError(t, err)
		ids = append(ids, activity.ID)
	}

	recent, err := activities.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	// Oldest entries rolled off; newest first.
	require.Equal(t, ids[4], recent[0].ID)
	require.Equal(t, ids[2], recent[2].ID)
}

func TestByTypeAndByWallet(t *testing.T) {
	ctx := context.Background()
	activities := newActivityService(newFakeClock(), service.DefaultActivityCap)

	other := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	_, err := activities.Record(ctx, core.ActivityAdminLogin, testWallet, nil)
	require.NoError(t, err)
	_, err = activities.Record(ctx, core.ActivitySessionsInvalidated, testWallet, map[string]string{"wallet": other})
	require.NoError(t, err)
	_, err = activities.Record(ctx, core.ActivityAdminLogin, other, nil)
	require.NoError(t, err)

	logins, err := activities.ByType(ctx, core.ActivityAdminLogin, 0)
	require.NoError(t, err)
	require.Len(t, logins, 2)

	logins, err = activities.ByType(ctx, core.ActivityAdminLogin, 1)
	require.NoError(t, err)
	require.Len(t, logins, 1)
	require.Equal(t, core.NormalizeWallet(other), logins[0].AdminWallet)

	// Wallet filter is case-insensitive.
	mine, err := activities.ByWallet(ctx, "0x2C7536E3605D9C16A7A3D7B1898E529396A65C23", 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, activity := range mine {
		require.Equal(t, core.NormalizeWallet(testWallet), activity.AdminWallet)
	}
}
