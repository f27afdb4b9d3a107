package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samtech/internal/domain"
	"samtech/internal/services"
)

func TestSweepOnceDeletesOnlyExpired(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, c := range []domain.Cart{
		{ID: "old", UserID: "u1", ExpiresAt: now.Add(-time.Minute)},
		{ID: "edge", UserID: "u2", ExpiresAt: now},
		{ID: "fresh", UserID: "u3", ExpiresAt: now.Add(time.Hour)},
	} {
		c.Items = []domain.CartItem{}
		require.NoError(t, st.Carts.Save(ctx, &c))
	}

	sweeper := services.NewCartSweeper(st.Carts, time.Hour)
	sweeper.Now = func() time.Time { return now }

	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = st.Carts.GetByUser(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, u := range []string{"u2", "u3"} {
		_, err = st.Carts.GetByUser(ctx, u)
		assert.NoError(t, err, u)
	}

	n, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	st := newStores(t)
	ctx, cancel := context.WithCancel(context.Background())
	sweeper := services.NewCartSweeper(st.Carts, time.Millisecond)

	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
