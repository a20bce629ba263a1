package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository/postgres"
	"github.com/dom/videotube/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRepository_Toggle(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSubscriptionRepository(testDB.DB)
	ctx := context.Background()

	subscriber, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	channel, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	state, err := repo.Toggle(ctx, subscriber.ID, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Subscribed, state)

	exists, err := repo.Exists(ctx, subscriber.ID, channel.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := repo.CountSubscribers(ctx, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	state, err = repo.Toggle(ctx, subscriber.ID, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Unsubscribed, state)

	exists, err = repo.Exists(ctx, subscriber.ID, channel.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSubscriptionRepository_ToggleConcurrent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSubscriptionRepository(testDB.DB)
	ctx := context.Background()

	subscriber, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	channel, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Toggle(ctx, subscriber.ID, channel.ID)
		}()
	}
	wg.Wait()

	count, err := repo.CountSubscribers(ctx, channel.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, int64(1))
}

func TestSubscriptionRepository_Lists(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSubscriptionRepository(testDB.DB)
	ctx := context.Background()

	channel, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	a, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.Subscribe(t, testDB.DB, a, channel)
	testutil.Subscribe(t, testDB.DB, b, channel)
	testutil.Subscribe(t, testDB.DB, a, b)

	subscribers, err := repo.ListSubscriberIDs(ctx, channel.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, subscribers)

	channels, err := repo.ListChannelIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{channel.ID, b.ID}, channels)

	subscribedTo, err := repo.CountSubscribedTo(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), subscribedTo)
}
