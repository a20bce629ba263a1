package postgres_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository/postgres"
	"github.com/dom/videotube/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_Toggle(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewLikeRepository(testDB.DB)
	ctx := context.Background()

	actor, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	video := testutil.NewVideoBuilder().Build(t, testDB.DB)

	steps := []struct {
		action      domain.Reaction
		wantTo      domain.Reaction
		wantOutcome domain.ToggleOutcome
		wantRows    int64
	}{
		{action: domain.ReactionLike, wantTo: domain.ReactionLike, wantOutcome: domain.OutcomeAdded, wantRows: 1},
		{action: domain.ReactionDislike, wantTo: domain.ReactionDislike, wantOutcome: domain.OutcomeAdded, wantRows: 1},
		{action: domain.ReactionLike, wantTo: domain.ReactionLike, wantOutcome: domain.OutcomeAdded, wantRows: 1},
		{action: domain.ReactionLike, wantTo: domain.ReactionNone, wantOutcome: domain.OutcomeRemoved, wantRows: 0},
		{action: domain.ReactionDislike, wantTo: domain.ReactionDislike, wantOutcome: domain.OutcomeAdded, wantRows: 1},
		{action: domain.ReactionDislike, wantTo: domain.ReactionNone, wantOutcome: domain.OutcomeRemoved, wantRows: 0},
	}

	for i, step := range steps {
		tr, err := repo.Toggle(ctx, actor.ID, domain.SubjectVideo, video.ID, step.action)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.wantTo, tr.To, "step %d", i)
		assert.Equal(t, step.wantOutcome, tr.Outcome, "step %d", i)
		assert.Equal(t, step.wantRows, testutil.CountLikes(t, testDB.DB, actor.ID, domain.SubjectVideo, video.ID), "step %d", i)
	}
}

func TestLikeRepository_ToggleConcurrent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewLikeRepository(testDB.DB)
	ctx := context.Background()

	actor, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	video := testutil.NewVideoBuilder().Build(t, testDB.DB)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			action := domain.ReactionLike
			if rand.Intn(2) == 0 {
				action = domain.ReactionDislike
			}
			// Unique violations under contention surface as errors; the
			// invariant is only about what survives.
			_, _ = repo.Toggle(ctx, actor.ID, domain.SubjectVideo, video.ID, action)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, testutil.CountLikes(t, testDB.DB, actor.ID, domain.SubjectVideo, video.ID), int64(1))
}

func TestLikeRepository_Aggregates(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewLikeRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	fan, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	hater, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	v1 := testutil.NewVideoBuilder().WithOwner(owner).Build(t, testDB.DB)
	v2 := testutil.NewVideoBuilder().WithOwner(owner).Build(t, testDB.DB)
	other := testutil.NewVideoBuilder().Build(t, testDB.DB)

	for _, v := range []*domain.Video{v1, v2, other} {
		_, err := repo.Toggle(ctx, fan.ID, domain.SubjectVideo, v.ID, domain.ReactionLike)
		require.NoError(t, err)
	}
	_, err := repo.Toggle(ctx, hater.ID, domain.SubjectVideo, v1.ID, domain.ReactionDislike)
	require.NoError(t, err)

	likes, err := repo.CountOnVideosOwnedBy(ctx, owner.ID, domain.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes)

	ids, err := repo.ListVideoIDsByActor(ctx, fan.ID, domain.ReactionLike)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{v1.ID, v2.ID, other.ID}, ids)

	ids, err = repo.ListVideoIDsByActor(ctx, hater.ID, domain.ReactionLike)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
