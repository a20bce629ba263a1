package service_test

import (
	"context"
	"testing"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository/postgres"
	"github.com/dom/videotube/internal/service"
	"github.com/dom/videotube/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_Toggle(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	likeService := service.NewLikeService(repos.Like, repos.Video, repos.Comment, repos.Tweet)
	ctx := context.Background()

	actor, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	video := testutil.NewVideoBuilder().Build(t, testDB.DB)
	comment := testutil.CreateComment(t, testDB.DB, video, actor, "first")
	tweet := testutil.CreateTweet(t, testDB.DB, actor, "hello")

	subjects := []struct {
		subjectType domain.SubjectType
		id          string
	}{
		{domain.SubjectVideo, video.ID},
		{domain.SubjectComment, comment.ID},
		{domain.SubjectTweet, tweet.ID},
	}

	steps := []struct {
		action          domain.Reaction
		wantOutcome     domain.ToggleOutcome
		wantState       domain.Reaction
		oppositeCleared bool
	}{
		{domain.ReactionLike, domain.OutcomeAdded, domain.ReactionLike, false},
		{domain.ReactionDislike, domain.OutcomeAdded, domain.ReactionDislike, true},
		{domain.ReactionLike, domain.OutcomeAdded, domain.ReactionLike, true},
		{domain.ReactionLike, domain.OutcomeRemoved, domain.ReactionNone, false},
		{domain.ReactionDislike, domain.OutcomeAdded, domain.ReactionDislike, false},
		{domain.ReactionDislike, domain.OutcomeRemoved, domain.ReactionNone, false},
	}

	for _, s := range subjects {
		t.Run(string(s.subjectType), func(t *testing.T) {
			for _, step := range steps {
				tr, err := likeService.Toggle(ctx, s.subjectType, s.id, actor.ID, step.action)
				require.NoError(t, err)
				assert.Equal(t, step.wantOutcome, tr.Outcome)
				assert.Equal(t, step.wantState, tr.To)
				assert.Equal(t, step.oppositeCleared, tr.OppositeCleared)

				want := int64(1)
				if step.wantState == domain.ReactionNone {
					want = 0
				}
				assert.Equal(t, want, testutil.CountLikes(t, testDB.DB, actor.ID, s.subjectType, s.id))
			}
		})
	}
}

func TestLikeService_ToggleRejects(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	likeService := service.NewLikeService(repos.Like, repos.Video, repos.Comment, repos.Tweet)
	ctx := context.Background()

	actor, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	video := testutil.NewVideoBuilder().Build(t, testDB.DB)

	tests := []struct {
		name        string
		subjectType domain.SubjectType
		subjectID   string
		reaction    domain.Reaction
		wantErr     error
	}{
		{name: "malformed video id", subjectType: domain.SubjectVideo, subjectID: "bad", reaction: domain.ReactionLike, wantErr: domain.ErrInvalidVideoID},
		{name: "malformed comment id", subjectType: domain.SubjectComment, subjectID: "bad", reaction: domain.ReactionLike, wantErr: domain.ErrInvalidCommentID},
		{name: "malformed tweet id", subjectType: domain.SubjectTweet, subjectID: "bad", reaction: domain.ReactionLike, wantErr: domain.ErrInvalidTweetID},
		{name: "missing video", subjectType: domain.SubjectVideo, subjectID: domain.NewID(), reaction: domain.ReactionLike, wantErr: domain.ErrVideoNotFound},
		{name: "missing comment", subjectType: domain.SubjectComment, subjectID: domain.NewID(), reaction: domain.ReactionDislike, wantErr: domain.ErrCommentNotFound},
		{name: "missing tweet", subjectType: domain.SubjectTweet, subjectID: domain.NewID(), reaction: domain.ReactionLike, wantErr: domain.ErrTweetNotFound},
		{name: "no reaction", subjectType: domain.SubjectVideo, subjectID: video.ID, reaction: domain.ReactionNone, wantErr: domain.ErrInvalidArgument},
		{name: "unknown subject type", subjectType: "channel", subjectID: video.ID, reaction: domain.ReactionLike, wantErr: domain.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := likeService.Toggle(ctx, tt.subjectType, tt.subjectID, actor.ID, tt.reaction)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLikeService_LikedVideos(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	likeService := service.NewLikeService(repos.Like, repos.Video, repos.Comment, repos.Tweet)
	ctx := context.Background()

	actor, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	first := testutil.NewVideoBuilder().WithTitle("first").Build(t, testDB.DB)
	second := testutil.NewVideoBuilder().WithTitle("second").Build(t, testDB.DB)
	disliked := testutil.NewVideoBuilder().WithTitle("disliked").Build(t, testDB.DB)
	hidden := testutil.NewVideoBuilder().WithTitle("hidden").Unpublished().Build(t, testDB.DB)

	for _, v := range []*domain.Video{first, second, hidden} {
		_, err := likeService.Toggle(ctx, domain.SubjectVideo, v.ID, actor.ID, domain.ReactionLike)
		require.NoError(t, err)
	}
	_, err := likeService.Toggle(ctx, domain.SubjectVideo, disliked.ID, actor.ID, domain.ReactionDislike)
	require.NoError(t, err)

	liked, err := likeService.LikedVideos(ctx, actor.ID)
	require.NoError(t, err)

	got := make([]string, len(liked))
	for i, v := range liked {
		got[i] = v.Title
	}
	assert.Equal(t, []string{"second", "first"}, got)
}
