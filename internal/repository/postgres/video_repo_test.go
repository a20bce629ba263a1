package postgres_test

import (
	"context"
	"testing"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository"
	"github.com/dom/videotube/internal/repository/postgres"
	"github.com/dom/videotube/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func titles(videos []*domain.Video) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.Title
	}
	return out
}

func TestVideoRepository_SearchPagination(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewVideoRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.SeedVideos(t, testDB.DB, owner, 12)

	tests := []struct {
		name string
		page domain.PageQuery
		want []string
	}{
		{
			name: "second page of five oldest first",
			page: domain.PageQuery{Page: 2, Limit: 5, SortType: domain.SortAsc},
			want: []string{"Video 06", "Video 07", "Video 08", "Video 09", "Video 10"},
		},
		{
			name: "default order is newest first",
			page: domain.PageQuery{Page: 1, Limit: 3},
			want: []string{"Video 12", "Video 11", "Video 10"},
		},
		{
			name: "last partial page",
			page: domain.PageQuery{Page: 3, Limit: 5, SortType: domain.SortAsc},
			want: []string{"Video 11", "Video 12"},
		},
		{
			name: "past the end",
			page: domain.PageQuery{Page: 4, Limit: 5},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := tt.page.Normalize()
			require.NoError(t, err)

			videos, err := repo.Search(ctx, repository.VideoFilter{}, page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(videos))
		})
	}
}

func TestVideoRepository_SearchFilters(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewVideoRepository(testDB.DB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.NewVideoBuilder().WithOwner(alice).WithTitle("Go concurrency").Build(t, testDB.DB)
	testutil.NewVideoBuilder().WithOwner(alice).WithTitle("Cooking").WithDescription("pasta 100% durum").Build(t, testDB.DB)
	testutil.NewVideoBuilder().WithOwner(alice).WithTitle("Draft go talk").Unpublished().Build(t, testDB.DB)
	testutil.NewVideoBuilder().WithOwner(bob).WithTitle("Learn GO modules").Build(t, testDB.DB)

	page, err := domain.PageQuery{SortBy: "title", SortType: domain.SortAsc}.Normalize()
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter repository.VideoFilter
		want   []string
	}{
		{name: "case insensitive query", filter: repository.VideoFilter{Query: "go"}, want: []string{"Go concurrency", "Learn GO modules"}},
		{name: "owner sees own drafts", filter: repository.VideoFilter{Query: "go", ViewerID: alice.ID}, want: []string{"Draft go talk", "Go concurrency", "Learn GO modules"}},
		{name: "owner filter", filter: repository.VideoFilter{OwnerID: bob.ID}, want: []string{"Learn GO modules"}},
		{name: "description match", filter: repository.VideoFilter{Query: "durum"}, want: []string{"Cooking"}},
		{name: "wildcards are literal", filter: repository.VideoFilter{Query: "100%"}, want: []string{"Cooking"}},
		{name: "underscore is literal", filter: repository.VideoFilter{Query: "_"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videos, err := repo.Search(ctx, tt.filter, page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(videos))
		})
	}
}

func TestVideoRepository_DeleteCascades(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	videoRepo := postgres.NewVideoRepository(testDB.DB)
	userRepo := postgres.NewUserRepository(testDB.DB)
	playlistRepo := postgres.NewPlaylistRepository(testDB.DB)
	likeRepo := postgres.NewLikeRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	viewer, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	doomed := testutil.NewVideoBuilder().WithOwner(owner).Build(t, testDB.DB)
	kept := testutil.NewVideoBuilder().WithOwner(owner).Build(t, testDB.DB)

	comment := testutil.CreateComment(t, testDB.DB, doomed, viewer, "nice")
	playlist := testutil.CreatePlaylist(t, testDB.DB, viewer, kept, doomed)
	require.NoError(t, userRepo.PushWatchHistory(ctx, viewer.ID, doomed.ID))
	require.NoError(t, userRepo.PushWatchHistory(ctx, viewer.ID, kept.ID))
	_, err := likeRepo.Toggle(ctx, viewer.ID, domain.SubjectVideo, doomed.ID, domain.ReactionLike)
	require.NoError(t, err)
	_, err = likeRepo.Toggle(ctx, owner.ID, domain.SubjectComment, comment.ID, domain.ReactionLike)
	require.NoError(t, err)

	require.NoError(t, videoRepo.Delete(ctx, doomed.ID))

	_, err = videoRepo.GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var comments int64
	require.NoError(t, testDB.DB.Model(&domain.Comment{}).Where("video_id = ?", doomed.ID).Count(&comments).Error)
	assert.Zero(t, comments)
	assert.Zero(t, testutil.CountLikes(t, testDB.DB, viewer.ID, domain.SubjectVideo, doomed.ID))
	assert.Zero(t, testutil.CountLikes(t, testDB.DB, owner.ID, domain.SubjectComment, comment.ID))

	p, err := playlistRepo.GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{kept.ID}, []string(p.Videos))

	u, err := userRepo.GetByID(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{kept.ID}, []string(u.WatchHistory))

	assert.ErrorIs(t, videoRepo.Delete(ctx, doomed.ID), gorm.ErrRecordNotFound)
}

func TestVideoRepository_CountersAndTotals(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewVideoRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	v := testutil.NewVideoBuilder().WithOwner(owner).WithViews(10).Build(t, testDB.DB)
	testutil.NewVideoBuilder().WithOwner(owner).WithViews(5).Unpublished().Build(t, testDB.DB)

	require.NoError(t, repo.IncrementViews(ctx, v.ID))

	videos, views, err := repo.ChannelTotals(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), videos)
	assert.Equal(t, int64(16), views)

	nobody, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	videos, views, err = repo.ChannelTotals(ctx, nobody.ID)
	require.NoError(t, err)
	assert.Zero(t, videos)
	assert.Zero(t, views)

	all, err := repo.GetByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
