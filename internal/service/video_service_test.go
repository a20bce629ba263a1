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

func TestVideoService_Publish(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	store := testutil.NewFakeMediaStore()
	notifier := &testutil.RecordingNotifier{}
	videoService := service.NewVideoService(repos.Video, repos.User, store, notifier)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	t.Run("successful publish", func(t *testing.T) {
		input := service.PublishVideoInput{
			Title:         "  My first video ",
			Description:   "about things",
			VideoPath:     testutil.TempFile(t, ".mp4"),
			ThumbnailPath: testutil.TempFile(t, ".png"),
		}
		video, err := videoService.Publish(ctx, owner.ID, input)
		require.NoError(t, err)

		assert.Equal(t, "My first video", video.Title)
		assert.Equal(t, 42.5, video.Duration)
		assert.True(t, video.IsPublished)
		assert.Zero(t, video.Views)
		assert.Contains(t, store.Uploaded(), video.VideoFile)
		assert.Contains(t, store.Uploaded(), video.Thumbnail)
		assert.NoFileExists(t, input.VideoPath)
		assert.NoFileExists(t, input.ThumbnailPath)

		events := notifier.Events()
		require.Len(t, events, 1)
		assert.Equal(t, domain.ActivityVideoPublished, events[0].Kind)
		assert.Equal(t, owner.ID, events[0].ChannelID)
		assert.Equal(t, video.ID, events[0].SubjectID)
	})

	t.Run("missing thumbnail", func(t *testing.T) {
		_, err := videoService.Publish(ctx, owner.ID, service.PublishVideoInput{
			Title:       "t",
			Description: "d",
			VideoPath:   testutil.TempFile(t, ".mp4"),
		})
		assert.ErrorIs(t, err, domain.ErrVideoFileRequired)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := videoService.Publish(ctx, owner.ID, service.PublishVideoInput{
			Title:         "   ",
			Description:   "d",
			VideoPath:     testutil.TempFile(t, ".mp4"),
			ThumbnailPath: testutil.TempFile(t, ".png"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("upload failure", func(t *testing.T) {
		store.FailUploads(true)
		defer store.FailUploads(false)

		_, err := videoService.Publish(ctx, owner.ID, service.PublishVideoInput{
			Title:         "t",
			Description:   "d",
			VideoPath:     testutil.TempFile(t, ".mp4"),
			ThumbnailPath: testutil.TempFile(t, ".png"),
		})
		assert.ErrorIs(t, err, domain.ErrUploadFailed)

		videos, err := repos.Video.GetByOwner(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, videos, 1)
		assert.Len(t, notifier.Events(), 1)
	})
}

func TestVideoService_Get(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	videoService := service.NewVideoService(repos.Video, repos.User, testutil.NewFakeMediaStore(), nil)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	viewer, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	published := testutil.NewVideoBuilder().WithOwner(owner).WithViews(3).Build(t, testDB.DB)
	draft := testutil.NewVideoBuilder().WithOwner(owner).Unpublished().Build(t, testDB.DB)

	tests := []struct {
		name    string
		videoID string
		viewer  string
		wantErr error
	}{
		{name: "published video", videoID: published.ID, viewer: viewer.ID},
		{name: "draft by owner", videoID: draft.ID, viewer: owner.ID},
		{name: "draft by someone else", videoID: draft.ID, viewer: viewer.ID, wantErr: domain.ErrVideoNotFound},
		{name: "unknown video", videoID: domain.NewID(), viewer: viewer.ID, wantErr: domain.ErrVideoNotFound},
		{name: "malformed id", videoID: "nope", viewer: viewer.ID, wantErr: domain.ErrInvalidVideoID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := videoService.Get(ctx, tt.videoID, tt.viewer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, view.Owner)
			assert.Equal(t, owner.ID, view.Owner.ID)
			assert.Empty(t, view.Owner.Email)
		})
	}

	stored, err := repos.Video.GetByID(ctx, published.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.Views)

	u, err := repos.User.GetByID(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{published.ID}, []string(u.WatchHistory))
}

func TestVideoService_List(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	videoService := service.NewVideoService(repos.Video, repos.User, testutil.NewFakeMediaStore(), nil)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.SeedVideos(t, testDB.DB, owner, 12)

	tests := []struct {
		name    string
		input   service.ListVideosInput
		want    []string
		wantErr error
	}{
		{
			name:  "page two of five",
			input: service.ListVideosInput{Page: domain.PageQuery{Page: 2, Limit: 5, SortType: domain.SortAsc}},
			want:  []string{"Video 06", "Video 07", "Video 08", "Video 09", "Video 10"},
		},
		{
			name:  "past the end",
			input: service.ListVideosInput{Page: domain.PageQuery{Page: 9, Limit: 5}},
			want:  []string{},
		},
		{
			name:    "bad sort key",
			input:   service.ListVideosInput{Page: domain.PageQuery{SortBy: "password"}},
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "bad owner id",
			input:   service.ListVideosInput{OwnerID: "xyz"},
			wantErr: domain.ErrInvalidUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := videoService.List(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got := make([]string, len(views))
			for i, v := range views {
				got[i] = v.Title
				require.NotNil(t, v.Owner)
				assert.Equal(t, owner.Username, v.Owner.Username)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVideoService_Ownership(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	store := testutil.NewFakeMediaStore()
	videoService := service.NewVideoService(repos.Video, repos.User, store, nil)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	video := testutil.NewVideoBuilder().WithOwner(owner).Build(t, testDB.DB)

	t.Run("non owner is forbidden", func(t *testing.T) {
		_, err := videoService.UpdateDetails(ctx, video.ID, other.ID, service.UpdateVideoInput{Title: "hijack"})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = videoService.TogglePublish(ctx, video.ID, other.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		assert.ErrorIs(t, videoService.Delete(ctx, video.ID, other.ID), domain.ErrForbidden)
	})

	t.Run("owner updates details", func(t *testing.T) {
		updated, err := videoService.UpdateDetails(ctx, video.ID, owner.ID, service.UpdateVideoInput{Title: "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, video.Description, updated.Description)

		_, err = videoService.UpdateDetails(ctx, video.ID, owner.ID, service.UpdateVideoInput{})
		assert.ErrorIs(t, err, domain.ErrNothingToUpdate)
	})

	t.Run("toggle publish twice", func(t *testing.T) {
		v, err := videoService.TogglePublish(ctx, video.ID, owner.ID)
		require.NoError(t, err)
		assert.False(t, v.IsPublished)

		v, err = videoService.TogglePublish(ctx, video.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, v.IsPublished)
	})

	t.Run("thumbnail replaced", func(t *testing.T) {
		before, err := repos.Video.GetByID(ctx, video.ID)
		require.NoError(t, err)

		v, err := videoService.UpdateThumbnail(ctx, video.ID, owner.ID, testutil.TempFile(t, ".png"))
		require.NoError(t, err)
		assert.NotEqual(t, before.Thumbnail, v.Thumbnail)
		assert.Contains(t, store.Deleted(), before.Thumbnail)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, videoService.Delete(ctx, video.ID, owner.ID))
		assert.Contains(t, store.Deleted(), video.VideoFile)

		_, err := repos.Video.GetByID(ctx, video.ID)
		assert.Error(t, err)
		assert.ErrorIs(t, videoService.Delete(ctx, video.ID, owner.ID), domain.ErrVideoNotFound)
	})
}
