package postgres_test

import (
	"context"
	"testing"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/repository/postgres"
	"github.com/dom/videotube/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylistRepository_ModifyVideos(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPlaylistRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	a := testutil.NewVideoBuilder().Build(t, testDB.DB)
	b := testutil.NewVideoBuilder().Build(t, testDB.DB)
	playlist := testutil.CreatePlaylist(t, testDB.DB, owner, a)

	updated, err := repo.ModifyVideos(ctx, playlist.ID, func(p *domain.Playlist) error {
		return p.AddVideo(b.ID)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, []string(updated.Videos))

	// A failing mutation writes nothing
	_, err = repo.ModifyVideos(ctx, playlist.ID, func(p *domain.Playlist) error {
		return p.AddVideo(a.ID)
	})
	assert.ErrorIs(t, err, domain.ErrVideoInPlaylist)

	stored, err := repo.GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, []string(stored.Videos))
}

func TestPlaylistRepository_UpdateKeepsVideos(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPlaylistRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	v := testutil.NewVideoBuilder().Build(t, testDB.DB)
	playlist := testutil.CreatePlaylist(t, testDB.DB, owner, v)

	stale := *playlist
	stale.Videos = nil
	stale.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, &stale))

	stored, err := repo.GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.Equal(t, []string{v.ID}, []string(stored.Videos))
}
