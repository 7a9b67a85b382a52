package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	logpkg "github.com/liuran001/hymusic/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	base := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "history.db"), logpkg.NewGormLogger(base, logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRecordAndFind(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Find(ctx, "netease", "1", "high")
	assert.ErrorIs(t, err, ErrNotFound)

	d := &Download{
		Platform: "netease",
		TrackID:  "1",
		Quality:  "high",
		SongName: "晴天",
		Artist:   "周杰伦",
		Format:   "mp3",
		Size:     123,
		Path:     "/tmp/a.mp3",
	}
	require.NoError(t, repo.Record(ctx, d))
	assert.NotZero(t, d.ID)

	got, err := repo.Find(ctx, "netease", "1", "high")
	require.NoError(t, err)
	assert.Equal(t, "晴天", got.SongName)
	assert.Equal(t, int64(123), got.Size)

	_, err = repo.Find(ctx, "netease", "1", "low")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordUpsertsSameTrackAndQuality(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first := &Download{Platform: "qqmusic", TrackID: "m1", Quality: "high", SongName: "Old", Path: "/a"}
	require.NoError(t, repo.Record(ctx, first))
	second := &Download{Platform: "qqmusic", TrackID: "m1", Quality: "high", SongName: "New", Path: "/b"}
	require.NoError(t, repo.Record(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	all, err := repo.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "New", all[0].SongName)
	assert.Equal(t, "/b", all[0].Path)
}

func TestListFiltersAndCounts(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for _, d := range []*Download{
		{Platform: "netease", TrackID: "1", Quality: "high", SongName: "Sunny Day", Artist: "Jay"},
		{Platform: "netease", TrackID: "2", Quality: "high", SongName: "Rainy Night", Artist: "Eason"},
		{Platform: "qqmusic", TrackID: "m3", Quality: "low", SongName: "Another Sunny", Artist: "Jay"},
	} {
		require.NoError(t, repo.Record(ctx, d))
	}

	got, err := repo.List(ctx, Query{Platform: "netease"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.List(ctx, Query{Keyword: "SUNNY"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.List(ctx, Query{Keyword: "jay", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	counts, err := repo.CountByPlatform(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"netease": 2, "qqmusic": 1}, counts)

	require.NoError(t, repo.Delete(ctx, "netease", "1"))
	_, err = repo.Find(ctx, "netease", "1", "high")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Record(ctx, &Download{Platform: "netease", TrackID: "1", Quality: "high", SongName: "Sunny Day"}))
	_, err = repo.Find(ctx, "netease", "1", "high")
	assert.NoError(t, err)
}
