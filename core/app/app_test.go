package app

import (
	"context"
	"iter"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/liuran001/hymusic/core"
	"github.com/liuran001/hymusic/core/config"
	logpkg "github.com/liuran001/hymusic/core/logger"
	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/platform"
	platformplugins "github.com/liuran001/hymusic/core/platform/plugins"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name      string
	streamURL string
	songs     map[string]model.Fields
	playlist  []string
	urlCalls  atomic.Int32
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Resolve(ctx context.Context, e model.Entity) error {
	return platform.ResolveEntity(ctx, s, e)
}

func (s *stubProvider) Search(ctx context.Context, query string, kind model.Kind, limit int, criteria map[string]string) ([]model.Entity, error) {
	return nil, platform.NewUnsupportedError(s.name, "search")
}

func (s *stubProvider) ListPlaylists(ctx context.Context, opts platform.ListOptions) iter.Seq2[*model.Playlist, error] {
	return func(yield func(*model.Playlist, error) bool) {}
}

func (s *stubProvider) GetSong(ctx context.Context, id string, bind *model.Song) (*model.Song, error) {
	fields, ok := s.songs[id]
	if !ok {
		return nil, platform.NewNotFoundError(s.name, "song", id)
	}
	return platform.Bind(bind, model.NewSong(s, fields))
}

func (s *stubProvider) GetAlbum(ctx context.Context, id string, bind *model.Album) (*model.Album, error) {
	return nil, platform.NewUnsupportedError(s.name, "album")
}

func (s *stubProvider) GetArtist(ctx context.Context, id string, bind *model.Artist) (*model.Artist, error) {
	return nil, platform.NewUnsupportedError(s.name, "artist")
}

func (s *stubProvider) GetPlaylist(ctx context.Context, id string, bind *model.Playlist) (*model.Playlist, error) {
	songs := make([]*model.Song, 0, len(s.playlist))
	for _, mid := range s.playlist {
		songs = append(songs, model.NewSong(s, model.Fields{model.FieldMid: mid, model.FieldName: s.songs[mid][model.FieldName]}))
	}
	return platform.Bind(bind, model.NewPlaylist(s, model.Fields{
		model.FieldID:    int64(7),
		model.FieldName:  "Road/Trip",
		model.FieldSongs: songs,
	}))
}

func (s *stubProvider) GetSongURL(ctx context.Context, id string, quality platform.Quality) (*platform.StreamURL, error) {
	s.urlCalls.Add(1)
	if id == "gone" {
		return nil, platform.NewUnavailableQualityError(s.name, id, quality)
	}
	return &platform.StreamURL{URL: s.streamURL + "/" + id, Quality: quality, Format: "mp3"}, nil
}

func (s *stubProvider) GetSongLyric(ctx context.Context, id string, variant platform.LyricVariant) (string, bool, error) {
	return "", false, nil
}

func (s *stubProvider) Identifier(e model.Entity) (model.Identifier, error) {
	return model.IdentifierOf(e, model.FieldMid)
}

func newStub(t *testing.T, name string) *stubProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio:" + strings.TrimPrefix(r.URL.Path, "/")))
	}))
	t.Cleanup(srv.Close)

	singer := model.NewArtist(nil, model.Fields{model.FieldName: "Jay"})
	return &stubProvider{
		name:      name,
		streamURL: srv.URL,
		songs: map[string]model.Fields{
			"a1":   {model.FieldMid: "a1", model.FieldName: "Sunny Day", model.FieldArtist: singer},
			"gone": {model.FieldMid: "gone", model.FieldName: "Lost", model.FieldArtist: singer},
		},
		playlist: []string{"a1", "gone"},
	}
}

func newTestApp(t *testing.T, providers ...platform.Provider) *App {
	t.Helper()
	return newTestAppWith(t, nil, providers...)
}

func newTestAppWith(t *testing.T, settings map[string]any, providers ...platform.Provider) *App {
	t.Helper()
	conf := config.Default()
	conf.Set("DownloadDir", t.TempDir())
	conf.Set("WorkerPoolSize", 2)
	for k, v := range settings {
		conf.Set(k, v)
	}
	a, err := NewWithConfig(context.Background(), conf, logpkg.Nop())
	require.NoError(t, err)
	for _, p := range providers {
		require.NoError(t, a.Manager.Register(p))
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestProviderFallsBackToDefaultPlatform(t *testing.T) {
	a := newTestApp(t, newStub(t, "netease"), newStub(t, "other"))

	p, err := a.Provider("")
	require.NoError(t, err)
	assert.Equal(t, "netease", p.Name())

	p, err = a.Provider("other")
	require.NoError(t, err)
	assert.Equal(t, "other", p.Name())

	_, err = a.Provider("missing")
	assert.Error(t, err)
}

func TestQualityDefaultsFromConfig(t *testing.T) {
	a := newTestApp(t)

	q, err := a.Quality("")
	require.NoError(t, err)
	assert.Equal(t, platform.QualityHigh, q)

	q, err = a.Quality("low")
	require.NoError(t, err)
	assert.Equal(t, platform.QualityLow, q)
}

func TestDownloadSong(t *testing.T) {
	stub := newStub(t, "netease")
	a := newTestApp(t, stub)

	res, err := a.DownloadSong(context.Background(), stub, "a1", DownloadOptions{Quality: platform.QualityMedium})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(a.DownloadDir(""), "Jay - Sunny Day.mp3"), res.Path)
	assert.Equal(t, "medium", res.Quality)

	got, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "audio:a1", string(got))
	assert.Equal(t, int64(len(got)), res.Bytes)
}

func TestDownloadSongNotFound(t *testing.T) {
	stub := newStub(t, "netease")
	a := newTestApp(t, stub)

	_, err := a.DownloadSong(context.Background(), stub, "nope", DownloadOptions{Quality: platform.QualityHigh})
	assert.ErrorIs(t, err, platform.ErrNotFound)
}

func TestDownloadPlaylistReportsPerSongFailures(t *testing.T) {
	stub := newStub(t, "netease")
	a := newTestApp(t, stub)

	results, err := a.DownloadPlaylist(context.Background(), stub, "7", DownloadOptions{Quality: platform.QualityHigh})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NoError(t, results[0].Err)
	assert.Equal(t, filepath.Join(a.DownloadDir(""), "Road_Trip", "Jay - Sunny Day.mp3"), results[0].Path)

	assert.Equal(t, "gone", results[1].ID)
	assert.ErrorIs(t, results[1].Err, platform.ErrUnavailableQuality)
}

func TestHistorySkipsFinishedDownloads(t *testing.T) {
	stub := newStub(t, "netease")
	a := newTestAppWith(t, map[string]any{"HistoryDB": filepath.Join(t.TempDir(), "history.db")}, stub)
	require.NotNil(t, a.History)
	ctx := context.Background()
	opts := DownloadOptions{Quality: platform.QualityHigh}

	first, err := a.DownloadSong(ctx, stub, "a1", opts)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := a.DownloadSong(ctx, stub, "a1", opts)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, int32(1), stub.urlCalls.Load())

	opts.Force = true
	third, err := a.DownloadSong(ctx, stub, "a1", opts)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, int32(2), stub.urlCalls.Load())

	require.NoError(t, os.Remove(first.Path))
	opts.Force = false
	fourth, err := a.DownloadSong(ctx, stub, "a1", opts)
	require.NoError(t, err)
	assert.False(t, fourth.Cached)
	assert.Equal(t, int32(3), stub.urlCalls.Load())

	record, err := a.History.Find(ctx, "netease", "a1", "high")
	require.NoError(t, err)
	assert.Equal(t, "Jay", record.Artist)
}

func TestPluginsLoadFromConfig(t *testing.T) {
	for _, name := range []string{"apptest-on", "apptest-off"} {
		require.NoError(t, platformplugins.Register(name, func(cfg *config.Config, logger core.Logger) (platform.Provider, error) {
			return newStub(t, name), nil
		}))
	}

	path := filepath.Join(t.TempDir(), "config.ini")
	content := `LogLevel = error

[plugins.apptest-on]
enabled = true

[plugins.apptest-off]
enabled = false

[plugins.apptest-missing]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	a, err := New(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	assert.Equal(t, []string{"apptest-on"}, a.Manager.List())
}
