package qqmusic

import (
	"context"

	"github.com/liuran001/hymusic/core"
	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/platform"
	"github.com/liuran001/hymusic/core/rawjson"
)

// QQMusicPlatform implements platform.Provider for QQ Music.
type QQMusicPlatform struct {
	client *Client
	logger core.Logger
}

// Option configures a QQMusicPlatform.
type Option func(*QQMusicPlatform)

// WithLogger sets the logger.
func WithLogger(logger core.Logger) Option {
	return func(q *QQMusicPlatform) { q.logger = logger }
}

// NewPlatform creates a QQ Music provider.
func NewPlatform(client *Client, opts ...Option) *QQMusicPlatform {
	q := &QQMusicPlatform{client: client}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Name returns "qqmusic".
func (q *QQMusicPlatform) Name() string {
	return providerName
}

// Metadata implements platform.MetadataProvider.
func (q *QQMusicPlatform) Metadata() platform.Meta {
	return platform.Meta{
		Name:        providerName,
		DisplayName: "QQ音乐",
		Aliases:     []string{"qq", "tencent", "qqmusic"},
	}
}

// Resolve implements model.Resolver.
func (q *QQMusicPlatform) Resolve(ctx context.Context, e model.Entity) error {
	return platform.ResolveEntity(ctx, q, e)
}

// Identifier returns the integer id for playlists and users and the string
// mid for everything else.
func (q *QQMusicPlatform) Identifier(e model.Entity) (model.Identifier, error) {
	switch e.Kind() {
	case model.KindPlaylist, model.KindUser:
		return model.IdentifierOf(e, model.FieldID)
	default:
		return model.IdentifierOf(e, model.FieldMid)
	}
}

// Search queries the song, album or playlist search endpoint.
func (q *QQMusicPlatform) Search(ctx context.Context, query string, kind model.Kind, limit int, criteria map[string]string) ([]model.Entity, error) {
	st, ok := searchTypes[kind]
	if !ok {
		return nil, platform.NewUnsupportedError(providerName, "search "+kind.String())
	}
	if err := model.ValidateCriteria(kind, criteria); err != nil {
		return nil, err
	}
	root, err := st.fetch(q.client, ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if _, err := rawjson.Path(root, "data"); err != nil {
		return nil, platform.NewShapeError(providerName, "search "+kind.String(), query, err)
	}
	// No hits leaves the list out of data.
	items := rawjson.Array(root.Get(st.list...))
	entities := make([]model.Entity, 0, len(items))
	for _, item := range items {
		e, err := st.build(q, item)
		if err != nil {
			return nil, platform.NewShapeError(providerName, "search "+kind.String(), query, err)
		}
		entities = append(entities, e)
	}
	if q.logger != nil {
		q.logger.Debug("qqmusic search", "query", query, "kind", kind.String(), "results", len(entities))
	}
	return platform.FilterMatches(entities, criteria, limit)
}

// GetSong fetches song detail by mid.
func (q *QQMusicPlatform) GetSong(ctx context.Context, mid string, bind *model.Song) (*model.Song, error) {
	root, err := q.client.songDetail(ctx, mid)
	if err != nil {
		return nil, err
	}
	data, err := rawjson.Path(root, "data")
	if err != nil {
		return nil, platform.NewShapeError(providerName, "song", mid, err)
	}
	record := rawjson.First(data)
	if record == nil {
		return nil, platform.NewNotFoundError(providerName, "song", mid)
	}
	song, err := q.buildSong(record)
	if err != nil {
		return nil, platform.NewShapeError(providerName, "song", mid, err)
	}
	return platform.Bind(bind, song)
}

// GetAlbum fetches album detail by mid, including its songs.
func (q *QQMusicPlatform) GetAlbum(ctx context.Context, mid string, bind *model.Album) (*model.Album, error) {
	root, err := q.client.albumDetail(ctx, mid)
	if err != nil {
		return nil, err
	}
	record, err := rawjson.RequireObject(root, "data")
	if err != nil {
		return nil, platform.NewShapeError(providerName, "album", mid, err)
	}
	album, err := q.buildAlbum(record, albumKeys, nil)
	if err != nil {
		return nil, platform.NewShapeError(providerName, "album", mid, err)
	}
	return platform.Bind(bind, album)
}

// GetArtist fetches an artist by mid with its album list as hot albums.
func (q *QQMusicPlatform) GetArtist(ctx context.Context, mid string, bind *model.Artist) (*model.Artist, error) {
	root, err := q.client.artistDetail(ctx, mid)
	if err != nil {
		return nil, err
	}
	record, err := rawjson.RequireObject(root, "data")
	if err != nil {
		return nil, platform.NewShapeError(providerName, "artist", mid, err)
	}
	artist, err := q.buildArtist(record, artistKeys)
	if err != nil {
		return nil, platform.NewShapeError(providerName, "artist", mid, err)
	}
	items := rawjson.Array(record.Get("list"))
	hot := make([]*model.Album, 0, len(items))
	for _, item := range items {
		album, err := q.buildAlbum(item, albumKeys, nil)
		if err != nil {
			return nil, platform.NewShapeError(providerName, "artist", mid, err)
		}
		hot = append(hot, album)
	}
	artist.Set(model.FieldHotAlbums, hot)
	return platform.Bind(bind, artist)
}

// GetPlaylist fetches playlist detail by numeric id.
func (q *QQMusicPlatform) GetPlaylist(ctx context.Context, id string, bind *model.Playlist) (*model.Playlist, error) {
	root, err := q.client.playlistDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	cdlist, err := rawjson.Path(root, "cdlist")
	if err != nil {
		return nil, platform.NewShapeError(providerName, "playlist", id, err)
	}
	record := rawjson.First(cdlist)
	if record == nil {
		return nil, platform.NewNotFoundError(providerName, "playlist", id)
	}
	playlist, err := q.buildPlaylist(record)
	if err != nil {
		return nil, platform.NewShapeError(providerName, "playlist", id, err)
	}
	return platform.Bind(bind, playlist)
}
