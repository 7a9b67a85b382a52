package netease

import (
	"context"
	"math/rand/v2"

	"github.com/liuran001/hymusic/core"
	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/platform"
	"github.com/liuran001/hymusic/core/rawjson"
	"github.com/valyala/fastjson"
)

// NeteasePlatform implements platform.Provider for NetEase Cloud Music.
type NeteasePlatform struct {
	client   *Client
	pickHost func() int
	logger   core.Logger
}

// Option configures a NeteasePlatform.
type Option func(*NeteasePlatform)

// WithHostPicker replaces the random CDN host choice. pick returns 1 or 2.
func WithHostPicker(pick func() int) Option {
	return func(n *NeteasePlatform) {
		if pick != nil {
			n.pickHost = pick
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger core.Logger) Option {
	return func(n *NeteasePlatform) { n.logger = logger }
}

// NewPlatform creates a NetEase provider.
func NewPlatform(client *Client, opts ...Option) *NeteasePlatform {
	n := &NeteasePlatform{
		client:   client,
		pickHost: func() int { return rand.IntN(2) + 1 },
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns "netease".
func (n *NeteasePlatform) Name() string {
	return providerName
}

// Metadata implements platform.MetadataProvider.
func (n *NeteasePlatform) Metadata() platform.Meta {
	return platform.Meta{
		Name:        providerName,
		DisplayName: "网易云音乐",
		Aliases:     []string{"163", "wy", "ncm", "netease"},
	}
}

// Resolve implements model.Resolver.
func (n *NeteasePlatform) Resolve(ctx context.Context, e model.Entity) error {
	return platform.ResolveEntity(ctx, n, e)
}

// Identifier returns the integer id, which NetEase uses for every kind.
func (n *NeteasePlatform) Identifier(e model.Entity) (model.Identifier, error) {
	return model.IdentifierOf(e, model.FieldID)
}

// Search queries the legacy search API.
func (n *NeteasePlatform) Search(ctx context.Context, query string, kind model.Kind, limit int, criteria map[string]string) ([]model.Entity, error) {
	st, ok := searchTypes[kind]
	if !ok {
		return nil, platform.NewUnsupportedError(providerName, "search "+kind.String())
	}
	if err := model.ValidateCriteria(kind, criteria); err != nil {
		return nil, err
	}
	root, err := n.client.search(ctx, query, st.code, limit)
	if err != nil {
		return nil, err
	}
	result, err := rawjson.RequireObject(root, "result")
	if err != nil {
		return nil, platform.NewShapeError(providerName, "search "+kind.String(), query, err)
	}
	// An empty result carries no list at all.
	items := rawjson.Array(result.Get(st.key))
	entities := make([]model.Entity, 0, len(items))
	for _, item := range items {
		e, err := st.build(n, item)
		if err != nil {
			return nil, platform.NewShapeError(providerName, "search "+kind.String(), query, err)
		}
		entities = append(entities, e)
	}
	if n.logger != nil {
		n.logger.Debug("netease search", "query", query, "kind", kind.String(), "results", len(entities))
	}
	return platform.FilterMatches(entities, criteria, limit)
}

// GetSong fetches song detail.
func (n *NeteasePlatform) GetSong(ctx context.Context, id string, bind *model.Song) (*model.Song, error) {
	record, err := n.songRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	song, err := n.buildSong(record)
	if err != nil {
		return nil, platform.NewShapeError(providerName, "song", id, err)
	}
	return platform.Bind(bind, song)
}

// GetAlbum fetches album detail including its songs.
func (n *NeteasePlatform) GetAlbum(ctx context.Context, id string, bind *model.Album) (*model.Album, error) {
	root, err := n.client.albumDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	record, err := rawjson.RequireObject(root, "album")
	if err != nil {
		return nil, platform.NewShapeError(providerName, "album", id, err)
	}
	album, err := n.buildAlbum(record, nil)
	if err != nil {
		return nil, platform.NewShapeError(providerName, "album", id, err)
	}
	return platform.Bind(bind, album)
}

// GetArtist fetches an artist with its hot albums.
func (n *NeteasePlatform) GetArtist(ctx context.Context, id string, bind *model.Artist) (*model.Artist, error) {
	root, err := n.client.artistAlbums(ctx, id)
	if err != nil {
		return nil, err
	}
	record, err := rawjson.RequireObject(root, "artist")
	if err != nil {
		return nil, platform.NewShapeError(providerName, "artist", id, err)
	}
	artist, err := n.buildArtist(record)
	if err != nil {
		return nil, platform.NewShapeError(providerName, "artist", id, err)
	}
	items := rawjson.Array(root.Get("hotAlbums"))
	hot := make([]*model.Album, 0, len(items))
	for _, item := range items {
		album, err := n.buildAlbum(item, nil)
		if err != nil {
			return nil, platform.NewShapeError(providerName, "artist", id, err)
		}
		hot = append(hot, album)
	}
	artist.Set(model.FieldHotAlbums, hot)
	return platform.Bind(bind, artist)
}

// GetPlaylist fetches playlist detail including its tracks.
func (n *NeteasePlatform) GetPlaylist(ctx context.Context, id string, bind *model.Playlist) (*model.Playlist, error) {
	root, err := n.client.playlistDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	record, err := rawjson.RequireObject(root, "result")
	if err != nil {
		return nil, platform.NewShapeError(providerName, "playlist", id, err)
	}
	playlist, err := n.buildPlaylist(record)
	if err != nil {
		return nil, platform.NewShapeError(providerName, "playlist", id, err)
	}
	return platform.Bind(bind, playlist)
}

// GetSongLyric selects one variant from the combined lyric response.
func (n *NeteasePlatform) GetSongLyric(ctx context.Context, id string, variant platform.LyricVariant) (string, bool, error) {
	root, err := n.client.lyric(ctx, id)
	if err != nil {
		return "", false, err
	}
	key := "lrc"
	switch variant {
	case platform.LyricKaraoke:
		key = "klyric"
	case platform.LyricTranslated:
		key = "tlyric"
	}
	text, ok := rawjson.OptString(root.Get(key), "lyric")
	if !ok || text == "" {
		return "", false, nil
	}
	return text, true, nil
}

func (n *NeteasePlatform) songRecord(ctx context.Context, id string) (*fastjson.Value, error) {
	root, err := n.client.songDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	songs := rawjson.Array(root.Get("songs"))
	if len(songs) == 0 {
		if _, ok := rawjson.Alt(root, "songs"); !ok {
			return nil, platform.NewShapeError(providerName, "song", id, rawjson.ErrMissingKey)
		}
		return nil, platform.NewNotFoundError(providerName, "song", id)
	}
	return songs[0], nil
}
