package netease

import (
	"fmt"
	"time"

	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/rawjson"
	"github.com/valyala/fastjson"
)

// searchType maps an entity kind onto the search API's type code, the
// result list key and the builder for one record.
type searchType struct {
	code  int
	key   string
	build func(n *NeteasePlatform, v *fastjson.Value) (model.Entity, error)
}

var searchTypes = map[model.Kind]searchType{
	model.KindSong: {1, "songs", func(n *NeteasePlatform, v *fastjson.Value) (model.Entity, error) {
		return n.buildSong(v)
	}},
	model.KindAlbum: {10, "albums", func(n *NeteasePlatform, v *fastjson.Value) (model.Entity, error) {
		return n.buildAlbum(v, nil)
	}},
	model.KindArtist: {100, "artists", func(n *NeteasePlatform, v *fastjson.Value) (model.Entity, error) {
		return n.buildArtist(v)
	}},
	model.KindPlaylist: {1000, "playlists", func(n *NeteasePlatform, v *fastjson.Value) (model.Entity, error) {
		return n.buildPlaylist(v)
	}},
	model.KindUser: {1002, "userprofiles", func(n *NeteasePlatform, v *fastjson.Value) (model.Entity, error) {
		return n.buildUser(v)
	}},
}

// buildSong builds the artist first and hands it to the album builder.
func (n *NeteasePlatform) buildSong(v *fastjson.Value) (*model.Song, error) {
	artists := rawjson.Array(v.Get("artists"))
	if len(artists) == 0 {
		return nil, fmt.Errorf("%w: artists[0]", rawjson.ErrMissingKey)
	}
	artist, err := n.buildArtist(artists[0])
	if err != nil {
		return nil, fmt.Errorf("song artist: %w", err)
	}
	albumJSON, err := rawjson.RequireObject(v, "album")
	if err != nil {
		return nil, err
	}
	album, err := n.buildAlbum(albumJSON, artist)
	if err != nil {
		return nil, fmt.Errorf("song album: %w", err)
	}
	id, err := rawjson.RequireInt64(v, "id")
	if err != nil {
		return nil, err
	}
	name, err := rawjson.RequireString(v, "name")
	if err != nil {
		return nil, err
	}
	durationMs, err := rawjson.RequireInt64(v, "duration")
	if err != nil {
		return nil, err
	}

	fields := model.Fields{
		model.FieldID:       id,
		model.FieldName:     name,
		model.FieldDuration: time.Duration(durationMs) * time.Millisecond,
		model.FieldArtist:   artist,
		model.FieldAlbum:    album,
	}
	if ms, ok := rawjson.OptInt64(albumJSON, "publishTime"); ok {
		fields[model.FieldPublishTime] = time.UnixMilli(ms).UTC()
	}
	return model.NewSong(n, fields), nil
}

// buildAlbum uses artist when given instead of the record's own artist.
func (n *NeteasePlatform) buildAlbum(v *fastjson.Value, artist *model.Artist) (*model.Album, error) {
	if artist == nil {
		artistJSON, err := rawjson.RequireObject(v, "artist")
		if err != nil {
			return nil, err
		}
		if artist, err = n.buildArtist(artistJSON); err != nil {
			return nil, fmt.Errorf("album artist: %w", err)
		}
	}
	id, err := rawjson.RequireInt64(v, "id")
	if err != nil {
		return nil, err
	}
	name, err := rawjson.RequireString(v, "name")
	if err != nil {
		return nil, err
	}

	fields := model.Fields{
		model.FieldID:     id,
		model.FieldName:   name,
		model.FieldArtist: artist,
	}
	if company, ok := rawjson.OptString(v, "company"); ok {
		fields[model.FieldCompany] = company
	}
	if cover, ok := rawjson.OptString(v, "picUrl"); ok {
		fields[model.FieldCoverURL] = cover
	}
	if ms, ok := rawjson.OptInt64(v, "publishTime"); ok {
		fields[model.FieldPublishTime] = time.UnixMilli(ms).UTC()
	}
	if items := rawjson.Array(v.Get("songs")); len(items) > 0 {
		songs, err := n.buildSongs(items)
		if err != nil {
			return nil, fmt.Errorf("album songs: %w", err)
		}
		fields[model.FieldSongs] = songs
	}
	return model.NewAlbum(n, fields), nil
}

func (n *NeteasePlatform) buildArtist(v *fastjson.Value) (*model.Artist, error) {
	id, err := rawjson.RequireInt64(v, "id")
	if err != nil {
		return nil, err
	}
	name, err := rawjson.RequireString(v, "name")
	if err != nil {
		return nil, err
	}
	fields := model.Fields{
		model.FieldID:   id,
		model.FieldName: name,
	}
	if cover, ok := rawjson.OptString(v, "picUrl"); ok {
		fields[model.FieldCoverURL] = cover
	}
	return model.NewArtist(n, fields), nil
}

func (n *NeteasePlatform) buildPlaylist(v *fastjson.Value) (*model.Playlist, error) {
	id, err := rawjson.RequireInt64(v, "id")
	if err != nil {
		return nil, err
	}
	name, err := rawjson.RequireString(v, "name")
	if err != nil {
		return nil, err
	}
	cover, err := rawjson.RequireString(v, "coverImgUrl")
	if err != nil {
		return nil, err
	}
	songCount, err := rawjson.RequireInt64(v, "trackCount")
	if err != nil {
		return nil, err
	}
	playCount, err := rawjson.RequireInt64(v, "playCount")
	if err != nil {
		return nil, err
	}
	creatorJSON, err := rawjson.RequireObject(v, "creator")
	if err != nil {
		return nil, err
	}
	creator, err := n.buildUser(creatorJSON)
	if err != nil {
		return nil, fmt.Errorf("playlist creator: %w", err)
	}

	fields := model.Fields{
		model.FieldID:        id,
		model.FieldName:      name,
		model.FieldCoverURL:  cover,
		model.FieldSongCount: songCount,
		model.FieldPlayCount: playCount,
		model.FieldCreator:   creator,
	}
	if books, ok := rawjson.OptInt64(v, "bookCount"); ok {
		fields[model.FieldBookCount] = books
	}
	if shares, ok := rawjson.OptInt64(v, "sharedCount"); ok {
		fields[model.FieldSharedCount] = shares
	}
	if tracks, ok := rawjson.Alt(v, "tracks"); ok && !rawjson.IsNull(tracks) {
		songs, err := n.buildSongs(rawjson.Array(tracks))
		if err != nil {
			return nil, fmt.Errorf("playlist tracks: %w", err)
		}
		fields[model.FieldSongs] = songs
	}
	return model.NewPlaylist(n, fields), nil
}

func (n *NeteasePlatform) buildUser(v *fastjson.Value) (*model.User, error) {
	id, err := rawjson.RequireInt64(v, "userId")
	if err != nil {
		return nil, err
	}
	name, err := rawjson.RequireString(v, "nickname")
	if err != nil {
		return nil, err
	}
	fields := model.Fields{
		model.FieldID:   id,
		model.FieldName: name,
	}
	if gender, ok := rawjson.OptInt64(v, "gender"); ok {
		fields[model.FieldGender] = genderName(gender)
	}
	if avatar, ok := rawjson.OptString(v, "avatarUrl"); ok {
		fields[model.FieldAvatarURL] = avatar
	}
	if signature, ok := rawjson.OptString(v, "signature"); ok {
		fields[model.FieldSignature] = signature
	}
	return model.NewUser(n, fields), nil
}

func (n *NeteasePlatform) buildSongs(items []*fastjson.Value) ([]*model.Song, error) {
	songs := make([]*model.Song, 0, len(items))
	for i, item := range items {
		song, err := n.buildSong(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		songs = append(songs, song)
	}
	return songs, nil
}

func genderName(code int64) string {
	if code == 1 {
		return "男"
	}
	return "女"
}
