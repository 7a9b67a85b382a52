package qqmusic

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/rawjson"
	"github.com/valyala/fastjson"
)

// searchType binds a searchable kind to its request, the path of the result
// list and the builder for one record.
type searchType struct {
	fetch func(c *Client, ctx context.Context, query string, limit int) (*fastjson.Value, error)
	list  []string
	build func(q *QQMusicPlatform, v *fastjson.Value) (model.Entity, error)
}

var searchTypes = map[model.Kind]searchType{
	model.KindSong: {(*Client).searchSongs, []string{"data", "song", "list"}, func(q *QQMusicPlatform, v *fastjson.Value) (model.Entity, error) {
		return q.buildSong(v)
	}},
	model.KindAlbum: {(*Client).searchAlbums, []string{"data", "album", "list"}, func(q *QQMusicPlatform, v *fastjson.Value) (model.Entity, error) {
		return q.buildAlbum(v, albumKeys, nil)
	}},
	model.KindPlaylist: {(*Client).searchPlaylists, []string{"data", "list"}, func(q *QQMusicPlatform, v *fastjson.Value) (model.Entity, error) {
		return q.buildPlaylist(v)
	}},
}

// keySet lists the alternative key names of one nested entity. Records that
// describe the entity itself use the bare names; records that embed it flat
// (a song carrying albummid) must not match the outer record's own id.
type keySet struct {
	id, mid, name []string
}

var (
	albumKeys = keySet{
		id:   []string{"id", "albumid", "albumID"},
		mid:  []string{"mid", "albummid", "albumMID"},
		name: []string{"name", "albumname", "albumName"},
	}
	flatAlbumKeys = keySet{
		id:   []string{"albumid", "albumID"},
		mid:  []string{"albummid", "albumMID"},
		name: []string{"albumname", "albumName"},
	}
	artistKeys = keySet{
		id:   []string{"id", "singerid", "singerID", "singer_id"},
		mid:  []string{"mid", "singermid", "singerMID", "singer_mid"},
		name: []string{"name", "singername", "singerName", "singer_name"},
	}
	flatArtistKeys = keySet{
		id:   []string{"singerid", "singerID", "singer_id"},
		mid:  []string{"singermid", "singerMID", "singer_mid"},
		name: []string{"singername", "singerName", "singer_name"},
	}
)

// buildSong builds the first singer, then the album with that singer. The
// album is either a nested object or flattened into the song record.
func (q *QQMusicPlatform) buildSong(v *fastjson.Value) (*model.Song, error) {
	singer, err := rawjson.RequireAlt(v, "singer")
	if err != nil {
		return nil, err
	}
	artist, err := q.buildArtist(singer, artistKeys)
	if err != nil {
		return nil, fmt.Errorf("song singer: %w", err)
	}
	var album *model.Album
	if nested, ok := rawjson.Alt(v, "album"); ok && nested.Type() == fastjson.TypeObject {
		album, err = q.buildAlbum(nested, albumKeys, artist)
	} else {
		album, err = q.buildAlbum(v, flatAlbumKeys, artist)
	}
	if err != nil {
		return nil, fmt.Errorf("song album: %w", err)
	}
	mid, err := rawjson.RequireString(v, "mid", "songmid")
	if err != nil {
		return nil, err
	}
	name, err := rawjson.RequireString(v, "name", "songname")
	if err != nil {
		return nil, err
	}
	seconds, err := rawjson.RequireInt64(v, "interval")
	if err != nil {
		return nil, err
	}

	fields := model.Fields{
		model.FieldMid:      mid,
		model.FieldName:     name,
		model.FieldDuration: time.Duration(seconds) * time.Second,
		model.FieldAlbum:    album,
		model.FieldArtist:   artist,
	}
	if id, ok := rawjson.OptInt64(v, "id", "songid"); ok {
		fields[model.FieldID] = id
	}
	if published, ok := parseDate(v, "time_public", "pubtime"); ok {
		fields[model.FieldPublishTime] = published
	}
	return model.NewSong(q, fields), nil
}

// buildAlbum uses artist when given. Otherwise the artist is read from the
// flat singer keys when the record carries them.
func (q *QQMusicPlatform) buildAlbum(v *fastjson.Value, keys keySet, artist *model.Artist) (*model.Album, error) {
	mid, err := rawjson.RequireString(v, keys.mid...)
	if err != nil {
		return nil, err
	}
	name, err := rawjson.RequireString(v, keys.name...)
	if err != nil {
		return nil, err
	}
	fields := model.Fields{
		model.FieldMid:  mid,
		model.FieldName: name,
	}
	if id, ok := rawjson.OptInt64(v, keys.id...); ok {
		fields[model.FieldID] = id
	}
	if mid != "" {
		fields[model.FieldCoverURL] = albumCoverURL(mid)
	}
	if published, ok := parseDate(v, "pubtime", "pubTime", "aDate", "publicTime"); ok {
		fields[model.FieldPublishTime] = published
	}
	if company, ok := rawjson.OptString(v, "company"); ok {
		fields[model.FieldCompany] = company
	}
	if artist == nil {
		if _, ok := rawjson.Alt(v, "singerid", "singerID"); ok {
			if artist, err = q.buildArtist(v, flatArtistKeys); err != nil {
				return nil, fmt.Errorf("album singer: %w", err)
			}
		}
	}
	if artist != nil {
		fields[model.FieldArtist] = artist
	}
	if list, ok := rawjson.Alt(v, "list"); ok && list.Type() == fastjson.TypeArray {
		songs, err := q.buildSongs(rawjson.Array(list))
		if err != nil {
			return nil, fmt.Errorf("album songs: %w", err)
		}
		fields[model.FieldSongs] = songs
	}
	return model.NewAlbum(q, fields), nil
}

// buildArtist accepts a singer list and uses its first element.
func (q *QQMusicPlatform) buildArtist(v *fastjson.Value, keys keySet) (*model.Artist, error) {
	v = rawjson.First(v)
	if v == nil {
		return nil, fmt.Errorf("%w: singer[0]", rawjson.ErrMissingKey)
	}
	mid, err := rawjson.RequireString(v, keys.mid...)
	if err != nil {
		return nil, err
	}
	name, err := rawjson.RequireString(v, keys.name...)
	if err != nil {
		return nil, err
	}
	fields := model.Fields{
		model.FieldMid:  mid,
		model.FieldName: name,
	}
	if id, ok := rawjson.OptInt64(v, keys.id...); ok {
		fields[model.FieldID] = id
	}
	if mid != "" {
		fields[model.FieldCoverURL] = artistCoverURL(mid)
	}
	return model.NewArtist(q, fields), nil
}

func (q *QQMusicPlatform) buildPlaylist(v *fastjson.Value) (*model.Playlist, error) {
	creatorJSON := v
	if nested, ok := rawjson.Alt(v, "creator"); ok && nested.Type() == fastjson.TypeObject {
		creatorJSON = nested
	}
	creator, err := q.buildUser(creatorJSON)
	if err != nil {
		return nil, fmt.Errorf("playlist creator: %w", err)
	}
	id, err := rawjson.RequireInt64(v, "disstid", "dissid")
	if err != nil {
		return nil, err
	}
	name, err := rawjson.RequireString(v, "dissname")
	if err != nil {
		return nil, err
	}

	fields := model.Fields{
		model.FieldID:      id,
		model.FieldName:    name,
		model.FieldCreator: creator,
	}
	if cover, ok := rawjson.OptString(v, "logo", "imgurl"); ok {
		fields[model.FieldCoverURL] = cover
	}
	if count, ok := rawjson.OptInt64(v, "total_song_num", "song_count"); ok {
		fields[model.FieldSongCount] = count
	}
	if plays, ok := rawjson.OptInt64(v, "visitnum", "listennum"); ok {
		fields[model.FieldPlayCount] = plays
	}
	if list, ok := rawjson.Alt(v, "songlist"); ok && list.Type() == fastjson.TypeArray {
		songs, err := q.buildSongs(rawjson.Array(list))
		if err != nil {
			return nil, fmt.Errorf("playlist songs: %w", err)
		}
		fields[model.FieldSongs] = songs
	}
	return model.NewPlaylist(q, fields), nil
}

// buildUser keeps a numeric uin as an integer and anything else as text.
func (q *QQMusicPlatform) buildUser(v *fastjson.Value) (*model.User, error) {
	name, err := rawjson.RequireString(v, "name", "nickname")
	if err != nil {
		return nil, err
	}
	fields := model.Fields{model.FieldName: name}
	if raw, ok := rawjson.OptString(v, "uin", "creator_uin"); ok && raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			fields[model.FieldID] = id
		} else {
			fields[model.FieldID] = raw
		}
	}
	if avatar, ok := rawjson.OptString(v, "avatarUrl", "headurl"); ok {
		fields[model.FieldAvatarURL] = avatar
	}
	return model.NewUser(q, fields), nil
}

func (q *QQMusicPlatform) buildSongs(items []*fastjson.Value) ([]*model.Song, error) {
	songs := make([]*model.Song, 0, len(items))
	for i, item := range items {
		song, err := q.buildSong(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		songs = append(songs, song)
	}
	return songs, nil
}

// parseDate reads the first present key as unix seconds or a YYYY-MM-DD
// date. Zero, empty and malformed values are treated as absent.
func parseDate(v *fastjson.Value, keys ...string) (time.Time, bool) {
	field, ok := rawjson.Alt(v, keys...)
	if !ok || rawjson.IsNull(field) {
		return time.Time{}, false
	}
	if field.Type() == fastjson.TypeNumber {
		seconds, ok := rawjson.Int64(field)
		if !ok || seconds <= 0 {
			return time.Time{}, false
		}
		return time.Unix(seconds, 0).UTC(), true
	}
	text := strings.TrimSpace(rawjson.String(field))
	if seconds, err := strconv.ParseInt(text, 10, 64); err == nil {
		if seconds <= 0 {
			return time.Time{}, false
		}
		return time.Unix(seconds, 0).UTC(), true
	}
	t, err := time.Parse(time.DateOnly, text)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func albumCoverURL(mid string) string {
	return "https://y.gtimg.cn/music/photo_new/T002R500x500M000" + mid + ".jpg"
}

func artistCoverURL(mid string) string {
	return "https://y.gtimg.cn/music/photo_new/T001R300x300M000" + mid + ".jpg"
}
