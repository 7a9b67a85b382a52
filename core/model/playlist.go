package model

import "context"

// Playlist is a user-curated list of songs.
type Playlist struct{ base }

// NewPlaylist builds a Playlist bound to source.
func NewPlaylist(source Resolver, f Fields) *Playlist {
	p := &Playlist{}
	p.init(KindPlaylist, source, p, f)
	return p
}

// ID returns the numeric playlist id. Both providers key playlists by id.
func (p *Playlist) ID() int64 { return eagerValue[int64](&p.base, FieldID) }

// CoverURL returns the playlist cover URL.
func (p *Playlist) CoverURL(ctx context.Context) (string, error) {
	return lazyValue[string](ctx, &p.base, FieldCoverURL)
}

// SongCount returns the number of tracks the provider reports.
func (p *Playlist) SongCount(ctx context.Context) (int64, error) {
	return lazyValue[int64](ctx, &p.base, FieldSongCount)
}

// PlayCount returns how often the playlist was played.
func (p *Playlist) PlayCount(ctx context.Context) (int64, error) {
	return lazyValue[int64](ctx, &p.base, FieldPlayCount)
}

// BookCount returns how many users bookmarked the playlist.
func (p *Playlist) BookCount(ctx context.Context) (int64, error) {
	return lazyValue[int64](ctx, &p.base, FieldBookCount)
}

// SharedCount returns how often the playlist was shared.
func (p *Playlist) SharedCount(ctx context.Context) (int64, error) {
	return lazyValue[int64](ctx, &p.base, FieldSharedCount)
}

// Creator returns the user who made the playlist.
func (p *Playlist) Creator(ctx context.Context) (*User, error) {
	return lazyValue[*User](ctx, &p.base, FieldCreator)
}

// Songs returns the tracks in playlist order.
func (p *Playlist) Songs(ctx context.Context) ([]*Song, error) {
	return lazyValue[[]*Song](ctx, &p.base, FieldSongs)
}
