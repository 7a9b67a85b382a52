package model

import (
	"context"
	"time"
)

// Song is a single track.
type Song struct{ base }

// NewSong builds a Song bound to source.
func NewSong(source Resolver, f Fields) *Song {
	s := &Song{}
	s.init(KindSong, source, s, f)
	return s
}

// ID returns the numeric id, or 0 when the provider keys songs by mid.
func (s *Song) ID() int64 { return eagerValue[int64](&s.base, FieldID) }

// Mid returns the string id, or "" when the provider keys songs by id.
func (s *Song) Mid() string { return eagerValue[string](&s.base, FieldMid) }

// Duration returns the track length, fetching song detail if unset.
func (s *Song) Duration(ctx context.Context) (time.Duration, error) {
	return lazyValue[time.Duration](ctx, &s.base, FieldDuration)
}

// PublishTime returns the release date of the song's album.
func (s *Song) PublishTime(ctx context.Context) (time.Time, error) {
	return lazyValue[time.Time](ctx, &s.base, FieldPublishTime)
}

// Album returns the album the song appears on.
func (s *Song) Album(ctx context.Context) (*Album, error) {
	return lazyValue[*Album](ctx, &s.base, FieldAlbum)
}

// Artist returns the song's primary artist.
func (s *Song) Artist(ctx context.Context) (*Artist, error) {
	return lazyValue[*Artist](ctx, &s.base, FieldArtist)
}
