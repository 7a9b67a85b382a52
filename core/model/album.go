package model

import (
	"context"
	"time"
)

// Album is a release grouping songs by one artist.
type Album struct{ base }

// NewAlbum builds an Album bound to source.
func NewAlbum(source Resolver, f Fields) *Album {
	a := &Album{}
	a.init(KindAlbum, source, a, f)
	return a
}

// ID returns the numeric id, or 0 when the provider keys albums by mid.
func (a *Album) ID() int64 { return eagerValue[int64](&a.base, FieldID) }

// Mid returns the string id, or "" when the provider keys albums by id.
func (a *Album) Mid() string { return eagerValue[string](&a.base, FieldMid) }

// Company returns the publishing label.
func (a *Album) Company(ctx context.Context) (string, error) {
	return lazyValue[string](ctx, &a.base, FieldCompany)
}

// CoverURL returns the album art URL.
func (a *Album) CoverURL(ctx context.Context) (string, error) {
	return lazyValue[string](ctx, &a.base, FieldCoverURL)
}

// PublishTime returns the release date.
func (a *Album) PublishTime(ctx context.Context) (time.Time, error) {
	return lazyValue[time.Time](ctx, &a.base, FieldPublishTime)
}

// Artist returns the album artist.
func (a *Album) Artist(ctx context.Context) (*Artist, error) {
	return lazyValue[*Artist](ctx, &a.base, FieldArtist)
}

// Songs returns the track list in album order.
func (a *Album) Songs(ctx context.Context) ([]*Song, error) {
	return lazyValue[[]*Song](ctx, &a.base, FieldSongs)
}
