package model

import "context"

// Artist is a performer.
type Artist struct{ base }

// NewArtist builds an Artist bound to source.
func NewArtist(source Resolver, f Fields) *Artist {
	a := &Artist{}
	a.init(KindArtist, source, a, f)
	return a
}

// ID returns the numeric id, or 0 when the provider keys artists by mid.
func (a *Artist) ID() int64 { return eagerValue[int64](&a.base, FieldID) }

// Mid returns the string id, or "" when the provider keys artists by id.
func (a *Artist) Mid() string { return eagerValue[string](&a.base, FieldMid) }

// CoverURL returns the artist portrait URL.
func (a *Artist) CoverURL(ctx context.Context) (string, error) {
	return lazyValue[string](ctx, &a.base, FieldCoverURL)
}

// HotAlbums returns the artist's popular albums.
func (a *Artist) HotAlbums(ctx context.Context) ([]*Album, error) {
	return lazyValue[[]*Album](ctx, &a.base, FieldHotAlbums)
}
