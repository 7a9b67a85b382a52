package platform

import (
	"context"

	"github.com/liuran001/hymusic/core/model"
)

// ResolveEntity re-fetches e's detail record through p and rebinds it onto
// e. Providers use it to implement model.Resolver.
func ResolveEntity(ctx context.Context, p Provider, e model.Entity) error {
	if e.Kind() == model.KindUser {
		return NewUnsupportedError(p.Name(), "user detail")
	}
	id, err := p.Identifier(e)
	if err != nil {
		return &ProviderError{Provider: p.Name(), Resource: e.Kind().String(), Err: err}
	}
	switch x := e.(type) {
	case *model.Song:
		_, err = p.GetSong(ctx, id.Value, x)
	case *model.Album:
		_, err = p.GetAlbum(ctx, id.Value, x)
	case *model.Artist:
		_, err = p.GetArtist(ctx, id.Value, x)
	case *model.Playlist:
		_, err = p.GetPlaylist(ctx, id.Value, x)
	default:
		err = NewUnsupportedError(p.Name(), e.Kind().String()+" detail")
	}
	return err
}

// Bind returns fresh, or rebinds fresh onto bind and returns bind when bind
// is non-nil.
func Bind[E interface {
	comparable
	model.Entity
}](bind, fresh E) (E, error) {
	var zero E
	if bind == zero {
		return fresh, nil
	}
	if err := model.Rebind(bind, fresh); err != nil {
		return zero, err
	}
	return bind, nil
}

// FilterMatches keeps the entities matching criteria, up to limit when limit
// is positive.
func FilterMatches(entities []model.Entity, criteria map[string]string, limit int) ([]model.Entity, error) {
	out := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if limit > 0 && len(out) >= limit {
			break
		}
		ok, err := e.MatchFields(criteria)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}
