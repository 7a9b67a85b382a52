// Package platform defines the provider abstraction every music service
// adapter implements, plus the shared errors and helpers around it.
package platform

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/liuran001/hymusic/core/model"
)

// Provider adapts one remote music service to the entity model.
//
// Detail getters accept an optional bind target. When bind is non-nil the
// fetched fields are rebound onto it and bind itself is returned.
type Provider interface {
	model.Resolver

	// Search returns at most limit entities of kind matching criteria.
	Search(ctx context.Context, query string, kind model.Kind, limit int, criteria map[string]string) ([]model.Entity, error)

	// ListPlaylists pages through the provider's playlist hub lazily.
	ListPlaylists(ctx context.Context, opts ListOptions) iter.Seq2[*model.Playlist, error]

	GetSong(ctx context.Context, id string, bind *model.Song) (*model.Song, error)
	GetAlbum(ctx context.Context, id string, bind *model.Album) (*model.Album, error)
	GetArtist(ctx context.Context, id string, bind *model.Artist) (*model.Artist, error)
	GetPlaylist(ctx context.Context, id string, bind *model.Playlist) (*model.Playlist, error)

	// GetSongURL resolves a playable stream, falling back through lower tiers.
	GetSongURL(ctx context.Context, id string, quality Quality) (*StreamURL, error)

	// GetSongLyric returns one lyric variant; ok is false when the variant is absent.
	GetSongLyric(ctx context.Context, id string, variant LyricVariant) (text string, ok bool, err error)

	// Identifier returns the provider's identity value for e.
	Identifier(e model.Entity) (model.Identifier, error)
}

// Order selects the playlist hub ordering.
type Order string

const (
	OrderHot Order = "hot"
	OrderNew Order = "new"
)

// ParseOrder converts an order name, defaulting to OrderHot.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hot":
		return OrderHot, nil
	case "new":
		return OrderNew, nil
	default:
		return "", fmt.Errorf("unknown playlist order: %s", s)
	}
}

// ListOptions configures ListPlaylists. Max <= 0 means no limit.
type ListOptions struct {
	Max      int
	Category string
	Order    Order
}

// StreamURL is a resolved stream with the tier actually served.
type StreamURL struct {
	URL     string
	Quality Quality
	Bitrate int
	Format  string
	Size    int64
}

// LyricVariant selects one lyric flavor from a combined lyric response.
type LyricVariant int

const (
	LyricOriginal LyricVariant = iota
	LyricKaraoke
	LyricTranslated
)

func (v LyricVariant) String() string {
	switch v {
	case LyricKaraoke:
		return "karaoke"
	case LyricTranslated:
		return "translated"
	default:
		return "lyric"
	}
}

// ParseLyricVariant converts a variant name.
func ParseLyricVariant(s string) (LyricVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lyric", "lrc":
		return LyricOriginal, nil
	case "karaoke", "klyric":
		return LyricKaraoke, nil
	case "translated", "tlyric", "trans":
		return LyricTranslated, nil
	default:
		return LyricOriginal, fmt.Errorf("unknown lyric variant: %s", s)
	}
}
