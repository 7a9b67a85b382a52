package model

import (
	"fmt"
	"strings"
)

// Kind identifies one of the five entity variants.
type Kind int

const (
	KindSong Kind = iota + 1
	KindAlbum
	KindArtist
	KindPlaylist
	KindUser
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindSong:
		return "song"
	case KindAlbum:
		return "album"
	case KindArtist:
		return "artist"
	case KindPlaylist:
		return "playlist"
	case KindUser:
		return "user"
	default:
		return "unknown"
	}
}

// ParseKind converts a kind name to Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "song", "track", "music":
		return KindSong, nil
	case "album":
		return KindAlbum, nil
	case "artist", "singer":
		return KindArtist, nil
	case "playlist":
		return KindPlaylist, nil
	case "user":
		return KindUser, nil
	default:
		return 0, fmt.Errorf("unknown entity kind: %s", s)
	}
}

// Canonical attribute names shared by every provider.
const (
	FieldID          = "id"
	FieldMid         = "mid"
	FieldName        = "name"
	FieldDuration    = "duration"
	FieldPublishTime = "publish_time"
	FieldAlbum       = "album"
	FieldArtist      = "artist"
	FieldCompany     = "company"
	FieldCoverURL    = "cover_url"
	FieldSongs       = "songs"
	FieldHotAlbums   = "hot_albums"
	FieldSongCount   = "song_count"
	FieldPlayCount   = "play_count"
	FieldBookCount   = "book_count"
	FieldSharedCount = "shared_count"
	FieldCreator     = "creator"
	FieldGender      = "gender"
	FieldAvatarURL   = "avatar_url"
	FieldSignature   = "signature"
)

// schemas lists the attributes each kind knows about; true marks a lazy
// attribute that is filled from the provider's detail endpoint on first read.
var schemas = map[Kind]map[string]bool{
	KindSong: {
		FieldID:          false,
		FieldMid:         false,
		FieldName:        false,
		FieldDuration:    true,
		FieldPublishTime: true,
		FieldAlbum:       true,
		FieldArtist:      true,
	},
	KindAlbum: {
		FieldID:          false,
		FieldMid:         false,
		FieldName:        false,
		FieldCompany:     true,
		FieldCoverURL:    true,
		FieldPublishTime: true,
		FieldArtist:      true,
		FieldSongs:       true,
	},
	KindArtist: {
		FieldID:        false,
		FieldMid:       false,
		FieldName:      false,
		FieldCoverURL:  true,
		FieldHotAlbums: true,
	},
	KindPlaylist: {
		FieldID:          false,
		FieldName:        false,
		FieldCoverURL:    true,
		FieldSongCount:   true,
		FieldPlayCount:   true,
		FieldBookCount:   true,
		FieldSharedCount: true,
		FieldCreator:     true,
		FieldSongs:       true,
	},
	KindUser: {
		FieldID:        false,
		FieldName:      false,
		FieldGender:    false,
		FieldAvatarURL: false,
		FieldSignature: false,
	},
}

// Attributes returns the attribute names known for k.
func Attributes(k Kind) []string {
	schema := schemas[k]
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	return names
}

// IsLazy reports whether attribute name of kind k is resolved lazily.
func IsLazy(k Kind, name string) bool {
	return schemas[k][name]
}
