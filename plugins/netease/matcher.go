package netease

import (
	"net/url"
	"strings"

	"github.com/liuran001/hymusic/core/model"
)

var kindBySegment = map[string]model.Kind{
	"song":     model.KindSong,
	"album":    model.KindAlbum,
	"artist":   model.KindArtist,
	"playlist": model.KindPlaylist,
}

// MatchURL implements platform.URLMatcher.
// Supported shapes include:
//   - https://music.163.com/song?id=1234567
//   - https://music.163.com/#/album?id=67890
//   - https://y.music.163.com/m/playlist?id=11111
//   - https://music.163.com/artist/22222
func (n *NeteasePlatform) MatchURL(rawURL string) (model.Kind, string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return 0, "", false
	}
	if !strings.Contains(parsed.Hostname(), "music.163.com") {
		return 0, "", false
	}

	route, rawQuery := parsed.Path, parsed.RawQuery
	// Hash routes carry their own path and query: #/song?id=1
	if parsed.Fragment != "" {
		route, rawQuery, _ = strings.Cut(parsed.Fragment, "?")
	}
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return 0, "", false
	}

	segments := strings.Split(strings.Trim(route, "/"), "/")
	for i, segment := range segments {
		kind, ok := kindBySegment[segment]
		if !ok {
			continue
		}
		if id := params.Get("id"); allDigits(id) {
			return kind, id, true
		}
		if i+1 < len(segments) && allDigits(segments[i+1]) {
			return kind, segments[i+1], true
		}
		return 0, "", false
	}
	return 0, "", false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
